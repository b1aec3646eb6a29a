// Package justify backtraces a set of required internal line values to a
// consistent primary-input/DFF-output assignment, preferring the
// controlling value at each gate so a single fanin justifies a required
// output wherever the gate allows it.
package justify

import (
	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// Strategy selects how multiple simultaneous objectives are handled.
type Strategy int

const (
	// Simple justifies each objective independently via its own backtrace,
	// never checking it against values already fixed by an earlier one.
	Simple Strategy = iota
	// Multi justifies every objective against one shared partial
	// assignment, failing if any two objectives require conflicting
	// values on the same line.
	Multi
)

// Justifier backtraces AssignList objectives through a fixed graph.
type Justifier struct {
	graph *circuit.Graph
}

// NewJustifier builds a Justifier over g.
func NewJustifier(g *circuit.Graph) *Justifier {
	return &Justifier{graph: g}
}

// Justify attempts to realize every assignment in target, returning the
// resulting partial node-id -> value map and whether every objective was
// satisfied without conflict.
func (j *Justifier) Justify(target fault.AssignList, strategy Strategy) (map[int]value.Value3, bool) {
	if strategy == Multi {
		return j.justifyMulti(target)
	}
	return j.justifySimple(target)
}

// justifySimple backtraces each objective into its own fresh partial map
// and merges the results afterward, last write wins: two objectives that
// land on the same line with different values silently overwrite rather
// than fail, since each objective never sees what an earlier one fixed.
func (j *Justifier) justifySimple(target fault.AssignList) (map[int]value.Value3, bool) {
	merged := make(map[int]value.Value3)
	ok := true
	for _, a := range target {
		if a.Time != 0 {
			continue // only the current-frame objective is structurally justified
		}
		own := make(map[int]value.Value3)
		if !j.backtrace(a.Node, a.Value, own) {
			ok = false
			continue
		}
		for node, v := range own {
			merged[node] = v
		}
	}
	return merged, ok
}

// justifyMulti backtraces every objective against one shared partial
// assignment, so a later objective reusing a line an earlier one already
// fixed must agree with it or the whole call fails.
func (j *Justifier) justifyMulti(target fault.AssignList) (map[int]value.Value3, bool) {
	partial := make(map[int]value.Value3)
	for _, a := range target {
		if a.Time != 0 {
			continue
		}
		if !j.backtrace(a.Node, a.Value, partial) {
			return partial, false
		}
	}
	return partial, true
}

// backtrace assigns node the value want, recursing through its driving
// gate's fanins (choosing the controlling-value shortcut where the gate
// allows it), and fails on conflict with an already-fixed value.
func (j *Justifier) backtrace(node int, want value.Value3, partial map[int]value.Value3) bool {
	if cur, ok := partial[node]; ok {
		return cur == want
	}
	n := j.graph.Node(node)
	if len(n.Fanin) == 0 {
		partial[node] = want
		return true
	}

	switch n.Gate {
	case circuit.Buf:
		return j.backtrace(n.Fanin[0], want, partial)
	case circuit.Not:
		return j.backtrace(n.Fanin[0], want.Not(), partial)
	case circuit.And:
		return j.backtraceAndLike(n, want, partial, value.V0, value.V1)
	case circuit.Nand:
		return j.backtraceAndLike(n, want.Not(), partial, value.V0, value.V1)
	case circuit.Or:
		return j.backtraceAndLike(n, want, partial, value.V1, value.V0)
	case circuit.Nor:
		return j.backtraceAndLike(n, want.Not(), partial, value.V1, value.V0)
	case circuit.Xor:
		return j.backtraceParity(n, want, partial, false)
	case circuit.Xnor:
		return j.backtraceParity(n, want, partial, true)
	default:
		partial[node] = want
		return true
	}
}

// backtraceAndLike handles the AND/OR family: controlling selects the
// shortcut value (0 for AND, 1 for OR) that justifies the gate's output
// with a single fanin; nonControlling is what every fanin must carry to
// realize the opposite output.
func (j *Justifier) backtraceAndLike(n *circuit.Node, want value.Value3, partial map[int]value.Value3, controlling, nonControlling value.Value3) bool {
	if want == controlling {
		// one fanin at the controlling value suffices; prefer the first.
		return j.backtrace(n.Fanin[0], controlling, partial)
	}
	for _, fi := range n.Fanin {
		if !j.backtrace(fi, nonControlling, partial) {
			return false
		}
	}
	return true
}

// backtraceParity handles XOR/XNOR by fixing every fanin but the last to
// an arbitrary value (0) and solving the last for the required parity.
func (j *Justifier) backtraceParity(n *circuit.Node, want value.Value3, partial map[int]value.Value3, invert bool) bool {
	acc := want
	if invert {
		acc = want.Not()
	}
	for i := 0; i < len(n.Fanin)-1; i++ {
		if !j.backtrace(n.Fanin[i], value.V0, partial) {
			return false
		}
		// acc unaffected by xor-ing with a fixed 0.
		_ = acc
	}
	return j.backtrace(n.Fanin[len(n.Fanin)-1], acc, partial)
}
