package circuit

import "fmt"

// ErrInvalidNetlist is returned by Finalize when the constructed graph
// violates a structural invariant. Finalize checks gate arity and cycles
// only; a disconnected output is not detected. Matches the InvalidNetlist
// error class of the error design.
type ErrInvalidNetlist struct {
	Reason string
}

func (e *ErrInvalidNetlist) Error() string {
	return fmt.Sprintf("invalid netlist: %s", e.Reason)
}

// Builder accumulates nodes for a Graph. Nodes are never mutated once
// added except for the bookkeeping Finalize itself performs; the Builder
// is not safe for concurrent use.
type Builder struct {
	nodes []*Node
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) nextID() int { return len(b.nodes) }

func (b *Builder) add(n *Node) int {
	n.ID = b.nextID()
	n.Dom = NilID
	n.FFRRoot = NilID
	n.MFFCRoot = NilID
	n.Pair = NilID
	b.nodes = append(b.nodes, n)
	return n.ID
}

// AddInput adds a true primary input and returns its id.
func (b *Builder) AddInput(name string) int {
	return b.add(&Node{Name: name, Kind: PrimaryInput})
}

// AddDffOutput adds a DFF's Q output (a pseudo-primary input) and returns
// its id.
func (b *Builder) AddDffOutput(name string) int {
	return b.add(&Node{Name: name, Kind: DffOutput})
}

// AddGate adds a Logic node with the given gate type and ordered fanin ids,
// and returns the new node's id. Fanout back-edges are filled in as other
// nodes reference this one as a fanin.
func (b *Builder) AddGate(name string, gt GateType, fanin ...int) int {
	id := b.add(&Node{Name: name, Kind: Logic, Gate: gt, Fanin: append([]int(nil), fanin...)})
	for _, f := range fanin {
		b.nodes[f].Fanout = append(b.nodes[f].Fanout, id)
	}
	return id
}

// MarkOutput reclassifies an existing node as a true primary output. The
// node keeps its driving fanin (if any); a node may not be both an output
// and a gate consumed elsewhere other than by being read as a PPO.
func (b *Builder) MarkOutput(id int) {
	b.nodes[id].Kind = PrimaryOutput
}

// AddDffInput adds a DFF's D input (a pseudo-primary output) driven by the
// given fanin line, pairs it with the DFF's Q output (dffOutput, as
// returned by AddDffOutput), and returns its id. The pairing lets the DTPG
// engine link DFF-input@time-1 to DFF-output@time-0 when building a
// two-time-frame transition-delay miter.
func (b *Builder) AddDffInput(name string, driver, dffOutput int) int {
	id := b.add(&Node{Name: name, Kind: DffInput, Fanin: []int{driver}, Pair: dffOutput})
	b.nodes[driver].Fanout = append(b.nodes[driver].Fanout, id)
	b.nodes[dffOutput].Pair = id
	return id
}

func arity(gt GateType) int {
	switch gt {
	case Buf, Not:
		return 1
	default:
		return -1 // n-ary, arity >= 2 checked separately
	}
}

// Finalize validates the accumulated nodes and computes levels, FFR/MFFC
// partitions, and dominators, returning an immutable Graph.
func (b *Builder) Finalize() (*Graph, error) {
	g := &Graph{nodes: b.nodes, ffrOf: make(map[int]int)}

	for _, n := range g.nodes {
		if n.Kind == Logic {
			want := arity(n.Gate)
			if want > 0 && len(n.Fanin) != want {
				return nil, &ErrInvalidNetlist{Reason: fmt.Sprintf("gate %s (%s) expects %d fanin, has %d", n.Name, n.Gate, want, len(n.Fanin))}
			}
			if want < 0 && len(n.Fanin) < 2 {
				return nil, &ErrInvalidNetlist{Reason: fmt.Sprintf("gate %s (%s) expects >=2 fanin, has %d", n.Name, n.Gate, len(n.Fanin))}
			}
		}
		switch n.Kind {
		case PrimaryInput, DffOutput:
			g.ppi = append(g.ppi, n.ID)
		case PrimaryOutput, DffInput:
			g.ppo = append(g.ppo, n.ID)
		}
	}

	if err := computeLevels(g); err != nil {
		return nil, err
	}
	computeFFRs(g)
	computeDominators(g)
	computeMFFCs(g)

	return g, nil
}

// computeLevels assigns level(n) = 1 + max(level(fanin)), 0 for PPIs, via
// a Kahn-style topological pass; a node left unresolved after draining all
// ready nodes indicates a cycle.
func computeLevels(g *Graph) error {
	indeg := make([]int, len(g.nodes))
	for _, n := range g.nodes {
		indeg[n.ID] = len(n.Fanin)
	}

	queue := make([]int, 0, len(g.nodes))
	for _, n := range g.nodes {
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		n := g.nodes[id]

		maxIn := -1
		for _, f := range n.Fanin {
			if l := g.nodes[f].Level; l > maxIn {
				maxIn = l
			}
		}
		n.Level = maxIn + 1

		for _, fo := range n.Fanout {
			indeg[fo]--
			if indeg[fo] == 0 {
				queue = append(queue, fo)
			}
		}
	}

	if visited != len(g.nodes) {
		return &ErrInvalidNetlist{Reason: "cycle detected"}
	}
	return nil
}

// computeFFRs scans nodes in reverse topological (descending level) order:
// a node is an FFR root iff it is a PPO or has fanout != 1; non-root nodes
// inherit the FFR root of their sole fanout.
func computeFFRs(g *Graph) {
	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	// descending level, stable enough since only fanout-root inheritance
	// matters and a node's single fanout always has level > node's level.
	sortByLevelDesc(order, g)

	for _, id := range order {
		n := g.nodes[id]
		if n.IsFFRRoot() {
			n.FFRRoot = n.ID
		} else {
			n.FFRRoot = g.nodes[n.Fanout[0]].FFRRoot
		}
	}

	byRoot := make(map[int]*FFR)
	var rootOrder []int
	for _, id := range order {
		n := g.nodes[id]
		ffr, ok := byRoot[n.FFRRoot]
		if !ok {
			ffr = &FFR{Root: n.FFRRoot}
			byRoot[n.FFRRoot] = ffr
			rootOrder = append(rootOrder, n.FFRRoot)
		}
	}
	// populate in ascending-level (topological) order so FFR.Nodes is
	// forward topological with the root last.
	ascending := make([]int, len(order))
	copy(ascending, order)
	reverseInts(ascending)
	for _, id := range ascending {
		n := g.nodes[id]
		ffr := byRoot[n.FFRRoot]
		ffr.Nodes = append(ffr.Nodes, n.ID)
		for _, f := range n.Fanin {
			if g.nodes[f].FFRRoot != n.FFRRoot {
				ffr.Inputs = append(ffr.Inputs, f)
			}
		}
	}

	for i, root := range rootOrder {
		g.ffrs = append(g.ffrs, byRoot[root])
		g.ffrOf[root] = i
	}
}

func sortByLevelDesc(ids []int, g *Graph) {
	// simple insertion sort is fine: called once per graph at build time,
	// and graphs here are small/medium ATPG benchmarks.
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && g.nodes[ids[j-1]].Level < g.nodes[ids[j]].Level {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// computeDominators sets, per node, a dominator within its own FFR: every
// non-root node gets its FFR root (a node through which every path from it
// to g's PPOs passes, though not necessarily the immediate dominator), and
// every FFR root gets NilID.
func computeDominators(g *Graph) {
	for _, n := range g.nodes {
		if n.FFRRoot == n.ID {
			n.Dom = NilID
			continue
		}
		n.Dom = n.FFRRoot
	}
}

// computeMFFCs approximates MFFC grouping: every FFR collapses into its
// own singleton MFFC, rooted at the FFR's own root. This is exact for an
// FFR whose root has no fanout or fans out only to nodes outside the
// graph's dominance chain (the common case); it undercounts sharing for a
// deeper reconvergent MFFC, which this module folds back to FFR-level CNF
// sharing instead (see the Open Question entry in DESIGN.md — DTPG
// correctness is unaffected, since `dtpg.Engine` builds its CNF from the
// full transitive fanout cone regardless of MFFC grouping).
func computeMFFCs(g *Graph) {
	// Every FFR root is unique by construction, so each FFR seeds exactly
	// one singleton MFFC; g.ffrs is already in deterministic (topological-
	// scan) order, so walking it keeps g.mffcs order reproducible too.
	for i, ffr := range g.ffrs {
		g.nodes[ffr.Root].MFFCRoot = ffr.Root
		g.mffcs = append(g.mffcs, &MFFC{Root: ffr.Root, FFRs: []int{i}})
	}

	for _, n := range g.nodes {
		if n.MFFCRoot == NilID {
			n.MFFCRoot = g.nodes[n.FFRRoot].MFFCRoot
		}
	}
}
