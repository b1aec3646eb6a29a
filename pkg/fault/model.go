package fault

import (
	"fmt"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// ErrFaultOutOfNetwork is returned when a fault references a node id not
// present in the circuit graph it was supposedly built from.
type ErrFaultOutOfNetwork struct {
	Node int
}

func (e *ErrFaultOutOfNetwork) Error() string {
	return fmt.Sprintf("fault references unknown node %d", e.Node)
}

// Model enumerates the representative fault list for a circuit graph and
// answers FFR/MFFC membership queries. Built once per graph; faults
// themselves never change after construction (only status, tracked in a
// separate StatusRegistry).
type Model struct {
	graph    *circuit.Graph
	faults   []*Fault
	byFFR    map[int][]int // FFR index -> fault ids
	byMFFC   map[int][]int // MFFC root node id -> fault ids
}

// Build enumerates one stuck-at-0/stuck-at-1 fault pair per line (stem
// fault), plus a pair per fanout branch edge for lines with fanout > 1,
// and precomputes each fault's excitation and FFR-propagation conditions.
// transition additionally builds the transition-delay fault list sharing
// the same sites.
func Build(g *circuit.Graph, transition bool) (*Model, error) {
	m := &Model{graph: g, byFFR: make(map[int][]int), byMFFC: make(map[int][]int)}

	kinds := []Kind{StuckAt}
	if transition {
		kinds = append(kinds, TransitionDelay)
	}

	for _, n := range allNodes(g) {
		for _, k := range kinds {
			m.addStemFault(n, value.V0, k)
			m.addStemFault(n, value.V1, k)
		}
		if len(n.Fanout) > 1 {
			for _, consumer := range n.Fanout {
				idx := indexOf(g.Node(consumer).Fanin, n.ID)
				for _, k := range kinds {
					m.addBranchFault(n, consumer, idx, value.V0, k)
					m.addBranchFault(n, consumer, idx, value.V1, k)
				}
			}
		}
	}

	return m, nil
}

func allNodes(g *circuit.Graph) []*circuit.Node {
	out := make([]*circuit.Node, g.NodeNum())
	for i := range out {
		out[i] = g.Node(i)
	}
	return out
}

func indexOf(ids []int, target int) int {
	for i, v := range ids {
		if v == target {
			return i
		}
	}
	return -1
}

func (m *Model) register(f *Fault) {
	f.ID = len(m.faults)
	m.faults = append(m.faults, f)
	ffrIdx := m.graph.FFRIndex(f.FFRRoot)
	if ffrIdx < 0 {
		// root not directly indexed (e.g. branch fault root == a node that
		// is itself an FFR root): find by scanning, graphs here are small.
		for i, ffr := range m.graph.FFRList() {
			if ffr.Root == f.FFRRoot {
				ffrIdx = i
				break
			}
		}
	}
	m.byFFR[ffrIdx] = append(m.byFFR[ffrIdx], f.ID)
	mffcRoot := m.graph.Node(f.FFRRoot).MFFCRoot
	m.byMFFC[mffcRoot] = append(m.byMFFC[mffcRoot], f.ID)
}

func (m *Model) addStemFault(n *circuit.Node, stuck value.Value3, k Kind) {
	f := &Fault{
		Kind:       k,
		Site:       Stem,
		Origin:     n.ID,
		Input:      -1,
		StuckValue: stuck,
		Excitation: AssignList{{Node: n.ID, Time: 0, Value: stuck.Not()}},
	}
	if k == TransitionDelay {
		f.PrevFrame = AssignList{{Node: n.ID, Time: -1, Value: stuck}}
	}

	if n.IsFFRRoot() {
		f.FFRRoot = n.ID
	} else {
		firstGate := m.graph.Node(n.Fanout[0])
		viaIdx := indexOf(firstGate.Fanin, n.ID)
		prop := sideInputsOfGate(firstGate, viaIdx)
		root, rest := walkChain(m.graph, firstGate.ID)
		f.FFRRoot = root
		f.FFRPropagate = prop.Merge(rest)
	}

	m.register(f)
}

func (m *Model) addBranchFault(origin *circuit.Node, gateID, viaIdx int, stuck value.Value3, k Kind) {
	gate := m.graph.Node(gateID)
	f := &Fault{
		Kind:       k,
		Site:       Branch,
		Origin:     origin.ID,
		Input:      viaIdx,
		StuckValue: stuck,
		Excitation: AssignList{{Node: origin.ID, Time: 0, Value: stuck.Not()}}.Merge(sideInputsOfGate(gate, viaIdx)),
	}
	if k == TransitionDelay {
		f.PrevFrame = AssignList{{Node: origin.ID, Time: -1, Value: stuck}}
	}

	if gate.IsFFRRoot() {
		f.FFRRoot = gate.ID
	} else {
		root, rest := walkChain(m.graph, gate.ID)
		f.FFRRoot = root
		f.FFRPropagate = rest
	}

	m.register(f)
}

// sideInputsOfGate returns the non-controlling-value assignments required
// on every fanin of n other than the one at viaIdx, so that n's output
// actually differs when the viaIdx input is faulty. Buf/Not/Xor/Xnor have
// no such requirement (always sensitizable, or requires only that other
// inputs be known rather than any particular value).
func sideInputsOfGate(n *circuit.Node, viaIdx int) AssignList {
	var nc value.Value3
	switch n.Gate {
	case circuit.And, circuit.Nand:
		nc = value.V1
	case circuit.Or, circuit.Nor:
		nc = value.V0
	default:
		return nil
	}
	var out AssignList
	for i, fin := range n.Fanin {
		if i == viaIdx {
			continue
		}
		out = append(out, Assign{Node: fin, Time: 0, Value: nc})
	}
	return out
}

// walkChain walks forward from start's sole fanout (start's own side
// inputs are assumed already accounted for by the caller) along the
// single-fanout chain up to the FFR root, accumulating every intermediate
// gate's side-input requirement. Returns the FFR root node id and the
// accumulated condition.
func walkChain(g *circuit.Graph, start int) (root int, cond AssignList) {
	cur := g.Node(start)
	for !cur.IsFFRRoot() {
		next := g.Node(cur.Fanout[0])
		viaIdx := indexOf(next.Fanin, cur.ID)
		cond = cond.Merge(sideInputsOfGate(next, viaIdx))
		cur = next
	}
	return cur.ID, cond
}

// FaultList returns every fault in the model.
func (m *Model) FaultList() []*Fault { return m.faults }

// Fault returns the fault with the given id.
func (m *Model) Fault(id int) *Fault { return m.faults[id] }

// FaultsInFFR returns the fault ids whose FFR root is the given FFR's root.
func (m *Model) FaultsInFFR(ffrIndex int) []int { return m.byFFR[ffrIndex] }

// FaultsInMFFC returns the fault ids rooted anywhere within the given
// MFFC root node.
func (m *Model) FaultsInMFFC(mffcRoot int) []int { return m.byMFFC[mffcRoot] }
