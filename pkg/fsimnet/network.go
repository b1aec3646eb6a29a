// Package fsimnet is the simulation-oriented mirror of a circuit.Graph:
// it exposes the same nodes but organizes them for the fault simulator's
// hot path — per-node W-bit parallel value storage as flat uint64 masks
// (the 2-valued fast path; 3-valued care is handled upstream by the
// value.BitVector/TestVector layer that feeds PI assignments in) plus the
// FFR table FsimCore iterates over.
package fsimnet

import "github.com/fyerfyer/gatpg/pkg/circuit"

// Network wraps a finalized circuit.Graph with the bookkeeping the fault
// simulator needs: which node ids are POs (and at what PO index), and the
// maximum level for event-queue bucket sizing.
type Network struct {
	Graph    *circuit.Graph
	POIndex  map[int]int // node id -> PO index, for PPO nodes only
	MaxLevel int
}

// NewNetwork builds a Network view over g.
func NewNetwork(g *circuit.Graph) *Network {
	n := &Network{Graph: g, POIndex: make(map[int]int)}
	for i, id := range g.PPOList() {
		n.POIndex[id] = i
	}
	for i := 0; i < g.NodeNum(); i++ {
		if lvl := g.Node(i).Level; lvl > n.MaxLevel {
			n.MaxLevel = lvl
		}
	}
	return n
}

// State holds one private copy of per-node packed values, owned by a
// single simulation thread (or the lone SPSFP/SPPFP/PPSFP caller). Workers
// never share a State.
type State struct {
	net    *Network
	Values []uint64 // per-node W-bit parallel value, 1 = logic-1
}

// NewState allocates a zeroed value array sized to net's node count.
func NewState(net *Network) *State {
	return &State{net: net, Values: make([]uint64, net.Graph.NodeNum())}
}

// Network returns the owning Network.
func (s *State) Network() *Network { return s.net }

// SetInput assigns a full node id's value directly (used to drive PI/DFF
// boundary nodes before a simulation run).
func (s *State) SetInput(node int, bits uint64) {
	s.Values[node] = bits
}

// eval recomputes node id's output from its fanins' current values.
func eval(n *circuit.Node, values []uint64) uint64 {
	if len(n.Fanin) == 0 {
		return values[n.ID]
	}
	switch n.Gate {
	case circuit.Buf:
		return values[n.Fanin[0]]
	case circuit.Not:
		return ^values[n.Fanin[0]]
	case circuit.And:
		acc := ^uint64(0)
		for _, f := range n.Fanin {
			acc &= values[f]
		}
		return acc
	case circuit.Nand:
		acc := ^uint64(0)
		for _, f := range n.Fanin {
			acc &= values[f]
		}
		return ^acc
	case circuit.Or:
		var acc uint64
		for _, f := range n.Fanin {
			acc |= values[f]
		}
		return acc
	case circuit.Nor:
		var acc uint64
		for _, f := range n.Fanin {
			acc |= values[f]
		}
		return ^acc
	case circuit.Xor:
		var acc uint64
		for _, f := range n.Fanin {
			acc ^= values[f]
		}
		return acc
	case circuit.Xnor:
		var acc uint64
		for _, f := range n.Fanin {
			acc ^= values[f]
		}
		return ^acc
	default:
		return values[n.ID]
	}
}

// PropagateAll recomputes every node in ascending level order from the
// current PI/DFF-output boundary values — a full good-circuit simulation
// pass, used before launching any fault event.
func (s *State) PropagateAll(order []int) {
	for _, id := range order {
		n := s.net.Graph.Node(id)
		if len(n.Fanin) > 0 {
			s.Values[id] = eval(n, s.Values)
		}
	}
}

// LevelOrder returns every node id sorted ascending by level, suitable for
// PropagateAll / building once per Network and reused across States.
func LevelOrder(g *circuit.Graph) []int {
	order := make([]int, g.NodeNum())
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && g.Node(order[j-1]).Level > g.Node(order[j]).Level {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	return order
}
