package fsimnet

import "github.com/fyerfyer/gatpg/pkg/value"

// EventQueue is the level-ordered event-driven propagation scaffold: one
// bucket per circuit level, each a list of pending node ids. A single
// EventQueue is owned by one State and must not be shared across threads.
type EventQueue struct {
	net     *Network
	buckets [][]int
	queued  []bool
	mask    []uint64
}

// NewEventQueue allocates a queue sized to net.
func NewEventQueue(net *Network) *EventQueue {
	return &EventQueue{
		net:     net,
		buckets: make([][]int, net.MaxLevel+1),
		queued:  make([]bool, net.Graph.NodeNum()),
		mask:    make([]uint64, net.Graph.NodeNum()),
	}
}

// PutEvent ORs mask into node's pending flip mask and enqueues it into its
// level bucket if not already queued. Idempotent: repeated calls before
// the node drains simply accumulate into the same mask.
func (eq *EventQueue) PutEvent(node int, mask uint64) {
	eq.mask[node] |= mask
	if !eq.queued[node] {
		eq.queued[node] = true
		lvl := eq.net.Graph.Node(node).Level
		eq.buckets[lvl] = append(eq.buckets[lvl], node)
	}
}

type undoEntry struct {
	node int
	old  uint64
}

// Simulate drains the lowest non-empty bucket repeatedly: for each queued
// node it recomputes the gate's output from its fanins' current values,
// XORs in the node's pending flip mask, and — if the result differs from
// the node's prior value — records the change in an undo log, propagates
// to fanout (or, for a PPO node, records the resulting diff bits), before
// moving to the next bucket. After every bucket drains, the undo log is
// replayed in reverse so st is left exactly as it was before the call,
// ready for the next Simulate.
func (eq *EventQueue) Simulate(st *State) *value.DiffBitsArray {
	result := value.NewDiffBitsArray()
	var log []undoEntry

	for lvl := 0; lvl <= eq.net.MaxLevel; lvl++ {
		bucket := eq.buckets[lvl]
		if len(bucket) == 0 {
			continue
		}
		eq.buckets[lvl] = nil

		for _, node := range bucket {
			eq.queued[node] = false
			n := eq.net.Graph.Node(node)

			old := st.Values[node]
			newVal := eval(n, st.Values)
			newVal ^= eq.mask[node]
			eq.mask[node] = 0

			if newVal == old {
				continue
			}
			log = append(log, undoEntry{node: node, old: old})
			st.Values[node] = newVal
			diff := newVal ^ old

			if poIdx, ok := eq.net.POIndex[node]; ok {
				result.Record(poIdx, diff)
			}
			for _, fo := range n.Fanout {
				eq.PutEvent(fo, 0)
			}
		}
	}

	for i := len(log) - 1; i >= 0; i-- {
		st.Values[log[i].node] = log[i].old
	}
	return result
}
