package dtpg

import "github.com/fyerfyer/gatpg/pkg/circuit"

// computeTFO returns the transitive fanout cone of root (root included):
// every node reachable by following Fanout edges forward. This is the set
// of nodes the D-chain (fvar/dvar) needs to cover — a fault excited and
// propagated to root must show a difference at some node in this set for
// it to be observable at all.
func computeTFO(g *circuit.Graph, root int) map[int]bool {
	set := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, fo := range g.Node(cur).Fanout {
			if !set[fo] {
				set[fo] = true
				queue = append(queue, fo)
			}
		}
	}
	return set
}

// tfoPOs returns the PPO node ids contained in cone, in the circuit's PPO
// order.
func tfoPOs(g *circuit.Graph, cone map[int]bool) []int {
	var out []int
	for _, id := range g.PPOList() {
		if cone[id] {
			out = append(out, id)
		}
	}
	return out
}
