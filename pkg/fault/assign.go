// Package fault builds the representative fault list from a circuit graph,
// precomputes each fault's excitation condition and FFR-local propagation
// condition, and tracks fault status through the ATPG run.
package fault

import "github.com/fyerfyer/gatpg/pkg/value"

// Assign is a single (node, time-frame, value) assignment. Time is 0 for
// the current frame and -1 for the previous frame (transition-delay
// faults only). This single type stands in for what the original source
// split into NodeValList and AssignList — the spec treats them as one
// "assignment list" abstraction.
type Assign struct {
	Node  int
	Time  int
	Value value.Value3
}

// AssignList is an ordered set of assignments, e.g. an excitation or
// propagation condition.
type AssignList []Assign

// Conflicts reports whether al contains two assignments to the same
// (node, time) with differing values.
func (al AssignList) Conflicts() bool {
	seen := make(map[[2]int]value.Value3)
	for _, a := range al {
		key := [2]int{a.Node, a.Time}
		if v, ok := seen[key]; ok {
			if v != a.Value {
				return true
			}
			continue
		}
		seen[key] = a.Value
	}
	return false
}

// Merge appends o's assignments to al's copy, without deduplication; the
// caller is expected to check Conflicts afterward when that matters.
func (al AssignList) Merge(o AssignList) AssignList {
	out := make(AssignList, 0, len(al)+len(o))
	out = append(out, al...)
	out = append(out, o...)
	return out
}
