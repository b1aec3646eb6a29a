package fault

import "github.com/fyerfyer/gatpg/pkg/value"

// Kind distinguishes stuck-at from transition-delay faults.
type Kind int

const (
	StuckAt Kind = iota
	TransitionDelay
)

// Site distinguishes a fault on a gate's own output line (stem) from one
// injected on a specific fanin edge of a fanout branch (branch).
type Site int

const (
	Stem Site = iota
	Branch
)

// Fault is a single representative stuck-at or transition-delay fault,
// created once from the netlist and never mutated except for its status
// (tracked externally by a StatusRegistry, not as a field here, so the
// Fault value itself stays immutable and safely shared across workers).
type Fault struct {
	ID   int
	Kind Kind
	Site Site

	// Origin is the node id bearing the fault. For a Branch fault, Origin
	// is the driving line (one with more than one fanout) and Input is
	// Origin's fanin position on the consuming gate of the affected branch
	// edge; the consuming gate itself is not recorded here.
	Origin int
	Input  int // fanin index on the consuming gate, -1 for Stem faults

	StuckValue value.Value3 // 0 or 1; never X

	// Excitation is the minimal assignment activating the fault: the
	// driver of Origin must equal the complement of StuckValue, plus any
	// side-input assignments needed so a gate-input fault's driving gate
	// output actually differs.
	Excitation AssignList

	// PrevFrame carries the additional previous-time-frame assignment
	// required to excite a transition-delay fault (the line must hold the
	// stuck value one cycle earlier, so that reaching its complement at
	// time 0 is a transition). Empty for StuckAt.
	PrevFrame AssignList

	// FFRPropagate is the cached non-controlling side-input assignment
	// set required to carry the fault's effect from Origin to its FFR
	// root.
	FFRPropagate AssignList

	FFRRoot int // node id of the owning FFR's root
}

// Name renders the fault in "node/value" form, e.g. "g12/1".
func (f *Fault) Name(nodeName string) string {
	suffix := "0"
	if f.StuckValue == value.V1 {
		suffix = "1"
	}
	return nodeName + "/" + suffix
}
