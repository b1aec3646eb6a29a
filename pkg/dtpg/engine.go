// Package dtpg implements SAT-based test pattern generation: a good
// circuit CNF copy, a faulty circuit CNF copy restricted to the fault's
// transitive fanout cone, and a D-chain linking the two via difference
// variables, solved under assumptions that encode the fault's local
// excitation and FFR-propagation requirements (see pkg/fault).
//
// Transition-delay faults add a second, previous-time-frame copy of the
// network (hvar) linked to the time-0 copy through each DFF's D-input, so
// the fault's PrevFrame condition can be assumed a clock edge before its
// excitation condition rather than alongside it.
package dtpg

import (
	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/cnf"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/sat"
	"github.com/fyerfyer/gatpg/pkg/value"
)

// State is the DTPG run state machine for a single fault.
type State int

const (
	Init State = iota
	BuildCnf
	Solving
	Sat
	Unsat
	Abort
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case BuildCnf:
		return "build_cnf"
	case Solving:
		return "solving"
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	case Abort:
		return "abort"
	default:
		return "?"
	}
}

// Engine generates tests for faults of a single circuit graph, one fault
// (or MFFC-shared batch) at a time.
type Engine struct {
	graph     *circuit.Graph
	model     *fault.Model
	abortLimit int // 0 = unbounded; reserved for future backtrack-count limiting
}

// NewEngine builds a DTPG engine over g/m.
func NewEngine(g *circuit.Graph, m *fault.Model) *Engine {
	return &Engine{graph: g, model: m}
}

// Outcome is the result of a single-fault DTPG run.
type Outcome struct {
	State  State
	Vector *value.TestVector
}

// GenerateTest builds a fresh CNF instance scoped to f's transitive
// fanout cone and solves it under f's excitation/propagation assumptions.
func (e *Engine) GenerateTest(f *fault.Fault) Outcome {
	sess := e.buildSession(f.FFRRoot)
	return sess.testForFault(f)
}

// session is one built CNF instance (good+faulty+d-chain over a TFO
// cone), reusable across every fault sharing that cone — the basis for
// the MFFC-sharing variant in mffc.go.
type session struct {
	graph *circuit.Graph
	sv    sat.Solver
	vm    *varMap
	enc   *cnf.Encoder
	cone  map[int]bool
	poIDs []int

	prevBuilt bool // whether ensurePrevFrame has run on this session
}

func (e *Engine) buildSession(root int) *session {
	cone := computeTFO(e.graph, root)
	sv := sat.NewDPLL()
	vm := newVarMap(sv, e.graph.NodeNum(), cone)
	enc := cnf.NewEncoder(sv)

	for i := 0; i < e.graph.NodeNum(); i++ {
		n := e.graph.Node(i)
		if len(n.Fanin) == 0 {
			continue
		}
		ins := litsFor(n.Fanin, vm.goodLit)
		enc.EncodeGate(n.Gate, vm.goodLit(n.ID), ins)
	}

	for n := range cone {
		node := e.graph.Node(n)
		if node.ID == root {
			continue // faulty value at root is defined via the d-chain only
		}
		if len(node.Fanin) > 0 {
			ins := litsFor(node.Fanin, vm.faultyLit)
			enc.EncodeGate(node.Gate, vm.faultyLit(n), ins)
		}
	}
	for n := range cone {
		enc.EncodeGate(circuit.Xor, vm.diffLit(n), []sat.Lit{vm.goodLit(n), vm.faultyLit(n)})
	}

	return &session{graph: e.graph, sv: sv, vm: vm, enc: enc, cone: cone, poIDs: tfoPOs(e.graph, cone)}
}

// ensurePrevFrame lazily builds the previous-time-frame (hvar) copy of the
// whole combinational network plus the buffer link from every DFF's
// D-input@time-1 to its Q-output@time-0: the two-time-frame miter a
// transition-delay fault's PrevFrame assumption needs to be satisfiable
// against anything other than itself. Idempotent per session, since an
// MFFC batch may run several transition-delay faults against one session.
func (s *session) ensurePrevFrame() {
	if s.prevBuilt {
		return
	}
	s.prevBuilt = true
	s.vm.allocHvars(s.sv, s.graph.NodeNum())

	for i := 0; i < s.graph.NodeNum(); i++ {
		n := s.graph.Node(i)
		if len(n.Fanin) == 0 {
			continue
		}
		ins := litsFor(n.Fanin, s.vm.prevLit)
		s.enc.EncodeGate(n.Gate, s.vm.prevLit(n.ID), ins)
	}

	for i := 0; i < s.graph.NodeNum(); i++ {
		n := s.graph.Node(i)
		if n.Kind != circuit.DffOutput || n.Pair == circuit.NilID {
			continue
		}
		din := s.graph.Node(n.Pair)
		driver := din.Fanin[0]
		s.enc.EncodeGate(circuit.Buf, s.vm.goodLit(n.ID), []sat.Lit{s.vm.prevLit(driver)})
	}
}

// testForFault adds f's excitation, forces the d-chain active at f's FFR
// root, requires observation at some reachable PO, and solves. Faults
// carrying a PrevFrame condition (transition-delay) additionally bring up
// the previous-time-frame cone and assume it there instead of at time 0.
func (s *session) testForFault(f *fault.Fault) Outcome {
	var assumptions []sat.Lit
	for _, a := range f.Excitation {
		if a.Time != 0 {
			continue
		}
		assumptions = append(assumptions, assignLit(s.vm.goodLit, a))
	}
	for _, a := range f.FFRPropagate {
		if a.Time != 0 {
			continue
		}
		assumptions = append(assumptions, assignLit(s.vm.goodLit, a))
	}
	if len(f.PrevFrame) > 0 {
		s.ensurePrevFrame()
		for _, a := range f.PrevFrame {
			assumptions = append(assumptions, assignLit(s.vm.prevLit, a))
		}
	}
	assumptions = append(assumptions, s.vm.diffLit(f.FFRRoot))

	if len(s.poIDs) == 0 {
		return Outcome{State: Unsat}
	}
	var detect sat.Clause
	for _, po := range s.poIDs {
		detect = append(detect, s.vm.diffLit(po))
	}
	s.sv.AddClause(detect)

	result, err := s.sv.Solve(assumptions)
	if err != nil {
		return Outcome{State: Abort}
	}
	if result != sat.Satisfiable {
		return Outcome{State: Unsat}
	}

	return Outcome{State: Sat, Vector: s.extractVector(f)}
}

func assignLit(litFor func(int) sat.Lit, a fault.Assign) sat.Lit {
	l := litFor(a.Node)
	if a.Value == value.V0 {
		return -l
	}
	return l
}

// extractVector reads the PI/DFF-output boundary's good-circuit values out
// of the solved model. For a transition-delay fault it additionally reads
// the previous-time-frame PI values (hvar) into the vector's PI2
// sub-vector, since those carry the initialization pattern that loads the
// complement of the fault's stuck value before the launch clock edge.
func (s *session) extractVector(f *fault.Fault) *value.TestVector {
	ppi := s.graph.PPIList()
	numDFF := 0
	for _, id := range ppi {
		if s.graph.Node(id).Kind == circuit.DffOutput {
			numDFF++
		}
	}
	numPI := len(ppi) - numDFF
	transition := f.Kind == fault.TransitionDelay
	tv := value.NewTestVector(numPI, numDFF, transition)

	piIdx, dffIdx := 0, 0
	for _, id := range ppi {
		v := tribool3(s.sv.Value(s.vm.gvar[id]))
		if s.graph.Node(id).Kind == circuit.DffOutput {
			tv.DFF.Set(dffIdx, v)
			dffIdx++
		} else {
			tv.PI.Set(piIdx, v)
			if transition {
				tv.PI2.Set(piIdx, tribool3(s.sv.Value(s.vm.hvar[id])))
			}
			piIdx++
		}
	}
	return tv
}

func tribool3(t sat.Tribool) value.Value3 {
	switch t {
	case sat.True:
		return value.V1
	case sat.False:
		return value.V0
	default:
		return value.VX
	}
}
