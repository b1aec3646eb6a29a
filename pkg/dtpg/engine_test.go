package dtpg

import (
	"testing"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/value"
)

func buildNand2(t *testing.T) *circuit.Graph {
	t.Helper()
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", circuit.Nand, a, bb)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func faultWithStuck(m *fault.Model, origin int, site fault.Site, stuck value.Value3) *fault.Fault {
	for _, f := range m.FaultList() {
		if f.Origin == origin && f.Site == site && f.StuckValue == stuck {
			return f
		}
	}
	return nil
}

func TestGenerateTestNandSA0(t *testing.T) {
	g := buildNand2(t)
	m, err := fault.Build(g, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f := faultWithStuck(m, 2, fault.Stem, value.V0)
	if f == nil {
		t.Fatal("expected g1/SA0 fault")
	}

	e := NewEngine(g, m)
	out := e.GenerateTest(f)
	if out.State != Sat {
		t.Fatalf("state = %v, want Sat", out.State)
	}
	a := out.Vector.PI.Get(0)
	b := out.Vector.PI.Get(1)
	if !(a == value.V0 || b == value.V0) {
		t.Errorf("NAND SA0 test should have a=0 or b=0, got a=%v b=%v", a, b)
	}
}

func TestGenerateTestNandSA1(t *testing.T) {
	g := buildNand2(t)
	m, err := fault.Build(g, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f := faultWithStuck(m, 2, fault.Stem, value.V1)
	if f == nil {
		t.Fatal("expected g1/SA1 fault")
	}

	e := NewEngine(g, m)
	out := e.GenerateTest(f)
	if out.State != Sat {
		t.Fatalf("state = %v, want Sat", out.State)
	}
	a := out.Vector.PI.Get(0)
	b := out.Vector.PI.Get(1)
	if a != value.V1 || b != value.V1 {
		t.Errorf("NAND SA1 test requires a=1,b=1 (the only sensitizing assignment), got a=%v b=%v", a, b)
	}
}

func TestGenerateTestUnsatOnStructurallyConstantLine(t *testing.T) {
	// g1 = AND(a, NOT(a)) can never evaluate true; a fault requiring the
	// good value to be 1 (stuck-at-0) is structurally unsatisfiable.
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	nota := b.AddGate("nota", circuit.Not, a)
	g1 := b.AddGate("g1", circuit.And, a, nota)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	m, err := fault.Build(g, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f := faultWithStuck(m, g1, fault.Stem, value.V0)
	if f == nil {
		t.Fatal("expected g1/SA0 fault")
	}

	e := NewEngine(g, m)
	out := e.GenerateTest(f)
	if out.State != Unsat {
		t.Fatalf("state = %v, want Unsat for a structurally constant-0 line", out.State)
	}
}

// buildDffAnd builds PI a, DFF output q, g1 = AND(a, q) as the sole PO,
// and a DFF input q$D driven by a and paired with q, so that q captures
// a's value across the clock edge (q@t0 == a@t-1).
func buildDffAnd(t *testing.T) (g *circuit.Graph, a, q, g1 int) {
	t.Helper()
	b := circuit.NewBuilder()
	a = b.AddInput("a")
	q = b.AddDffOutput("q")
	g1 = b.AddGate("g1", circuit.And, a, q)
	b.MarkOutput(g1)
	b.AddDffInput("q$D", a, q)
	var err error
	g, err = b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g, a, q, g1
}

func TestGenerateTestTransitionDelayOnDffOutput(t *testing.T) {
	g, _, q, _ := buildDffAnd(t)
	m, err := fault.Build(g, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var f *fault.Fault
	for _, cand := range m.FaultList() {
		if cand.Origin == q && cand.Site == fault.Stem && cand.StuckValue == value.V0 && cand.Kind == fault.TransitionDelay {
			f = cand
		}
	}
	if f == nil || f.Kind != fault.TransitionDelay {
		t.Fatal("expected q/transition-SA0 fault")
	}
	if len(f.PrevFrame) == 0 {
		t.Fatal("transition-delay fault should carry a PrevFrame condition")
	}

	e := NewEngine(g, m)
	out := e.GenerateTest(f)
	if out.State != Sat {
		t.Fatalf("state = %v, want Sat", out.State)
	}

	tv := out.Vector
	if !tv.Transition {
		t.Fatal("expected a Transition=true vector for a transition-delay fault")
	}
	if tv.PI2 == nil {
		t.Fatal("expected a populated PI2 (time -1) sub-vector")
	}
	if tv.PI.Get(0) == value.VX || tv.DFF.Get(0) == value.VX || tv.PI2.Get(0) == value.VX {
		t.Fatalf("expected non-X values in both time frames, got PI=%s DFF=%s PI2=%s",
			tv.PI.BinString(), tv.DFF.BinString(), tv.PI2.BinString())
	}
	if tv.DFF.Get(0) != value.V1 {
		t.Errorf("q must launch to 1 (the complement of stuck-at-0), got %v", tv.DFF.Get(0))
	}
	// the buffer link ties q's captured time-0 value to a's time-(-1)
	// value, since q$D is driven directly by a.
	if tv.PI2.Get(0) != tv.DFF.Get(0) {
		t.Errorf("PI2[a]=%v should equal the captured DFF[q]=%v (q$D is driven by a)", tv.PI2.Get(0), tv.DFF.Get(0))
	}
}

func TestGenerateAllCoversEveryFault(t *testing.T) {
	g := buildNand2(t)
	m, err := fault.Build(g, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := NewEngine(g, m)
	status := fault.NewStatusRegistry(len(m.FaultList()))

	results := e.GenerateAll(status)
	if len(results) != len(m.FaultList()) {
		t.Errorf("GenerateAll produced %d outcomes, want %d", len(results), len(m.FaultList()))
	}
	for _, out := range results {
		if out.State != Sat {
			t.Errorf("expected every fault in this fully testable NAND to be Sat, got %v", out.State)
		}
	}
}
