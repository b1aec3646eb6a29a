package justify

import (
	"testing"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/value"
)

func TestBacktraceAndControllingValue(t *testing.T) {
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", circuit.And, a, bb)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	j := NewJustifier(g)
	partial, ok := j.Justify(fault.AssignList{{Node: g1, Time: 0, Value: value.V0}}, Simple)
	if !ok {
		t.Fatalf("expected AND output 0 to be justifiable")
	}
	if v, has := partial[a]; !has || v != value.V0 {
		t.Errorf("AND output 0 should justify via a=0 (controlling value), got %v/%v", v, has)
	}
	if _, has := partial[bb]; has {
		t.Errorf("controlling-value justification should not need to touch b")
	}
}

func TestBacktraceAndNonControllingTouchesAllFanins(t *testing.T) {
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", circuit.And, a, bb)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	j := NewJustifier(g)
	partial, ok := j.Justify(fault.AssignList{{Node: g1, Time: 0, Value: value.V1}}, Simple)
	if !ok {
		t.Fatalf("expected AND output 1 to be justifiable")
	}
	if partial[a] != value.V1 || partial[bb] != value.V1 {
		t.Errorf("AND output 1 requires both fanins at 1, got a=%v b=%v", partial[a], partial[bb])
	}
}

func TestJustifySimpleVsMultiOnConflictingObjectives(t *testing.T) {
	// a feeds both g1=BUF(a) and g2=NOT(a); requiring g1=1 and g2=1
	// simultaneously both reduce to conflicting requirements on a.
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	g1 := b.AddGate("g1", circuit.Buf, a)
	g2 := b.AddGate("g2", circuit.Not, a)
	b.MarkOutput(g1)
	b.MarkOutput(g2)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	target := fault.AssignList{
		{Node: g1, Time: 0, Value: value.V1},
		{Node: g2, Time: 0, Value: value.V1},
	}

	j := NewJustifier(g)

	if _, ok := j.Justify(target, Simple); !ok {
		t.Errorf("Simple strategy justifies each objective independently and should not report a conflict")
	}

	if _, ok := j.Justify(target, Multi); ok {
		t.Errorf("Multi strategy shares one partial assignment and should detect the a=1/a=0 conflict")
	}
}

func TestExtractJustifiesNandSA1Excitation(t *testing.T) {
	b := circuit.NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", circuit.Nand, a, bb)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	m, err := fault.Build(g, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var target *fault.Fault
	for _, f := range m.FaultList() {
		if f.Origin == g1 && f.Site == fault.Stem && f.StuckValue == value.V1 {
			target = f
		}
	}
	if target == nil {
		t.Fatal("expected g1/SA1 fault")
	}

	e := NewExtractor(g)
	tv, ok := e.Extract(target, Multi)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if tv.PI.Get(0) != value.V1 || tv.PI.Get(1) != value.V1 {
		t.Errorf("NAND SA1 excitation requires a=1,b=1, got a=%v b=%v", tv.PI.Get(0), tv.PI.Get(1))
	}
}
