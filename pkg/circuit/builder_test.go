package circuit

import "testing"

func buildNand2(t *testing.T) *Graph {
	t.Helper()
	b := NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", Nand, a, bb)
	b.MarkOutput(g1)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestBuilderLevelsAndPPIPPO(t *testing.T) {
	g := buildNand2(t)
	if got, want := g.NodeNum(), 3; got != want {
		t.Errorf("NodeNum = %d, want %d", got, want)
	}
	if got, want := len(g.PPIList()), 2; got != want {
		t.Errorf("len(PPIList) = %d, want %d", got, want)
	}
	if got, want := len(g.PPOList()), 1; got != want {
		t.Errorf("len(PPOList) = %d, want %d", got, want)
	}
	g1 := g.Node(2)
	if g1.Level != 1 {
		t.Errorf("g1.Level = %d, want 1", g1.Level)
	}
}

func TestBuilderAcyclicChainFinalizes(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput("a")
	g1 := b.AddGate("g1", Buf, a)
	b.AddGate("g2", Buf, g1)
	if _, err := b.Finalize(); err != nil {
		t.Errorf("unexpected error on a valid acyclic chain: %v", err)
	}
}

func TestBuilderArityValidation(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput("a")
	b.AddGate("bad_and", And, a) // AND needs >= 2 fanin
	if _, err := b.Finalize(); err == nil {
		t.Errorf("expected arity error for AND with one fanin")
	}
}

func TestFFRPartitioning(t *testing.T) {
	// a,b -> g1 (AND) -> g2 (NOT, fanout 1) -> OUTPUT
	//                  -> g3 (NOT, fanout 1) -> OUTPUT
	// g1 has fanout 2, so g1 is an FFR root; g2 and g3 are each singleton
	// FFRs rooted at the respective PO.
	b := NewBuilder()
	a := b.AddInput("a")
	bb := b.AddInput("b")
	g1 := b.AddGate("g1", And, a, bb)
	g2 := b.AddGate("g2", Not, g1)
	g3 := b.AddGate("g3", Not, g1)
	b.MarkOutput(g2)
	b.MarkOutput(g3)
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if got, want := len(g.FFRList()), 3; got != want {
		t.Fatalf("len(FFRList) = %d, want %d", got, want)
	}
	if g.Node(g1).FFRRoot != g1 {
		t.Errorf("g1 should be its own FFR root (fanout=2)")
	}
	if g.Node(a).FFRRoot != g1 {
		t.Errorf("a's FFR root should be g1, got %d", g.Node(a).FFRRoot)
	}
	if g.Node(g2).FFRRoot != g2 || g.Node(g3).FFRRoot != g3 {
		t.Errorf("g2/g3 should each root their own singleton FFR")
	}
}
