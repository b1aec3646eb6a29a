package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/value"
)

func writeTempBench(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit.bench")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseBenchFileNand(t *testing.T) {
	path := writeTempBench(t, `
# simple 2-input NAND
INPUT(a)
INPUT(b)
OUTPUT(g1)
g1 = NAND(a, b)
`)
	g, err := ParseBenchFile(path)
	if err != nil {
		t.Fatalf("ParseBenchFile: %v", err)
	}
	if got, want := g.NodeNum(), 3; got != want {
		t.Errorf("NodeNum = %d, want %d", got, want)
	}
	if got, want := len(g.PPOList()), 1; got != want {
		t.Errorf("len(PPOList) = %d, want %d", got, want)
	}
}

func TestParseBenchFileWithDFF(t *testing.T) {
	path := writeTempBench(t, `
INPUT(clk_in)
INPUT(d)
q = DFF(nxt)
nxt = AND(d, q)
OUTPUT(nxt)
`)
	g, err := ParseBenchFile(path)
	if err != nil {
		t.Fatalf("ParseBenchFile: %v", err)
	}

	var sawDffOut, sawDffIn bool
	for i := 0; i < g.NodeNum(); i++ {
		n := g.Node(i)
		if n.Kind == circuit.DffOutput {
			sawDffOut = true
		}
		if n.Kind == circuit.DffInput {
			sawDffIn = true
		}
	}
	if !sawDffOut || !sawDffIn {
		t.Errorf("expected both a DffOutput and a DffInput node, sawDffOut=%v sawDffIn=%v", sawDffOut, sawDffIn)
	}
}

func TestParseBenchFileUndefinedLineError(t *testing.T) {
	path := writeTempBench(t, `
INPUT(a)
OUTPUT(g1)
g1 = NOT(b)
`)
	if _, err := ParseBenchFile(path); err == nil {
		t.Errorf("expected error referencing undefined line b")
	}
}

func TestParseFaultSite(t *testing.T) {
	path := writeTempBench(t, `
INPUT(a)
INPUT(b)
OUTPUT(g1)
g1 = NAND(a, b)
`)
	g, err := ParseBenchFile(path)
	if err != nil {
		t.Fatalf("ParseBenchFile: %v", err)
	}

	id, stuck, err := ParseFaultSite("g1/0", g)
	if err != nil {
		t.Fatalf("ParseFaultSite: %v", err)
	}
	if g.Node(id).Name != "g1" || stuck != value.V0 {
		t.Errorf("ParseFaultSite(g1/0) = id=%d(%s) stuck=%v", id, g.Node(id).Name, stuck)
	}

	if _, _, err := ParseFaultSite("nope/0", g); err == nil {
		t.Errorf("expected error for unknown line name")
	}
	if _, _, err := ParseFaultSite("g1/2", g); err == nil {
		t.Errorf("expected error for invalid stuck value")
	}
}

func TestWriteTestVectorsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.txt")

	tv := value.NewTestVector(2, 0, false)
	tv.PI.Set(0, value.V1)
	tv.PI.Set(1, value.V0)

	if err := WriteTestVectors(path, []*value.TestVector{tv}); err != nil {
		t.Fatalf("WriteTestVectors: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got == "" {
		t.Fatalf("expected non-empty output file")
	}
}
