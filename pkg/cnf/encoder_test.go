package cnf

import (
	"testing"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/sat"
)

// solveAndCheck encodes gt(ins) = out with every input and output forced
// to a fixed value via assumptions, returning the SAT result.
func solveAndCheck(t *testing.T, gt circuit.GateType, inVals []bool, outVal bool) sat.Result {
	t.Helper()
	sv := sat.NewDPLL()
	ins := make([]sat.Lit, len(inVals))
	for i := range ins {
		ins[i] = sat.Lit(sv.NewVar())
	}
	out := sat.Lit(sv.NewVar())

	enc := NewEncoder(sv)
	if err := enc.EncodeGate(gt, out, ins); err != nil {
		t.Fatalf("EncodeGate: %v", err)
	}

	assumptions := make([]sat.Lit, 0, len(ins)+1)
	for i, v := range inVals {
		if v {
			assumptions = append(assumptions, ins[i])
		} else {
			assumptions = append(assumptions, -ins[i])
		}
	}
	if outVal {
		assumptions = append(assumptions, out)
	} else {
		assumptions = append(assumptions, -out)
	}

	res, err := sv.Solve(assumptions)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return res
}

func TestEncodeAndTruthTable(t *testing.T) {
	cases := []struct {
		a, b, want bool
	}{
		{false, false, false},
		{false, true, false},
		{true, false, false},
		{true, true, true},
	}
	for _, c := range cases {
		if res := solveAndCheck(t, circuit.And, []bool{c.a, c.b}, c.want); res != sat.Satisfiable {
			t.Errorf("AND(%v,%v)=%v should be SAT, got %v", c.a, c.b, c.want, res)
		}
		if res := solveAndCheck(t, circuit.And, []bool{c.a, c.b}, !c.want); res != sat.Unsatisfiable {
			t.Errorf("AND(%v,%v)=%v should be UNSAT, got %v", c.a, c.b, !c.want, res)
		}
	}
}

func TestEncodeNandTruthTable(t *testing.T) {
	if res := solveAndCheck(t, circuit.Nand, []bool{true, true}, false); res != sat.Satisfiable {
		t.Errorf("NAND(1,1)=0 should be SAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Nand, []bool{true, true}, true); res != sat.Unsatisfiable {
		t.Errorf("NAND(1,1)=1 should be UNSAT, got %v", res)
	}
}

func TestEncodeOrNorTruthTable(t *testing.T) {
	if res := solveAndCheck(t, circuit.Or, []bool{false, false}, false); res != sat.Satisfiable {
		t.Errorf("OR(0,0)=0 should be SAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Nor, []bool{false, false}, true); res != sat.Satisfiable {
		t.Errorf("NOR(0,0)=1 should be SAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Nor, []bool{true, false}, true); res != sat.Unsatisfiable {
		t.Errorf("NOR(1,0)=1 should be UNSAT, got %v", res)
	}
}

func TestEncodeXorXnorTruthTable(t *testing.T) {
	if res := solveAndCheck(t, circuit.Xor, []bool{true, false}, true); res != sat.Satisfiable {
		t.Errorf("XOR(1,0)=1 should be SAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Xor, []bool{true, true}, true); res != sat.Unsatisfiable {
		t.Errorf("XOR(1,1)=1 should be UNSAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Xnor, []bool{true, true}, true); res != sat.Satisfiable {
		t.Errorf("XNOR(1,1)=1 should be SAT, got %v", res)
	}
}

func TestEncodeParityWideXor(t *testing.T) {
	// 4-input XOR exercises the fresh-variable decomposition chain.
	ins := []bool{true, true, true, false}
	want := true // odd number of 1s (3) -> parity 1
	if res := solveAndCheck(t, circuit.Xor, ins, want); res != sat.Satisfiable {
		t.Errorf("4-input XOR(1,1,1,0)=%v should be SAT, got %v", want, res)
	}
	if res := solveAndCheck(t, circuit.Xor, ins, !want); res != sat.Unsatisfiable {
		t.Errorf("4-input XOR(1,1,1,0)=%v should be UNSAT, got %v", !want, res)
	}
}

func TestEncodeBufNot(t *testing.T) {
	if res := solveAndCheck(t, circuit.Buf, []bool{true}, false); res != sat.Unsatisfiable {
		t.Errorf("BUF(1)=0 should be UNSAT, got %v", res)
	}
	if res := solveAndCheck(t, circuit.Not, []bool{true}, false); res != sat.Satisfiable {
		t.Errorf("NOT(1)=0 should be SAT, got %v", res)
	}
}
