// Package cnf Tseitin-encodes circuit gate primitives into CNF clauses
// against a sat.Solver: AND/OR/NAND/NOR get their direct (n+1)-clause
// form, XOR/XNOR up to arity 3 get the brute-force parity enumeration,
// and wider XOR/XNOR gates decompose into a chain of binary xors through
// fresh variables.
package cnf

import (
	"fmt"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/sat"
)

// Encoder accumulates clauses into a single underlying solver.
type Encoder struct {
	sv sat.Solver
}

// NewEncoder wraps sv; every EncodeGate call adds clauses directly to it.
func NewEncoder(sv sat.Solver) *Encoder {
	return &Encoder{sv: sv}
}

// EncodeGate adds the clauses defining out as gt applied to ins.
func (e *Encoder) EncodeGate(gt circuit.GateType, out sat.Lit, ins []sat.Lit) error {
	switch gt {
	case circuit.Buf:
		return e.addAll(
			sat.Clause{-out, ins[0]},
			sat.Clause{out, -ins[0]},
		)
	case circuit.Not:
		return e.addAll(
			sat.Clause{-out, -ins[0]},
			sat.Clause{out, ins[0]},
		)
	case circuit.And:
		return e.encodeAndLike(out, ins, false)
	case circuit.Nand:
		return e.encodeAndLike(out, ins, true)
	case circuit.Or:
		return e.encodeOrLike(out, ins, false)
	case circuit.Nor:
		return e.encodeOrLike(out, ins, true)
	case circuit.Xor:
		return e.encodeParity(out, ins, false)
	case circuit.Xnor:
		return e.encodeParity(out, ins, true)
	default:
		return fmt.Errorf("cnf: unsupported gate type %v", gt)
	}
}

func (e *Encoder) addAll(cs ...sat.Clause) error {
	for _, c := range cs {
		if err := e.sv.AddClause(c); err != nil {
			return err
		}
	}
	return nil
}

// encodeAndLike encodes out <-> AND(ins) (invert=false) or out <-> NAND(ins)
// (invert=true).
func (e *Encoder) encodeAndLike(out sat.Lit, ins []sat.Lit, invert bool) error {
	o := out
	if invert {
		o = -out
	}
	for _, in := range ins {
		if err := e.sv.AddClause(sat.Clause{-o, in}); err != nil {
			return err
		}
	}
	big := make(sat.Clause, 0, len(ins)+1)
	big = append(big, o)
	for _, in := range ins {
		big = append(big, -in)
	}
	return e.sv.AddClause(big)
}

// encodeOrLike encodes out <-> OR(ins) (invert=false) or out <-> NOR(ins)
// (invert=true).
func (e *Encoder) encodeOrLike(out sat.Lit, ins []sat.Lit, invert bool) error {
	o := out
	if invert {
		o = -out
	}
	for _, in := range ins {
		if err := e.sv.AddClause(sat.Clause{o, -in}); err != nil {
			return err
		}
	}
	big := make(sat.Clause, 0, len(ins)+1)
	big = append(big, -o)
	big = append(big, ins...)
	return e.sv.AddClause(big)
}

// encodeParity encodes out <-> XOR(ins) (invert=false) or out <-> XNOR(ins)
// (invert=true), decomposing arities above 3 into a chain of fresh-variable
// binary xors.
func (e *Encoder) encodeParity(out sat.Lit, ins []sat.Lit, invert bool) error {
	if len(ins) <= 3 {
		return e.encodeParityBrute(out, ins, invert)
	}
	acc := ins[0]
	for i := 1; i < len(ins)-1; i++ {
		t := sat.Lit(e.sv.NewVar())
		if err := e.encodeParityBrute(t, []sat.Lit{acc, ins[i]}, false); err != nil {
			return err
		}
		acc = t
	}
	return e.encodeParityBrute(out, []sat.Lit{acc, ins[len(ins)-1]}, invert)
}

// encodeParityBrute enumerates every assignment of ins+out and forbids
// every combination that violates out == parity(ins) (xor-ed with invert).
func (e *Encoder) encodeParityBrute(out sat.Lit, ins []sat.Lit, invert bool) error {
	n := len(ins)
	vars := make([]sat.Lit, n+1)
	copy(vars, ins)
	vars[n] = out

	total := 1 << uint(n+1)
	for combo := 0; combo < total; combo++ {
		parity := false
		for i := 0; i < n; i++ {
			if combo&(1<<uint(i)) != 0 {
				parity = !parity
			}
		}
		if invert {
			parity = !parity
		}
		outBit := combo&(1<<uint(n)) != 0
		if outBit == parity {
			continue // satisfies the constraint, not forbidden
		}
		clause := make(sat.Clause, n+1)
		for i, v := range vars {
			bit := combo&(1<<uint(i)) != 0
			if bit {
				clause[i] = -v
			} else {
				clause[i] = v
			}
		}
		if err := e.sv.AddClause(clause); err != nil {
			return err
		}
	}
	return nil
}
