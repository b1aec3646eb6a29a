package dtpg

import "github.com/fyerfyer/gatpg/pkg/sat"

// varMap tracks the SAT variables backing one CNF instance: one good-value
// variable per circuit node, plus faulty-value and difference variables
// for the nodes in the transitive fanout cone under test (tfoSet). Nodes
// outside the cone have no fvar/dvar — their faulty value is defined to
// equal their good value, so gate equations feeding into the cone from
// outside it reuse gvar directly.
//
// hvar holds a second, independent copy of every node's variable standing
// for its value one time frame earlier (time -1, the launch/initialization
// frame of a two-time-frame transition-delay test). It is allocated lazily
// by allocHvars, since only transition-delay faults need it.
type varMap struct {
	gvar []int
	fvar []int
	dvar []int
	hvar []int
}

func newVarMap(sv sat.Solver, nodeNum int, tfoSet map[int]bool) *varMap {
	vm := &varMap{
		gvar: make([]int, nodeNum),
		fvar: make([]int, nodeNum),
		dvar: make([]int, nodeNum),
	}
	for i := 0; i < nodeNum; i++ {
		vm.gvar[i] = sv.NewVar()
	}
	for n := range tfoSet {
		vm.fvar[n] = sv.NewVar()
		vm.dvar[n] = sv.NewVar()
	}
	return vm
}

// allocHvars allocates the previous-time-frame variable for every node,
// idempotent so a session that batches several faults only pays for it
// once, the first time a transition-delay fault needs it.
func (vm *varMap) allocHvars(sv sat.Solver, nodeNum int) {
	if vm.hvar != nil {
		return
	}
	vm.hvar = make([]int, nodeNum)
	for i := 0; i < nodeNum; i++ {
		vm.hvar[i] = sv.NewVar()
	}
}

// faultyLit returns the literal standing for node n's value in the faulty
// circuit: fvar[n] inside the cone, gvar[n] outside it.
func (vm *varMap) faultyLit(n int) sat.Lit {
	if vm.fvar[n] != 0 {
		return sat.Lit(vm.fvar[n])
	}
	return sat.Lit(vm.gvar[n])
}

func (vm *varMap) goodLit(n int) sat.Lit { return sat.Lit(vm.gvar[n]) }
func (vm *varMap) diffLit(n int) sat.Lit { return sat.Lit(vm.dvar[n]) }

// prevLit returns the previous-time-frame literal for node n. Panics if
// allocHvars has not been called first; only reached from transition-delay
// paths that always allocate hvar before use.
func (vm *varMap) prevLit(n int) sat.Lit { return sat.Lit(vm.hvar[n]) }

func litsFor(ids []int, f func(int) sat.Lit) []sat.Lit {
	out := make([]sat.Lit, len(ids))
	for i, id := range ids {
		out[i] = f(id)
	}
	return out
}
