package sat

// DPLL is a bundled single-threaded solver: unit propagation plus
// chronological backtracking over a first-unassigned-variable decision
// heuristic. No clause learning, no watched literals — adequate for the
// few-hundred-variable CNFs a single fault's D-chain encoding produces,
// not intended to scale to industrial instances.
type DPLL struct {
	clauses   []Clause
	nVars     int
	assign    []Tribool // 1-indexed by variable; index 0 unused
	trail     []int     // variables assigned, in order, for backtracking
	level     []int     // decision level at which each variable was assigned
}

// NewDPLL returns an empty solver.
func NewDPLL() *DPLL {
	return &DPLL{assign: []Tribool{Unassigned}, level: []int{0}}
}

// NewVar allocates a fresh variable and returns its 1-based id.
func (d *DPLL) NewVar() int {
	d.nVars++
	d.assign = append(d.assign, Unassigned)
	d.level = append(d.level, 0)
	return d.nVars
}

// AddClause appends c to the clause database. Empty clauses are rejected.
func (d *DPLL) AddClause(c Clause) error {
	if len(c) == 0 {
		return ErrEmptyClause
	}
	cp := make(Clause, len(c))
	copy(cp, c)
	d.clauses = append(d.clauses, cp)
	return nil
}

// Value reports the current model's assignment to v after a Satisfiable
// Solve; Unassigned outside of a successful solve or for a don't-care var.
func (d *DPLL) Value(v int) Tribool {
	if v < 1 || v >= len(d.assign) {
		return Unassigned
	}
	return d.assign[v]
}

func (l Lit) satisfiedBy(a Tribool) bool {
	if a == Unassigned {
		return false
	}
	want := True
	if l.Negated() {
		want = False
	}
	return a == want
}

func (l Lit) falsifiedBy(a Tribool) bool {
	if a == Unassigned {
		return false
	}
	want := False
	if l.Negated() {
		want = True
	}
	return a == want
}

// Solve assigns every literal in assumptions as a forced unit at decision
// level 0, then runs DPLL search. Returns Unsatisfiable if the assumptions
// conflict with the clause database or each other.
func (d *DPLL) Solve(assumptions []Lit) (Result, error) {
	for i := range d.assign {
		d.assign[i] = Unassigned
	}
	d.trail = d.trail[:0]

	for _, lit := range assumptions {
		if !d.pushAssumption(lit) {
			return Unsatisfiable, nil
		}
	}
	if !d.unitPropagate() {
		return Unsatisfiable, nil
	}

	ok := d.search(1)
	if !ok {
		return Unsatisfiable, nil
	}
	return Satisfiable, nil
}

func (d *DPLL) pushAssumption(lit Lit) bool {
	v := lit.Var()
	want := True
	if lit.Negated() {
		want = False
	}
	if d.assign[v] != Unassigned {
		return d.assign[v] == want
	}
	d.assign[v] = want
	d.trail = append(d.trail, v)
	return true
}

// unitPropagate repeatedly finds clauses with exactly one unassigned
// literal and all others falsified, assigning that literal, until
// fixpoint or a clause is fully falsified (conflict).
func (d *DPLL) unitPropagate() bool {
	changed := true
	for changed {
		changed = false
		for _, c := range d.clauses {
			unassignedCount := 0
			satisfied := false
			var unit Lit
			for _, lit := range c {
				a := d.assign[lit.Var()]
				if lit.satisfiedBy(a) {
					satisfied = true
					break
				}
				if a == Unassigned {
					unassignedCount++
					unit = lit
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return false
			}
			if unassignedCount == 1 {
				v := unit.Var()
				want := True
				if unit.Negated() {
					want = False
				}
				d.assign[v] = want
				d.trail = append(d.trail, v)
				changed = true
			}
		}
	}
	return true
}

func (d *DPLL) allSatisfied() bool {
	for _, c := range d.clauses {
		sat := false
		for _, lit := range c {
			if lit.satisfiedBy(d.assign[lit.Var()]) {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func (d *DPLL) firstUnassigned() int {
	for v := 1; v <= d.nVars; v++ {
		if d.assign[v] == Unassigned {
			return v
		}
	}
	return 0
}

// search performs chronological backtracking: pick the first unassigned
// variable, try it true then false, unit-propagating after each trial.
func (d *DPLL) search(depth int) bool {
	if !d.unitPropagate() {
		return false
	}
	v := d.firstUnassigned()
	if v == 0 {
		return d.allSatisfied()
	}

	trailMark := len(d.trail)
	for _, val := range [2]Tribool{True, False} {
		d.assign[v] = val
		d.trail = append(d.trail, v)
		if d.search(depth + 1) {
			return true
		}
		for len(d.trail) > trailMark {
			last := d.trail[len(d.trail)-1]
			d.trail = d.trail[:len(d.trail)-1]
			d.assign[last] = Unassigned
		}
	}
	return false
}

var _ Solver = (*DPLL)(nil)
