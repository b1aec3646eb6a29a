package value

import "testing"

func TestPackedAndOrNotTruthTable(t *testing.T) {
	lanes := []Value3{V0, V1, VX}
	for _, a := range lanes {
		for _, b := range lanes {
			var pa, pb Packed
			pa.SetLane(0, a)
			pb.SetLane(0, b)

			if got := And(pa, pb).Lane(0); got != And3(a, b) {
				t.Errorf("And(%v,%v) = %v, want %v", a, b, got, And3(a, b))
			}
			if got := Or(pa, pb).Lane(0); got != Or3(a, b) {
				t.Errorf("Or(%v,%v) = %v, want %v", a, b, got, Or3(a, b))
			}
			if got := Xor(pa, pb).Lane(0); got != Xor3(a, b) {
				t.Errorf("Xor(%v,%v) = %v, want %v", a, b, got, Xor3(a, b))
			}
		}
		var pa Packed
		pa.SetLane(0, a)
		if got := Not(pa).Lane(0); got != a.Not() {
			t.Errorf("Not(%v) = %v, want %v", a, got, a.Not())
		}
	}
}

func TestPackedIndependentLanes(t *testing.T) {
	a := FromMask(0b1010)
	b := FromMask(0b1100)
	and := And(a, b)
	if and.Lane(0) != V0 || and.Lane(1) != V0 || and.Lane(2) != V0 || and.Lane(3) != V1 {
		t.Errorf("And(0b1010,0b1100) lanes = %v,%v,%v,%v", and.Lane(0), and.Lane(1), and.Lane(2), and.Lane(3))
	}
}

func TestDiff(t *testing.T) {
	a := FromMask(0b1100)
	b := FromMask(0b1010)
	if got, want := Diff(a, b), uint64(0b0110); got != want {
		t.Errorf("Diff = %b, want %b", got, want)
	}

	var x Packed
	x.SetLane(0, VX)
	x.SetLane(1, V1)
	y := FromMask(0b11)
	if got := Diff(x, y); got != 0 {
		t.Errorf("Diff with X lane should exclude it, got %b", got)
	}
}

func TestPopCount(t *testing.T) {
	if got := PopCount(0b1011); got != 3 {
		t.Errorf("PopCount(0b1011) = %d, want 3", got)
	}
}
