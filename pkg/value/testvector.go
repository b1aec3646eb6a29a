package value

import "strings"

// TestVector is a fixed-shape pattern: a primary-input sub-vector, a
// DFF-state sub-vector (empty for purely combinational circuits), and,
// only when Transition is true, an auxiliary second-time-frame primary-
// input sub-vector.
type TestVector struct {
	PI         *BitVector
	DFF        *BitVector // nil/len-0 for combinational mode
	Transition bool
	PI2        *BitVector // only valid when Transition
}

// NewTestVector allocates an all-X TestVector of the given shape.
func NewTestVector(numPI, numDFF int, transition bool) *TestVector {
	tv := &TestVector{PI: NewBitVector(numPI)}
	if numDFF > 0 {
		tv.DFF = NewBitVector(numDFF)
	}
	tv.Transition = transition
	if transition {
		tv.PI2 = NewBitVector(numPI)
	}
	return tv
}

func (tv *TestVector) sameShape(o *TestVector) bool {
	if tv.PI.Len() != o.PI.Len() || tv.Transition != o.Transition {
		return false
	}
	dl, odl := 0, 0
	if tv.DFF != nil {
		dl = tv.DFF.Len()
	}
	if o.DFF != nil {
		odl = o.DFF.Len()
	}
	if dl != odl {
		return false
	}
	return true
}

// Merge intersects the care sets of tv and o sub-vector by sub-vector.
// Commutative, associative, and idempotent when no conflict arises.
func (tv *TestVector) Merge(o *TestVector) (*TestVector, error) {
	if !tv.sameShape(o) {
		return nil, ErrVectorLengthMismatch
	}
	out := &TestVector{Transition: tv.Transition}
	var err error
	if out.PI, err = tv.PI.Merge(o.PI); err != nil {
		return nil, err
	}
	if tv.DFF != nil {
		if out.DFF, err = tv.DFF.Merge(o.DFF); err != nil {
			return nil, err
		}
	}
	if tv.Transition {
		if out.PI2, err = tv.PI2.Merge(o.PI2); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Compatible reports whether tv and o have no conflicting non-X bit in any
// sub-vector.
func (tv *TestVector) Compatible(o *TestVector) bool {
	if !tv.sameShape(o) {
		return false
	}
	if !tv.PI.Compatible(o.PI) {
		return false
	}
	if tv.DFF != nil && !tv.DFF.Compatible(o.DFF) {
		return false
	}
	if tv.Transition && !tv.PI2.Compatible(o.PI2) {
		return false
	}
	return true
}

// Subset reports whether every care bit of tv agrees with the
// corresponding bit of o across all sub-vectors.
func (tv *TestVector) Subset(o *TestVector) bool {
	if !tv.sameShape(o) {
		return false
	}
	if !tv.PI.Subset(o.PI) {
		return false
	}
	if tv.DFF != nil && !tv.DFF.Subset(o.DFF) {
		return false
	}
	if tv.Transition && !tv.PI2.Subset(o.PI2) {
		return false
	}
	return true
}

// BinString renders sub-vectors separated by ':' in PI[:DFF][:PI2] order.
func (tv *TestVector) BinString() string {
	parts := []string{tv.PI.BinString()}
	if tv.DFF != nil {
		parts = append(parts, tv.DFF.BinString())
	}
	if tv.Transition {
		parts = append(parts, tv.PI2.BinString())
	}
	return strings.Join(parts, ":")
}
