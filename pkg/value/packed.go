package value

import "math/bits"

// Width is the canonical packed-parallel word width W, fixed at 64 bits.
const Width = 64

// Packed is a W-bit-parallel 3-valued word: Val0 bit set means "this lane's
// value is 0 when Val1's corresponding bit is clear", Val1 set means "1";
// both bits set at the same lane position encodes X. 2-valued callers
// simply never set a lane in both words and ignore the X interpretation.
type Packed struct {
	Val0 uint64
	Val1 uint64
}

// AllZero returns a packed word with every lane at 0.
func AllZero() Packed { return Packed{Val0: ^uint64(0)} }

// AllOne returns a packed word with every lane at 1.
func AllOne() Packed { return Packed{Val1: ^uint64(0)} }

// AllX returns a packed word with every lane at X.
func AllX() Packed { return Packed{Val0: ^uint64(0), Val1: ^uint64(0)} }

// FromMask builds a 2-valued packed word directly from a bitmask (1 = V1).
func FromMask(mask uint64) Packed {
	return Packed{Val0: ^mask, Val1: mask}
}

// Lane returns the Value3 held in bit position i (0 <= i < Width).
func (p Packed) Lane(i int) Value3 {
	b0 := (p.Val0 >> uint(i)) & 1
	b1 := (p.Val1 >> uint(i)) & 1
	switch {
	case b0 == 1 && b1 == 1:
		return VX
	case b1 == 1:
		return V1
	default:
		return V0
	}
}

// SetLane sets bit position i to the given Value3.
func (p *Packed) SetLane(i int, v Value3) {
	bit := uint64(1) << uint(i)
	switch v {
	case V0:
		p.Val0 |= bit
		p.Val1 &^= bit
	case V1:
		p.Val0 &^= bit
		p.Val1 |= bit
	default:
		p.Val0 |= bit
		p.Val1 |= bit
	}
}

// exactly0/exactly1 extract the lanes of p that are definitely 0 / 1 (not X).
func exactly0(p Packed) uint64 { return p.Val0 &^ p.Val1 }
func exactly1(p Packed) uint64 { return p.Val1 &^ p.Val0 }

// And returns the lane-wise 3-valued AND of a and b.
func And(a, b Packed) Packed {
	// 1 iff both lanes are 1; 0 iff either lane is 0; else X.
	zero := exactly0(a) | exactly0(b)
	one := exactly1(a) & exactly1(b)
	x := ^(zero | one)
	return Packed{Val0: zero | x, Val1: one | x}
}

// Or returns the lane-wise 3-valued OR of a and b.
func Or(a, b Packed) Packed {
	one := exactly1(a) | exactly1(b)
	zero := exactly0(a) & exactly0(b)
	x := ^(zero | one)
	return Packed{Val0: zero | x, Val1: one | x}
}

// Not returns the lane-wise 3-valued complement of a.
func Not(a Packed) Packed {
	x := a.Val0 & a.Val1
	return Packed{Val0: exactly1(a) | x, Val1: exactly0(a) | x}
}

// Xor returns the lane-wise 3-valued XOR of a and b.
func Xor(a, b Packed) Packed {
	known := (exactly0(a) | exactly1(a)) & (exactly0(b) | exactly1(b))
	one := (exactly1(a) ^ exactly1(b)) & known
	x := ^known
	return Packed{Val0: (^one & known) | x, Val1: one | x}
}

// Diff returns a mask with bit i set where a and b are both non-X at lane
// i and disagree.
func Diff(a, b Packed) uint64 {
	knownA := (a.Val0 | a.Val1) &^ (a.Val0 & a.Val1)
	knownB := (b.Val0 | b.Val1) &^ (b.Val0 & b.Val1)
	known := knownA & knownB
	return known & (a.Val1 ^ b.Val1)
}

// PopCount returns the number of set bits in mask.
func PopCount(mask uint64) int { return bits.OnesCount64(mask) }
