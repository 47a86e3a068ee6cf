// Package bitvec defines a fixed-size bit vector used to track visited and
// assigned vertices.
package bitvec

import "math/bits"

// V is a fixed-size bit vector.
type V struct {
	s []uint64
	n int
}

// New returns a vector of n unset bits.
func New(n int) *V {
	return &V{s: make([]uint64, (n+63)/64), n: n}
}

// Len returns the number of bits in the vector.
func (v *V) Len() int { return v.n }

// Set sets bit i.
func (v *V) Set(i int) { v.s[i/64] |= 1 << (i % 64) }

// Unset clears bit i.
func (v *V) Unset(i int) { v.s[i/64] &^= 1 << (i % 64) }

// IsSet reports whether bit i is set.
func (v *V) IsSet(i int) bool { return v.s[i/64]&(1<<(i%64)) != 0 }

// Count returns the number of set bits.
func (v *V) Count() (n int) {
	for _, w := range v.s {
		n += bits.OnesCount64(w)
	}
	return
}

// Clear unsets every bit.
func (v *V) Clear() { clear(v.s) }
