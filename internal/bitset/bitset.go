// Package bitset implements a small fixed-size bit vector used by dominator
// and post-dominator computation.
//
// No bitset library appears anywhere in the reference corpus this module was
// built from: the closest relatives (dominator-tree implementations lifted
// from golang.org/x/tools/go/ssa) all walk *BasicBlock pointer fields via
// Lengauer-Tarjan rather than intersecting bit vectors, and the spec calls
// for the classical iterative bitset fixed point instead ("using bitsets
// keeps the inner loop tight and permits O(1) dominance queries"). So this
// one piece is built on the standard library rather than adapted from a pack
// dependency — there was nothing in the corpus to adapt.
package bitset

import "math/bits"

const wordBits = 64

// Set is a fixed-size bit vector sized at construction time. The zero value
// is not usable; use New.
type Set struct {
	n     int
	words []uint64
}

// New returns a Set with n bits, all initially clear.
func New(n int) *Set {
	return &Set{n: n, words: make([]uint64, (n+wordBits-1)/wordBits)}
}

// Len returns the number of bits the set was sized for.
func (s *Set) Len() int { return s.n }

// SetAll sets every bit in [0, n).
func (s *Set) SetAll() {
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	s.maskTail()
}

// maskTail clears any bits beyond n in the last word, so popcount/equality
// checks aren't polluted by padding.
func (s *Set) maskTail() {
	if s.n%wordBits == 0 || len(s.words) == 0 {
		return
	}
	valid := uint(s.n % wordBits)
	s.words[len(s.words)-1] &= (uint64(1) << valid) - 1
}

// Set sets bit i.
func (s *Set) Set(i int) { s.words[i/wordBits] |= 1 << uint(i%wordBits) }

// Clear clears bit i.
func (s *Set) Clear(i int) { s.words[i/wordBits] &^= 1 << uint(i%wordBits) }

// Test reports whether bit i is set.
func (s *Set) Test(i int) bool { return s.words[i/wordBits]&(1<<uint(i%wordBits)) != 0 }

// ClearAll clears every bit.
func (s *Set) ClearAll() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Copy overwrites s's contents with o's. Both must have the same length.
func (s *Set) Copy(o *Set) {
	copy(s.words, o.words)
}

// Clone returns a new Set with the same length and contents as s.
func (s *Set) Clone() *Set {
	c := New(s.n)
	copy(c.words, s.words)
	return c
}

// IntersectWith sets s = s ∩ o and reports whether s changed.
func (s *Set) IntersectWith(o *Set) bool {
	changed := false
	for i := range s.words {
		nv := s.words[i] & o.words[i]
		if nv != s.words[i] {
			changed = true
		}
		s.words[i] = nv
	}
	return changed
}

// UnionWith sets s = s ∪ o and reports whether s changed.
func (s *Set) UnionWith(o *Set) bool {
	changed := false
	for i := range s.words {
		nv := s.words[i] | o.words[i]
		if nv != s.words[i] {
			changed = true
		}
		s.words[i] = nv
	}
	return changed
}

// Equal reports whether s and o have identical contents.
func (s *Set) Equal(o *Set) bool {
	if s.n != o.n {
		return false
	}
	for i := range s.words {
		if s.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls fn for every set bit, in ascending order.
func (s *Set) Each(fn func(i int)) {
	for wi, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(wi*wordBits + b)
			w &= w - 1
		}
	}
}
