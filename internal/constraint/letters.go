package constraint

import "strings"

// LetterSet is a set of lowercase a-z letters stored as a bitmask.
type LetterSet uint32

func bit(c byte) (LetterSet, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return LetterSet(1) << (c - 'a'), true
}

// Has reports whether c is in the set.
func (s LetterSet) Has(c byte) bool {
	b, ok := bit(c)
	return ok && s&b != 0
}

// With returns the set with c added. Non-letters are ignored.
func (s LetterSet) With(c byte) LetterSet {
	if b, ok := bit(c); ok {
		return s | b
	}
	return s
}

// Contains reports whether every letter of other is in s.
func (s LetterSet) Contains(other LetterSet) bool {
	return s&other == other
}

// Len returns the number of letters in the set.
func (s LetterSet) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// String returns the letters in alphabetical order.
func (s LetterSet) String() string {
	var b strings.Builder
	for c := byte('a'); c <= 'z'; c++ {
		if s.Has(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}
