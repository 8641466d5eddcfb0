package bitio

import "golang.org/x/exp/constraints"

// BitsForBytes returns n*8: the bit count occupied by n bytes. It is
// generic over unsigned integer widths so callers tracking bit counts
// in different sizes share one conversion; internal/frame uses it for
// its uint64 payload bit count.
func BitsForBytes[T constraints.Unsigned](n T) T {
	return n * 8
}

// FitsInBits reports whether n*8 does not overflow T's range, letting a
// caller reject an out-of-bounds byte length before computing its bit
// count.
func FitsInBits[T constraints.Unsigned](n T) bool {
	var max T
	max--
	return n <= max/8
}
