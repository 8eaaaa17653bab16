package engine

import "unicode/utf16"

// binIndex maps a namespaced on-disk key to a bin index in [0, binCount)
// using the polynomial hash h = (h<<5) - h + code(c), computed with 32-bit
// wraparound, followed by abs(h) mod binCount.
//
// This mirrors java.lang.String.hashCode()'s recurrence exactly (including
// the wraparound), so file layouts produced by this engine and by an
// implementation using that recurrence agree bin-for-bin on the same key
// set.
func binIndex(namespacedKey string, binCount int) int {
	var h int32
	for _, c := range utf16.Encode([]rune(namespacedKey)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v % int64(binCount))
}
