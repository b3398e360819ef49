package decoding

// Bitfield extraction from 64-bit snapshot words. Ranges are inclusive
// [lsb, msb] with msb <= 63; a field's width is msb-lsb+1.

// ExtractBits returns the [lsb, msb] field of word, right-aligned and
// zero-extended.
func ExtractBits(word uint64, lsb, msb uint8) uint64 {
	width := uint(msb-lsb) + 1
	word >>= lsb
	if width >= 64 {
		return word
	}
	return word & (1<<width - 1)
}

// InsertBits writes the low msb-lsb+1 bits of value into the [lsb, msb]
// field of word and returns the result.
func InsertBits(word, value uint64, lsb, msb uint8) uint64 {
	width := uint(msb-lsb) + 1
	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}
	return word&^(mask<<lsb) | (value&mask)<<lsb
}
