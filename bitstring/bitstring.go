// Package bitstring provides an ordered sequence of boolean pixel values.
//
// A BitString is the unit of currency throughout the encoder: a glyph's
// raster-scanned pixels, a dictionary entry's replacement pattern, and a
// random training substring are all represented the same way.
package bitstring

// BitString is an ordered, independently-owned sequence of booleans.
// The zero value is an empty BitString ready to use.
type BitString []bool

// New returns a BitString of the given length, all bits false.
func New(length int) BitString {
	return make(BitString, length)
}

// FromBools copies the given bits into a new, independently-owned BitString.
func FromBools(bits []bool) BitString {
	out := make(BitString, len(bits))
	copy(out, bits)
	return out
}

// Len returns the number of bits.
func (b BitString) Len() int {
	return len(b)
}

// At returns the bit at position i.
func (b BitString) At(i int) bool {
	return b[i]
}

// Slice returns an independent copy of b[start:end].
func (b BitString) Slice(start, end int) BitString {
	out := make(BitString, end-start)
	copy(out, b[start:end])
	return out
}

// Clone returns an independent copy of b.
func (b BitString) Clone() BitString {
	return b.Slice(0, len(b))
}

// Append returns a new BitString with bit appended. The receiver is left
// untouched; callers that want in-place growth should reassign the result.
func (b BitString) Append(bit bool) BitString {
	out := make(BitString, len(b)+1)
	copy(out, b)
	out[len(b)] = bit
	return out
}

// Prepend returns a new BitString with bit inserted at the front.
func (b BitString) Prepend(bit bool) BitString {
	out := make(BitString, len(b)+1)
	out[0] = bit
	copy(out[1:], b)
	return out
}

// Concat returns a new BitString equal to b followed by other.
func (b BitString) Concat(other BitString) BitString {
	out := make(BitString, len(b)+len(other))
	copy(out, b)
	copy(out[len(b):], other)
	return out
}

// TrimTrailingFalse returns the number of leading bits before a maximal
// suffix of false bits. It does not allocate; callers slice with it.
func (b BitString) TrimTrailingFalse() int {
	end := len(b)
	for end > 0 && !b[end-1] {
		end--
	}
	return end
}

// Equal reports whether two BitStrings hold the same bits.
func Equal(a, b BitString) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
