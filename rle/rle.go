// Package rle implements the run-length byte coding used for dictionary
// entries that aren't worth referencing by pattern: one byte per run, top
// bit carries the pixel value and the low 7 bits carry the run length.
package rle

import (
	"fmt"

	"github.com/SeverusTacitus/mcufont/bitstring"
)

// MaxRun is the largest run length a single RLE byte can encode.
const MaxRun = 127

// Encode walks bits and emits one byte per maximal run of identical bits,
// capped at MaxRun. It never emits a zero-length run.
func Encode(bits bitstring.BitString) []byte {
	var out []byte

	pos := 0
	for pos < bits.Len() {
		bit := bits.At(pos)
		count := 1
		for pos+count < bits.Len() && count < MaxRun && bits.At(pos+count) == bit {
			count++
		}

		var b byte = byte(count)
		if bit {
			b |= 0x80
		}
		out = append(out, b)

		pos += count
	}

	return out
}

// Decode expands RLE bytes back into a BitString.
func Decode(data []byte) (bitstring.BitString, error) {
	var buf []bool

	for _, b := range data {
		count := int(b & 0x7F)
		if count == 0 {
			return nil, fmt.Errorf("rle: illegal zero-length run in byte 0x%02x", b)
		}
		bit := b&0x80 != 0
		for i := 0; i < count; i++ {
			buf = append(buf, bit)
		}
	}

	return bitstring.FromBools(buf), nil
}
