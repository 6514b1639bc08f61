package mcufont

import (
	"fmt"

	"github.com/SeverusTacitus/mcufont/bitstring"
	"github.com/SeverusTacitus/mcufont/rle"
)

// DecodeGlyph expands glyph index g from f back into a BitString, using
// info to size the blank-fill opcode. It returns ErrRefOutOfRange if any
// opcode references a dictionary slot that doesn't exist.
func DecodeGlyph(f *EncodedFont, g int, info FontInfo) (bitstring.BitString, error) {
	if g < 0 || g >= len(f.Glyphs) {
		return nil, fmt.Errorf("%w: glyph index %d", ErrRefOutOfRange, g)
	}
	return decodeRefString(f, f.Glyphs[g], info)
}

// Decode expands an arbitrary reference string against f. It is exported so
// that ref-dictionary entries (which are themselves reference strings) can
// be decoded independently of a specific glyph.
func Decode(f *EncodedFont, refstring []byte, info FontInfo) (bitstring.BitString, error) {
	return decodeRefString(f, refstring, info)
}

func decodeRefString(f *EncodedFont, refstring []byte, info FontInfo) (bitstring.BitString, error) {
	var buf []bool

	for _, opcode := range refstring {
		switch opcode {
		case 0:
			buf = append(buf, false)
		case 1:
			buf = append(buf, true)
		case 2:
			// Blank-fill: resize to the full glyph dimensions, padding
			// with false. Mirrors std::vector::resize, which can also
			// truncate, though in practice this opcode is only ever
			// emitted once bits have already been trimmed shorter.
			size := info.MaxWidth * info.MaxHeight
			if len(buf) > size {
				buf = buf[:size]
			} else {
				for len(buf) < size {
					buf = append(buf, false)
				}
			}
		case 3:
			// Reserved: no-op.
		default:
			j := int(opcode) - 4
			if j < len(f.RLEDictionary) {
				expanded, err := rle.Decode(f.RLEDictionary[j])
				if err != nil {
					return nil, err
				}
				for i := 0; i < expanded.Len(); i++ {
					buf = append(buf, expanded.At(i))
				}
				continue
			}

			k := j - len(f.RLEDictionary)
			if k < 0 || k >= len(f.RefDictionary) {
				return nil, fmt.Errorf("%w: opcode %d", ErrRefOutOfRange, opcode)
			}

			part, err := decodeRefString(f, f.RefDictionary[k], info)
			if err != nil {
				return nil, err
			}
			for i := 0; i < part.Len(); i++ {
				buf = append(buf, part.At(i))
			}
		}
	}

	return bitstring.FromBools(buf), nil
}
