// Package refcodec implements the reference-string encoding: a sequence of
// single-byte opcodes into a dictionary, produced by greedily walking a
// dicttree.Tree over the input bits.
package refcodec

import (
	"errors"

	"github.com/SeverusTacitus/mcufont/bitstring"
	"github.com/SeverusTacitus/mcufont/dicttree"
)

// ErrNoMatch is returned when the tree has no eligible match at some
// position. It should never happen as long as the tree was built with the
// two hardcoded single-bit entries, so a caller seeing this has found a
// corrupt DictTree construction, not a normal encoding outcome.
var ErrNoMatch = errors.New("refcodec: no eligible match found while walking the dictionary tree")

// BlankFill is the opcode appended when a glyph's trailing zero bits were
// trimmed before encoding and the decoder needs to pad the output back out.
const BlankFill = 2

// Encode greedily segments bits against tree, appending one opcode byte per
// matched segment. If isGlyph is true, trailing false bits are trimmed
// before segmenting (the decoder restores them via the blank-fill opcode),
// and any terminal node is an eligible match; if false (encoding a
// ref-dictionary entry), only non-ref terminals are eligible, which keeps
// the reference graph acyclic.
func Encode(bits bitstring.BitString, tree *dicttree.Tree, isGlyph bool) ([]byte, error) {
	end := bits.Len()
	if isGlyph {
		end = bits.TrimTrailingFalse()
	}

	var out []byte
	i := 0
	for i < end {
		code, length, ok := tree.WalkLongestMatch(bits.Slice(i, bits.Len()), isGlyph)
		if !ok {
			return nil, ErrNoMatch
		}
		out = append(out, byte(code))
		i += length
	}

	if i < bits.Len() {
		out = append(out, BlankFill)
	}

	return out, nil
}
