package mcufont

import (
	"sort"

	"github.com/SeverusTacitus/mcufont/dicttree"
	"github.com/SeverusTacitus/mcufont/refcodec"
	"github.com/SeverusTacitus/mcufont/rle"
)

// EncodedFont is the logical content of a compressed font: two disjoint
// dictionary sections plus one reference string per glyph. Reference index
// i >= 4 means rle_dictionary[i-4] if in range, else
// ref_dictionary[i-4-len(rle_dictionary)]. Emitting this as an on-disk byte
// stream (offset tables, headers) is an external collaborator's concern.
type EncodedFont struct {
	RLEDictionary [][]byte
	RefDictionary [][]byte
	Glyphs        [][]byte
}

// sortedDictionary returns a stable-sorted copy of d's dictionary: all
// RLE-mode entries first, then all ref-mode entries, then all empty entries
// last. This ordering is exactly the emission order Encode uses, so it
// defines the reference codes baked into the result.
func sortedDictionary(d *DataFile) []DictEntry {
	entries := make([]DictEntry, DictSize)
	dict := d.GetDictionary()
	copy(entries, dict[:])

	sort.SliceStable(entries, func(i, j int) bool {
		return dictOrderKey(entries[i]) < dictOrderKey(entries[j])
	})
	return entries
}

func dictOrderKey(e DictEntry) int {
	if e.Empty() {
		return 2
	}
	if e.RefEncode {
		return 1
	}
	return 0
}

func buildTree(sorted []DictEntry) *dicttree.Tree {
	treeEntries := make([]dicttree.Entry, len(sorted))
	for i, e := range sorted {
		treeEntries[i] = dicttree.Entry{Replacement: e.Replacement, RefEncode: e.RefEncode}
	}
	return dicttree.Build(treeEntries)
}

// Encode produces the EncodedFont for the DataFile's current dictionary and
// glyph table. It returns ErrNoMatch if the dictionary tree ever fails to
// find an eligible match, which indicates a corrupt DictTree construction
// and should never happen given the hardcoded single-bit entries.
func Encode(d *DataFile) (*EncodedFont, error) {
	sorted := sortedDictionary(d)
	tree := buildTree(sorted)

	result := &EncodedFont{}

	for _, e := range sorted {
		if e.Empty() {
			continue
		}
		if e.RefEncode {
			encoded, err := refcodec.Encode(e.Replacement, tree, false)
			if err != nil {
				return nil, ErrNoMatch
			}
			result.RefDictionary = append(result.RefDictionary, encoded)
		} else {
			result.RLEDictionary = append(result.RLEDictionary, rle.Encode(e.Replacement))
		}
	}

	for i := 0; i < d.GetGlyphCount(); i++ {
		g := d.GetGlyphEntry(i)
		encoded, err := refcodec.Encode(g.Data, tree, true)
		if err != nil {
			return nil, ErrNoMatch
		}
		result.Glyphs = append(result.Glyphs, encoded)
	}

	return result, nil
}

// MeasureSize computes the exact encoded byte size of an EncodedFont. It is
// the optimizer's fitness function: Σ(|rle entry| + 2 if non-empty) +
// Σ(|ref entry| + 2 if non-empty) + Σ(|glyph ref string| + 3). The +2
// accounts for an offset-table entry, the +3 for a glyph's offset entry
// plus its width byte.
func MeasureSize(f *EncodedFont) int {
	total := 0
	for _, r := range f.RLEDictionary {
		if len(r) != 0 {
			total += len(r) + 2
		}
	}
	for _, r := range f.RefDictionary {
		if len(r) != 0 {
			total += len(r) + 2
		}
	}
	for _, g := range f.Glyphs {
		total += len(g) + 3
	}
	return total
}
