// Package mcufont compresses small monochrome bitmap fonts into the
// compact dictionary-reference encoding used by embedded microcontroller
// font renderers. It trains a small shared dictionary of recurring
// bit-pattern substrings via randomized local search (Optimize), and emits
// each glyph as a sequence of references into that dictionary (Encode).
// Decoding (Decode) is the exact inverse.
package mcufont

import "github.com/SeverusTacitus/mcufont/bitstring"

// DictSize is the fixed number of dictionary slots a DataFile carries.
// Together with the four reserved opcodes 0-3, this keeps every reference
// within a single byte (4 + 252 == 256).
const DictSize = 252

// DictEntry is one mutable dictionary slot.
type DictEntry struct {
	// Replacement is the bit pattern this slot stands for. A zero-length
	// Replacement means the slot is unused.
	Replacement bitstring.BitString

	// RefEncode selects the slot's output coding: false emits it as RLE
	// bytes, true emits it as a reference string into earlier (necessarily
	// RLE-coded) entries.
	RefEncode bool

	// Score is the number of bytes this entry is estimated to save. It is
	// maintained by the optimizer's scoring sweep and used to pick
	// replacement victims; it plays no role in encoding itself.
	Score int
}

// Empty reports whether the slot is unused.
func (d DictEntry) Empty() bool {
	return d.Replacement.Len() == 0
}

// GlyphEntry is one glyph's pixels plus its advance width. Glyphs never
// mutate during optimization.
type GlyphEntry struct {
	Data         bitstring.BitString
	AdvanceWidth int
}

// FontInfo carries metadata the decoder needs to reconstruct a blank glyph,
// plus descriptive fields threaded through for a downstream renderer.
type FontInfo struct {
	MaxWidth  int
	MaxHeight int

	// Name and Baseline are opaque metadata: no encode/decode/optimize
	// operation inspects them. They exist so a DataFile can carry a
	// complete font record end to end without a second side-channel.
	Name     string
	Baseline int
}

// DataFile is the unit the optimizer mutates: a read-only glyph table, a
// mutable dictionary, an RNG seed, and font metadata.
type DataFile struct {
	glyphs []GlyphEntry
	dict   [DictSize]DictEntry
	seed   uint32
	info   FontInfo
}

// NewDataFile constructs a DataFile with an empty dictionary. glyphs is
// retained by reference (glyphs are never mutated by this package), so
// callers should not modify it afterward.
func NewDataFile(glyphs []GlyphEntry, info FontInfo, seed uint32) *DataFile {
	return &DataFile{
		glyphs: glyphs,
		info:   info,
		seed:   seed,
	}
}

// GetGlyphCount returns the number of glyphs in the table.
func (d *DataFile) GetGlyphCount() int {
	return len(d.glyphs)
}

// GetGlyphEntry returns the glyph at index i.
func (d *DataFile) GetGlyphEntry(i int) GlyphEntry {
	return d.glyphs[i]
}

// GetDictionary returns a copy of all DictSize dictionary slots.
func (d *DataFile) GetDictionary() [DictSize]DictEntry {
	return d.dict
}

// GetDictionaryEntry returns the slot at index i.
func (d *DataFile) GetDictionaryEntry(i int) DictEntry {
	return d.dict[i]
}

// SetDictionaryEntry overwrites the slot at index i.
func (d *DataFile) SetDictionaryEntry(i int, entry DictEntry) {
	d.dict[i] = entry
}

// GetLowScoreIndex returns the index of the slot with the lowest score,
// treating empty slots as score 0 so they are preferred over any slot with
// a positive score. Ties resolve to the lowest index.
func (d *DataFile) GetLowScoreIndex() int {
	worst := 0
	worstScore := d.scoreOf(0)
	for i := 1; i < DictSize; i++ {
		s := d.scoreOf(i)
		if s < worstScore {
			worst = i
			worstScore = s
		}
	}
	return worst
}

func (d *DataFile) scoreOf(i int) int {
	if d.dict[i].Empty() {
		return 0
	}
	return d.dict[i].Score
}

// GetSeed returns the current RNG seed.
func (d *DataFile) GetSeed() uint32 {
	return d.seed
}

// SetSeed overwrites the RNG seed.
func (d *DataFile) SetSeed(seed uint32) {
	d.seed = seed
}

// FontInfo returns the DataFile's font metadata.
func (d *DataFile) FontInfo() FontInfo {
	return d.info
}

// Clone returns an independent copy whose dictionary can be mutated without
// affecting d. The glyph table is shared by reference and FontInfo is
// copied; neither is ever mutated.
func (d *DataFile) Clone() *DataFile {
	clone := &DataFile{
		glyphs: d.glyphs,
		dict:   d.dict, // array value copy: each slot's BitString header copies, contents are shared but never mutated in place
		seed:   d.seed,
		info:   d.info,
	}
	return clone
}
