package mcufont

import (
	"testing"

	"github.com/SeverusTacitus/mcufont/bitstring"
)

func TestRoundTripGlyphsBitExact(t *testing.T) {
	d := testDataFile()
	InitDictionary(d, newTestRNG())

	encoded, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for i := 0; i < d.GetGlyphCount(); i++ {
		decoded, err := DecodeGlyph(encoded, i, d.FontInfo())
		if err != nil {
			t.Fatalf("DecodeGlyph(%d): %v", i, err)
		}

		original := d.GetGlyphEntry(i).Data
		trimmed := original.Slice(0, original.TrimTrailingFalse())

		// The decoded bits must match up through the last set bit; any
		// further padding (from opcode 2) must be zero and bring the
		// length up to the full glyph dimensions.
		if decoded.Len() < trimmed.Len() || !bitstring.Equal(decoded.Slice(0, trimmed.Len()), trimmed) {
			t.Fatalf("glyph %d: decoded %v does not match trimmed original %v", i, decoded, trimmed)
		}
		for j := trimmed.Len(); j < decoded.Len(); j++ {
			if decoded.At(j) {
				t.Fatalf("glyph %d: padding bit %d should be false", i, j)
			}
		}
	}
}

func TestDecodeEmptyGlyphProducesCorrectDimensions(t *testing.T) {
	glyphs := []GlyphEntry{
		{Data: bitstring.New(12), AdvanceWidth: 3},
	}
	d := NewDataFile(glyphs, FontInfo{MaxWidth: 4, MaxHeight: 3}, 1)

	encoded, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded.Glyphs[0]) != 1 || encoded.Glyphs[0][0] != 2 {
		t.Fatalf("all-false glyph should encode to exactly [2], got %v", encoded.Glyphs[0])
	}

	decoded, err := DecodeGlyph(encoded, 0, d.FontInfo())
	if err != nil {
		t.Fatalf("DecodeGlyph: %v", err)
	}
	if decoded.Len() != 12 {
		t.Fatalf("decoded length = %d, want 12", decoded.Len())
	}
	for i := 0; i < decoded.Len(); i++ {
		if decoded.At(i) {
			t.Fatalf("expected all-false output, bit %d set", i)
		}
	}
}

func TestDecodeReservedOpcodeIsNoOp(t *testing.T) {
	f := &EncodedFont{Glyphs: [][]byte{{0, 3, 1}}}
	decoded, err := DecodeGlyph(f, 0, FontInfo{})
	if err != nil {
		t.Fatalf("DecodeGlyph: %v", err)
	}
	if !bitstring.Equal(decoded, bitstring.FromBools([]bool{false, true})) {
		t.Fatalf("got %v, want [false true] (opcode 3 must be a no-op)", decoded)
	}
}

func TestDecodeOutOfRangeReferenceIsAnError(t *testing.T) {
	f := &EncodedFont{Glyphs: [][]byte{{250}}}
	if _, err := DecodeGlyph(f, 0, FontInfo{}); err == nil {
		t.Fatalf("expected an error decoding an out-of-range reference")
	}
}

func TestDecodeRecursesThroughRefDictionary(t *testing.T) {
	// ref_dictionary[0] = [0] ++ rle-entry(rle_dictionary[0])
	f := &EncodedFont{
		RLEDictionary: [][]byte{{0x02}}, // two zero bits
		RefDictionary: [][]byte{{0, 4}}, // opcode 0 (literal false), then RLE entry 0
		Glyphs:        [][]byte{{5}},    // references ref_dictionary[0]
	}
	decoded, err := DecodeGlyph(f, 0, FontInfo{})
	if err != nil {
		t.Fatalf("DecodeGlyph: %v", err)
	}
	want := bitstring.FromBools([]bool{false, false, false})
	if !bitstring.Equal(decoded, want) {
		t.Fatalf("got %v, want %v", decoded, want)
	}
}

func TestDecodeExpandsARefDictionaryEntryStandalone(t *testing.T) {
	// The same ref_dictionary[0] entry as above, decoded directly rather
	// than through a glyph that happens to reference it: Decode is the
	// entry point a caller reaches for when it already has a ref-dictionary
	// byte string in hand (e.g. while inspecting an EncodedFont's
	// dictionary sections independently of any glyph).
	f := &EncodedFont{
		RLEDictionary: [][]byte{{0x02}}, // two zero bits
	}
	decoded, err := Decode(f, []byte{0, 4}, FontInfo{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := bitstring.FromBools([]bool{false, false, false})
	if !bitstring.Equal(decoded, want) {
		t.Fatalf("got %v, want %v", decoded, want)
	}
}
