package mcufont

import (
	"github.com/SeverusTacitus/mcufont/bitstring"
	"github.com/SeverusTacitus/mcufont/prng"
)

// testDataFile builds a small deterministic DataFile for use across this
// package's tests: a handful of distinct glyph patterns over a 5x5 grid,
// with an empty dictionary ready for InitDictionary/Optimize.
func testDataFile() *DataFile {
	patterns := [][]bool{
		repeatingPattern(25, 3),
		repeatingPattern(25, 5),
		repeatingPattern(25, 7),
		allTrue(25),
		allFalse(25),
		checker(25),
	}
	glyphs := make([]GlyphEntry, len(patterns))
	for i, p := range patterns {
		glyphs[i] = GlyphEntry{Data: bitstring.FromBools(p), AdvanceWidth: 6}
	}
	return NewDataFile(glyphs, FontInfo{MaxWidth: 5, MaxHeight: 5, Name: "testfont"}, 99991)
}

func newTestRNG() *prng.Source {
	return prng.New(99991)
}

func repeatingPattern(n, period int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = (i%period)%2 == 0
	}
	return out
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

func allFalse(n int) []bool {
	return make([]bool, n)
}

func checker(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = i%2 == 0
	}
	return out
}
