package mcufont

import (
	"fmt"
	"io"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SeverusTacitus/mcufont/bitstring"
	"github.com/SeverusTacitus/mcufont/prng"
)

// Config holds the optimizer's tunables.
type Config struct {
	verbose  bool
	out      io.Writer
	bigJump  bool
	cacheCap int
}

// Option configures an Optimizer.
type Option func(*Config)

// WithVerbose enables "operator replaced slot, score N" diagnostics,
// written to w. Diagnostics are off by default and go nowhere.
func WithVerbose(w io.Writer) Option {
	return func(c *Config) {
		c.verbose = true
		c.out = w
	}
}

// WithBigJump enables the bigjump operator in the main loop. It is defined
// but not run by default, matching the reference implementation shipping
// it commented out of its default call sequence.
func WithBigJump() Option {
	return func(c *Config) { c.bigJump = true }
}

// WithSizeCache bounds the number of trial-dictionary fingerprints the
// optimizer memoizes per Optimize call. A size of 0 (the default) disables
// the cache. The cache never changes which mutations are accepted; it only
// avoids paying for a full re-encode when a later trial happens to produce
// a dictionary identical to one already measured.
func WithSizeCache(capacity int) Option {
	return func(c *Config) { c.cacheCap = capacity }
}

// Optimizer is a randomized hill-climber that mutates a DataFile's
// dictionary to shrink its encoded size.
type Optimizer struct {
	cfg   Config
	cache *lru.Cache[string, int]
}

// NewOptimizer builds an Optimizer from the given options.
func NewOptimizer(opts ...Option) *Optimizer {
	cfg := Config{out: io.Discard}
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Optimizer{cfg: cfg}
	if cfg.cacheCap > 0 {
		cache, _ := lru.New[string, int](cfg.cacheCap)
		o.cache = cache
	}
	return o
}

// measureSize encodes d and returns its byte size, consulting the size
// cache first if one is configured.
func (o *Optimizer) measureSize(d *DataFile) (int, error) {
	var key string
	if o.cache != nil {
		key = fingerprint(d)
		if size, ok := o.cache.Get(key); ok {
			return size, nil
		}
	}

	encoded, err := Encode(d)
	if err != nil {
		return 0, err
	}
	size := MeasureSize(encoded)

	if o.cache != nil {
		o.cache.Add(key, size)
	}
	return size, nil
}

// fingerprint produces an exact (not probabilistic) structural key for d's
// dictionary, suitable for memoizing measureSize within a single Optimize
// call.
func fingerprint(d *DataFile) string {
	var sb strings.Builder
	dict := d.GetDictionary()
	for _, e := range dict {
		if e.RefEncode {
			sb.WriteByte('R')
		} else {
			sb.WriteByte('L')
		}
		for i := 0; i < e.Replacement.Len(); i++ {
			if e.Replacement.At(i) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// RandomSubstring picks a uniformly random glyph, then a uniformly random
// contiguous slice of its bits of length in [2, glyph length].
func RandomSubstring(d *DataFile, rnd *prng.Source) bitstring.BitString {
	glyphIndex := rnd.IntRange(0, d.GetGlyphCount()-1)
	bits := d.GetGlyphEntry(glyphIndex).Data

	length := rnd.IntRange(2, bits.Len())
	start := rnd.IntRange(0, bits.Len()-length)

	return bits.Slice(start, start+length)
}

// mutation proposes a replacement for dictionary slot victim within trial,
// or reports apply=false to skip the trial entirely (used by trim when the
// victim slot is too short to trim).
type mutation func(trial *DataFile, rnd *prng.Source) (victim int, entry DictEntry, apply bool)

// step tries one mutation against live: it mutates a clone, measures it,
// and only if strictly smaller commits the mutation back into live and
// records the entry's score. Rejected mutations never touch live.
func (o *Optimizer) step(live *DataFile, size int, rnd *prng.Source, name string, mutate mutation) (int, error) {
	trial := live.Clone()
	victim, entry, apply := mutate(trial, rnd)
	if !apply {
		return size, nil
	}
	trial.SetDictionaryEntry(victim, entry)

	newSize, err := o.measureSize(trial)
	if err != nil {
		return size, err
	}

	if newSize < size {
		entry.Score = size - newSize
		live.SetDictionaryEntry(victim, entry)
		if o.cfg.verbose {
			fmt.Fprintf(o.cfg.out, "%s: replaced %d, score %d\n", name, victim, entry.Score)
		}
		return newSize, nil
	}
	return size, nil
}

func opWorst(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := trial.GetLowScoreIndex()
	entry := trial.GetDictionaryEntry(victim)
	entry.Replacement = RandomSubstring(trial, rnd)
	return victim, entry, true
}

func opAny(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := rnd.IntRange(0, DictSize-1)
	entry := trial.GetDictionaryEntry(victim)
	entry.Replacement = RandomSubstring(trial, rnd)
	return victim, entry, true
}

func opExpand(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := rnd.IntRange(0, DictSize-1)
	entry := trial.GetDictionaryEntry(victim)

	count := rnd.IntRange(1, 10)
	for i := 0; i < count; i++ {
		bit := rnd.Bool()
		prepend := rnd.Bool()
		if prepend {
			entry.Replacement = entry.Replacement.Prepend(bit)
		} else {
			entry.Replacement = entry.Replacement.Append(bit)
		}
	}
	return victim, entry, true
}

// opTrim erases up to 5 bits from the front and, from the back, all but the
// very last bit of up to 5 more: an end()-end, end()-1 range that
// deliberately spares the final bit. Treated as intended behavior, not a
// bug, absent a measured regression.
func opTrim(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := rnd.IntRange(0, DictSize-1)
	entry := trial.GetDictionaryEntry(victim)

	n := entry.Replacement.Len()
	if n <= 2 {
		return victim, entry, false
	}

	maxTrim := n / 2
	if maxTrim > 5 {
		maxTrim = 5
	}
	start := rnd.IntRange(0, maxTrim)
	end := rnd.IntRange(0, maxTrim)

	bits := entry.Replacement
	if start > 0 {
		bits = bits.Slice(start, bits.Len())
	}
	if end > 0 {
		l := bits.Len()
		bits = bits.Slice(0, l-end).Concat(bits.Slice(l-1, l))
	}

	entry.Replacement = bits
	return victim, entry, true
}

func opRefdict(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := rnd.IntRange(0, DictSize-1)
	entry := trial.GetDictionaryEntry(victim)
	entry.RefEncode = !entry.RefEncode
	return victim, entry, true
}

func opCombine(trial *DataFile, rnd *prng.Source) (int, DictEntry, bool) {
	victim := trial.GetLowScoreIndex()
	idx1 := rnd.IntRange(0, DictSize-1)
	idx2 := rnd.IntRange(0, DictSize-1)

	part1 := trial.GetDictionaryEntry(idx1).Replacement
	part2 := trial.GetDictionaryEntry(idx2).Replacement

	entry := DictEntry{
		Replacement: part1.Concat(part2),
		RefEncode:   true,
	}
	return victim, entry, true
}

// bigjump clears a handful of random slots, then spends 25 inner
// iterations trying to find better replacements for them (and anything
// else), committing the whole batch to live only if it ends up ahead.
func (o *Optimizer) bigjump(live *DataFile, size int, rnd *prng.Source) (int, error) {
	trial := live.Clone()

	dropCount := rnd.IntRange(1, 20)
	for i := 0; i < dropCount; i++ {
		idx := rnd.IntRange(0, DictSize-1)
		trial.SetDictionaryEntry(idx, DictEntry{})
	}

	newSize, err := o.measureSize(trial)
	if err != nil {
		return size, err
	}

	innerOps := []struct {
		name   string
		mutate mutation
	}{
		{"bigjump/worst", opWorst},
		{"bigjump/any", opAny},
		{"bigjump/expand", opExpand},
		{"bigjump/refdict", opRefdict},
		{"bigjump/combine", opCombine},
	}

	for i := 0; i < 25; i++ {
		for _, op := range innerOps {
			newSize, err = o.step(trial, newSize, rnd, op.name, op.mutate)
			if err != nil {
				return size, err
			}
		}
	}

	if newSize < size {
		if o.cfg.verbose {
			fmt.Fprintf(o.cfg.out, "bigjump: replaced %d entries, score %d\n", dropCount, size-newSize)
		}
		*live = *trial
		return newSize, nil
	}
	return size, nil
}

// UpdateScores recomputes every slot's score by measuring the cost of
// removing it, and drops any slot whose score is no longer positive.
func (o *Optimizer) UpdateScores(d *DataFile) error {
	oldSize, err := o.measureSize(d)
	if err != nil {
		return err
	}

	for i := 0; i < DictSize; i++ {
		trial := d.Clone()
		trial.SetDictionaryEntry(i, DictEntry{})

		newSize, err := o.measureSize(trial)
		if err != nil {
			return err
		}

		entry := d.GetDictionaryEntry(i)
		score := newSize - oldSize

		if score > 0 {
			entry.Score = score
			d.SetDictionaryEntry(i, entry)
		} else {
			if o.cfg.verbose && !entry.Empty() {
				fmt.Fprintf(o.cfg.out, "update_scores: dropped %d, score %d\n", i, -score)
			}
			d.SetDictionaryEntry(i, DictEntry{})
		}
	}
	return nil
}

// InitDictionary fills all DictSize slots, in index order, with sampled
// substrings, overwriting whatever the slots held. It uses a cheap "seen it
// twice" frequency heuristic: a substring is only added to the dictionary
// the second distinct time it's drawn.
func InitDictionary(d *DataFile, rnd *prng.Source) {
	seen := make(map[string]bool)
	added := make(map[string]bool)

	i := 0
	for i < DictSize {
		substring := RandomSubstring(d, rnd)
		key := bitKey(substring)

		if !seen[key] {
			seen[key] = true
			continue
		}
		if added[key] {
			continue
		}

		d.SetDictionaryEntry(i, DictEntry{Replacement: substring})
		added[key] = true
		i++
	}
}

func bitKey(b bitstring.BitString) string {
	buf := make([]byte, b.Len())
	for i := 0; i < b.Len(); i++ {
		if b.At(i) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// Optimize runs the main hill-climbing loop for the given number of
// iterations: one pass of {worst, any, expand, trim, refdict, combine} per
// iteration (plus bigjump, if enabled), preceded by one UpdateScores sweep
// and followed by reseeding d for the next run. d's dictionary and seed are
// mutated in place; its glyph table and FontInfo are untouched.
func (o *Optimizer) Optimize(d *DataFile, iterations int) error {
	if d.GetGlyphCount() == 0 {
		return ErrEmptyDataFile
	}

	rnd := prng.New(d.GetSeed())

	if o.cache != nil {
		o.cache.Purge()
		defer o.cache.Purge()
	}

	if err := o.UpdateScores(d); err != nil {
		return err
	}

	size, err := o.measureSize(d)
	if err != nil {
		return err
	}

	ops := []struct {
		name   string
		mutate mutation
	}{
		{"worst", opWorst},
		{"any", opAny},
		{"expand", opExpand},
		{"trim", opTrim},
		{"refdict", opRefdict},
		{"combine", opCombine},
	}

	for n := 0; n < iterations; n++ {
		for _, op := range ops {
			size, err = o.step(d, size, rnd, op.name, op.mutate)
			if err != nil {
				return err
			}
		}
		if o.cfg.bigJump {
			size, err = o.bigjump(d, size, rnd)
			if err != nil {
				return err
			}
		}
	}

	d.SetSeed(rnd.Uint32())
	return nil
}
