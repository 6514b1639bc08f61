package mcufont

import (
	"bytes"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	d := testDataFile()
	InitDictionary(d, newTestRNG())
	d.SetSeed(123456)

	var buf bytes.Buffer
	if _, err := d.WriteSnapshot(&buf); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	restored := NewDataFile(nil, d.FontInfo(), 0)
	if _, err := restored.ReadSnapshot(&buf); err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if restored.GetSeed() != d.GetSeed() {
		t.Fatalf("seed mismatch: got %d, want %d", restored.GetSeed(), d.GetSeed())
	}
	for i := 0; i < DictSize; i++ {
		want := d.GetDictionaryEntry(i)
		got := restored.GetDictionaryEntry(i)
		if got.RefEncode != want.RefEncode || got.Score != want.Score {
			t.Fatalf("slot %d metadata mismatch: got %+v, want %+v", i, got, want)
		}
		if got.Replacement.Len() != want.Replacement.Len() {
			t.Fatalf("slot %d length mismatch: got %d, want %d", i, got.Replacement.Len(), want.Replacement.Len())
		}
		for j := 0; j < want.Replacement.Len(); j++ {
			if got.Replacement.At(j) != want.Replacement.At(j) {
				t.Fatalf("slot %d bit %d mismatch", i, j)
			}
		}
	}
}

func TestReadSnapshotRejectsBadMagic(t *testing.T) {
	d := testDataFile()
	if _, err := d.ReadSnapshot(bytes.NewReader([]byte("XXXX"))); err == nil {
		t.Fatalf("expected an error for a bad magic prefix")
	}
}

func TestReadSnapshotRejectsOldVersion(t *testing.T) {
	d := testDataFile()
	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	buf.Write([]byte{1, 0}) // version 1, which no longer exists
	if _, err := d.ReadSnapshot(&buf); err == nil {
		t.Fatalf("expected an error for a stale version")
	}
}

func TestReadSnapshotRejectsMissingStages(t *testing.T) {
	d := testDataFile()
	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	buf.Write([]byte{2, 0}) // version 2
	buf.Write([]byte{0, 0}) // zero stages
	if _, err := d.ReadSnapshot(&buf); err == nil {
		t.Fatalf("expected an error when required stages are absent")
	}
}
