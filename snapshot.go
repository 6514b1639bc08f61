package mcufont

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/SeverusTacitus/mcufont/bitstring"
)

const (
	snapshotMagic   = "MCUD"
	snapshotVersion = uint16(2)

	stageSeed       = "seed"
	stageDictionary = "dictionary"

	maxSnapshotStages      = 8
	maxSnapshotPayloadSize = 1 << 24 // 16 MiB, far past any realistic dictionary
)

// A snapshot is a small named-stage archive, in the spirit of a container
// format with independently versioned sections: each stage carries its own
// name and length, so a future version can add stages (or compress some of
// them) without breaking readers that only understand the stages they need.
type snapshotStageHeader struct {
	nameLen uint8
	dataLen uint32
}

func writeSnapshotStage(w io.Writer, name string, payload []byte) (int64, error) {
	if len(name) > 255 {
		return 0, fmt.Errorf("stage name %q too long", name)
	}
	var n int64

	if err := binary.Write(w, binary.LittleEndian, uint8(len(name))); err != nil {
		return n, err
	}
	n++
	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return n, err
	}
	n += 4
	if _, err := io.WriteString(w, name); err != nil {
		return n, err
	}
	n += int64(len(name))
	written, err := w.Write(payload)
	n += int64(written)
	return n, err
}

func readSnapshotStage(r io.Reader) (string, []byte, int64, error) {
	var n int64
	var hdr snapshotStageHeader

	if err := binary.Read(r, binary.LittleEndian, &hdr.nameLen); err != nil {
		return "", nil, n, err
	}
	n++
	if err := binary.Read(r, binary.LittleEndian, &hdr.dataLen); err != nil {
		return "", nil, n, err
	}
	n += 4
	if hdr.dataLen > maxSnapshotPayloadSize {
		return "", nil, n, fmt.Errorf("%w: stage payload %d exceeds limit", ErrSnapshotVersion, hdr.dataLen)
	}

	name := make([]byte, hdr.nameLen)
	read, err := io.ReadFull(r, name)
	n += int64(read)
	if err != nil {
		return "", nil, n, err
	}

	payload := make([]byte, hdr.dataLen)
	read, err = io.ReadFull(r, payload)
	n += int64(read)
	if err != nil {
		return "", nil, n, err
	}

	return string(name), payload, n, nil
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(payload []byte) ([]byte, error) {
	zr := flate.NewReader(bytes.NewReader(payload))
	defer zr.Close()
	return io.ReadAll(zr)
}

func encodeDictionaryStagePayload(dict [DictSize]DictEntry) []byte {
	var buf bytes.Buffer
	for _, e := range dict {
		binary.Write(&buf, binary.LittleEndian, uint16(e.Replacement.Len()))
		refByte := uint8(0)
		if e.RefEncode {
			refByte = 1
		}
		buf.WriteByte(refByte)
		binary.Write(&buf, binary.LittleEndian, int32(e.Score))
		for i := 0; i < e.Replacement.Len(); i++ {
			if e.Replacement.At(i) {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	}
	return buf.Bytes()
}

func decodeDictionaryStagePayload(raw []byte) ([DictSize]DictEntry, error) {
	var dict [DictSize]DictEntry
	r := bytes.NewReader(raw)

	for i := 0; i < DictSize; i++ {
		var length uint16
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return dict, fmt.Errorf("%w: dictionary slot %d: %v", ErrSnapshotVersion, i, err)
		}
		var refByte uint8
		if err := binary.Read(r, binary.LittleEndian, &refByte); err != nil {
			return dict, err
		}
		var score int32
		if err := binary.Read(r, binary.LittleEndian, &score); err != nil {
			return dict, err
		}

		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return dict, err
		}
		bits := make([]bool, length)
		for j, b := range raw {
			bits[j] = b != 0
		}

		dict[i] = DictEntry{
			Replacement: bitstring.FromBools(bits),
			RefEncode:   refByte != 0,
			Score:       int(score),
		}
	}
	return dict, nil
}

// WriteSnapshot serializes d's mutable state (its DictSize dictionary
// slots and its RNG seed) to w as a two-stage archive. The glyph table and
// FontInfo are not part of the snapshot: they never mutate, and are expected
// to already be known to whoever restores one.
//
// Layout:
//
//	magic[4]  = "MCUD"
//	version   = uint16 little-endian
//	stageCnt  = uint16 little-endian
//	repeat stageCnt times:
//	  nameLen = uint8
//	  dataLen = uint32 little-endian
//	  name    = nameLen bytes
//	  payload = dataLen bytes
//
// The "seed" stage holds the raw uint32 seed, little-endian. The
// "dictionary" stage holds a flate-compressed run of DictSize entries, each
// a uint16 little-endian bit count, a ref-mode byte (0 or 1), an int32
// little-endian score, and then one byte (0 or 1) per replacement bit.
func (d *DataFile) WriteSnapshot(w io.Writer) (int64, error) {
	var n int64

	if _, err := io.WriteString(w, snapshotMagic); err != nil {
		return n, err
	}
	n += int64(len(snapshotMagic))
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return n, err
	}
	n += 2
	if err := binary.Write(w, binary.LittleEndian, uint16(2)); err != nil {
		return n, err
	}
	n += 2

	seedPayload := make([]byte, 4)
	binary.LittleEndian.PutUint32(seedPayload, d.seed)
	written, err := writeSnapshotStage(w, stageSeed, seedPayload)
	n += written
	if err != nil {
		return n, err
	}

	dictPayload, err := deflate(encodeDictionaryStagePayload(d.dict))
	if err != nil {
		return n, err
	}
	written, err = writeSnapshotStage(w, stageDictionary, dictPayload)
	n += written
	return n, err
}

// ReadSnapshot restores d's dictionary and seed from r, leaving the glyph
// table and FontInfo untouched. It returns ErrSnapshotVersion if the stream
// doesn't start with a recognized magic/version pair, carries more stages
// than a snapshot ever legitimately needs, or is missing a required stage.
func (d *DataFile) ReadSnapshot(r io.Reader) (int64, error) {
	var n int64

	magic := make([]byte, len(snapshotMagic))
	read, err := io.ReadFull(r, magic)
	n += int64(read)
	if err != nil {
		return n, err
	}
	if string(magic) != snapshotMagic {
		return n, fmt.Errorf("%w: bad magic %q", ErrSnapshotVersion, magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return n, err
	}
	n += 2
	if version != snapshotVersion {
		return n, fmt.Errorf("%w: version %d", ErrSnapshotVersion, version)
	}

	var stageCount uint16
	if err := binary.Read(r, binary.LittleEndian, &stageCount); err != nil {
		return n, err
	}
	n += 2
	if stageCount > maxSnapshotStages {
		return n, fmt.Errorf("%w: %d stages exceeds limit", ErrSnapshotVersion, stageCount)
	}

	var sawSeed, sawDict bool
	for i := 0; i < int(stageCount); i++ {
		name, payload, read, err := readSnapshotStage(r)
		n += read
		if err != nil {
			return n, err
		}

		switch name {
		case stageSeed:
			if len(payload) != 4 {
				return n, fmt.Errorf("%w: malformed seed stage", ErrSnapshotVersion)
			}
			d.seed = binary.LittleEndian.Uint32(payload)
			sawSeed = true
		case stageDictionary:
			raw, err := inflate(payload)
			if err != nil {
				return n, fmt.Errorf("%w: %v", ErrSnapshotVersion, err)
			}
			dict, err := decodeDictionaryStagePayload(raw)
			if err != nil {
				return n, err
			}
			d.dict = dict
			sawDict = true
		}
	}

	if !sawSeed || !sawDict {
		return n, fmt.Errorf("%w: missing required stage", ErrSnapshotVersion)
	}
	return n, nil
}
