package mcufont

import "errors"

// Sentinel errors returned by the encoder, decoder, and DataFile snapshot
// codec. Wrap with fmt.Errorf("%w: ...") when a specific index or value adds
// useful context; the bare sentinel is always safe to compare against with
// errors.Is.
var (
	// ErrNoMatch indicates the dictionary lookup tree failed to find any
	// eligible match while segmenting a bitstring. This can only happen if
	// the tree was built without the two hardcoded single-bit entries, so
	// it signals a corrupt DictTree construction rather than a normal
	// encoding outcome.
	ErrNoMatch = errors.New("mcufont: dictionary tree produced no match")

	// ErrRefOutOfRange indicates a reference opcode in an encoded font
	// points outside the known RLE/ref dictionaries, which means the
	// EncodedFont being decoded is corrupted.
	ErrRefOutOfRange = errors.New("mcufont: reference opcode out of range")

	// ErrEmptyDataFile indicates an operation requires at least one glyph
	// and none were supplied.
	ErrEmptyDataFile = errors.New("mcufont: DataFile has no glyphs")

	// ErrSnapshotVersion indicates a DataFile snapshot stream has an
	// unrecognized version tag.
	ErrSnapshotVersion = errors.New("mcufont: unrecognized snapshot version")
)
