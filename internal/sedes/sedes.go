package sedes

import (
	"errors"
	"fmt"

	"github.com/sszkit/sszkit/internal/value"
)

// BytesPerLengthPrefix is the width of the little-endian length prefix
// carried by every variable-sized encoding.
const BytesPerLengthPrefix = 4

// Codec errors. Decoding failures are reported through these sentinels
// (possibly wrapped with positional context) so callers can
// discriminate malformed wire data from schema-level faults.
var (
	// ErrUnexpectedEOF indicates the input ended before the encoding did.
	ErrUnexpectedEOF = errors.New("sedes: unexpected end of input")

	// ErrInvalidPrefix indicates a length prefix inconsistent with the
	// payload it governs.
	ErrInvalidPrefix = errors.New("sedes: invalid length prefix")

	// ErrInvalidBool indicates a boolean byte other than 0x00 or 0x01.
	ErrInvalidBool = errors.New("sedes: invalid boolean byte")

	// ErrTrailingBytes indicates a full deserialization that did not
	// consume the entire input.
	ErrTrailingBytes = errors.New("sedes: trailing bytes after encoding")

	// ErrDynamicSize indicates StaticSize was called on a codec whose
	// encoded length depends on the value.
	ErrDynamicSize = errors.New("sedes: size is not static")

	// ErrValueOutOfRange indicates a value that does not fit the
	// codec's encoded width.
	ErrValueOutOfRange = errors.New("sedes: value out of range")
)

// KindError reports a value of the wrong kind handed to a codec.
type KindError struct {
	Codec string
	Want  value.Kind
	Got   value.Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("sedes: %s codec expects %s value, got %s", e.Codec, e.Want, e.Got)
}

// Sedes is the capability every field codec provides: size queries,
// byte-level encode/decode, sequential segment decode, raw byte
// consumption, and tree-root computation.
type Sedes interface {
	// IsStaticSized reports whether the encoded length is known from
	// the codec alone.
	IsStaticSized() bool

	// StaticSize returns the encoded byte length for static codecs and
	// ErrDynamicSize otherwise.
	StaticSize() (int, error)

	// Serialize encodes a value.
	Serialize(v value.Value) ([]byte, error)

	// Deserialize decodes a complete encoding. Trailing bytes are an
	// error.
	Deserialize(data []byte) (value.Value, error)

	// DeserializeSegment decodes one value starting at start and
	// returns it with the index immediately after its encoding.
	DeserializeSegment(data []byte, start int) (value.Value, int, error)

	// ConsumeBytes returns n raw bytes starting at start and the index
	// after them, without decoding.
	ConsumeBytes(data []byte, start, n int) ([]byte, int, error)

	// HashTreeRoot computes the merkle tree root of a value.
	HashTreeRoot(v value.Value) ([32]byte, error)
}

// Tuple is implemented by composite values that expose an ordered
// field tuple. Record instances satisfy it; Container accepts either a
// Tuple or a plain value.List.
type Tuple interface {
	value.Value
	FieldValues() []value.Value
}

// ConsumeBytes is the shared byte-accounting primitive: it slices n
// bytes beginning at start, bounds-checked, and reports the index of
// the byte after them.
func ConsumeBytes(data []byte, start, n int) ([]byte, int, error) {
	if start < 0 || n < 0 {
		return nil, 0, fmt.Errorf("%w: negative index", ErrUnexpectedEOF)
	}
	if start+n > len(data) {
		return nil, 0, fmt.Errorf("%w: need %d bytes at index %d, have %d",
			ErrUnexpectedEOF, n, start, len(data)-start)
	}
	out := make([]byte, n)
	copy(out, data[start:start+n])
	return out, start + n, nil
}

// byteConsumer provides the ConsumeBytes method shared by all codecs.
type byteConsumer struct{}

func (byteConsumer) ConsumeBytes(data []byte, start, n int) ([]byte, int, error) {
	return ConsumeBytes(data, start, n)
}

// deserializeFull runs a segment decode over the whole input and
// rejects trailing bytes. All Deserialize implementations reduce to it.
func deserializeFull(s Sedes, data []byte) (value.Value, error) {
	v, end, err := s.DeserializeSegment(data, 0)
	if err != nil {
		return nil, err
	}
	if end != len(data) {
		return nil, fmt.Errorf("%w: %d of %d bytes consumed", ErrTrailingBytes, end, len(data))
	}
	return v, nil
}
