package sedes

import (
	"encoding/binary"
	"fmt"

	"github.com/sszkit/sszkit/internal/value"
)

// UintN encodes unsigned integers as fixed-width little-endian words.
type UintN struct {
	byteConsumer
	bits int
}

// NewUintN returns a codec for 8-, 16-, 32-, or 64-bit unsigned
// integers.
func NewUintN(bits int) (*UintN, error) {
	switch bits {
	case 8, 16, 32, 64:
		return &UintN{bits: bits}, nil
	default:
		return nil, fmt.Errorf("sedes: unsupported uint width %d", bits)
	}
}

// MustUintN is like NewUintN but panics on an unsupported width. Use
// for statically known widths.
func MustUintN(bits int) *UintN {
	s, err := NewUintN(bits)
	if err != nil {
		panic(err)
	}
	return s
}

// Bits returns the encoded width in bits.
func (s *UintN) Bits() int { return s.bits }

// IsStaticSized implements Sedes.
func (s *UintN) IsStaticSized() bool { return true }

// StaticSize implements Sedes.
func (s *UintN) StaticSize() (int, error) { return s.bits / 8, nil }

// Serialize implements Sedes.
func (s *UintN) Serialize(v value.Value) ([]byte, error) {
	u, ok := v.(value.Uint)
	if !ok {
		return nil, &KindError{Codec: fmt.Sprintf("uint%d", s.bits), Want: value.KindUint, Got: v.Kind()}
	}
	if s.bits < 64 && uint64(u) >= 1<<uint(s.bits) {
		return nil, fmt.Errorf("%w: %d does not fit uint%d", ErrValueOutOfRange, uint64(u), s.bits)
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(u))
	return buf[:s.bits/8], nil
}

// Deserialize implements Sedes.
func (s *UintN) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(s, data)
}

// DeserializeSegment implements Sedes.
func (s *UintN) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	raw, next, err := ConsumeBytes(data, start, s.bits/8)
	if err != nil {
		return nil, 0, err
	}
	var buf [8]byte
	copy(buf[:], raw)
	return value.Uint(binary.LittleEndian.Uint64(buf[:])), next, nil
}

// HashTreeRoot implements Sedes: the serialized value right-padded to
// one 32-byte chunk.
func (s *UintN) HashTreeRoot(v value.Value) ([32]byte, error) {
	raw, err := s.Serialize(v)
	if err != nil {
		return [32]byte{}, err
	}
	var chunk [32]byte
	copy(chunk[:], raw)
	return chunk, nil
}

// Boolean encodes a boolean as a single 0x00/0x01 byte.
type Boolean struct {
	byteConsumer
}

// NewBoolean returns the boolean codec.
func NewBoolean() *Boolean { return &Boolean{} }

// IsStaticSized implements Sedes.
func (s *Boolean) IsStaticSized() bool { return true }

// StaticSize implements Sedes.
func (s *Boolean) StaticSize() (int, error) { return 1, nil }

// Serialize implements Sedes.
func (s *Boolean) Serialize(v value.Value) ([]byte, error) {
	b, ok := v.(value.Bool)
	if !ok {
		return nil, &KindError{Codec: "bool", Want: value.KindBool, Got: v.Kind()}
	}
	if b {
		return []byte{0x01}, nil
	}
	return []byte{0x00}, nil
}

// Deserialize implements Sedes.
func (s *Boolean) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(s, data)
}

// DeserializeSegment implements Sedes.
func (s *Boolean) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	raw, next, err := ConsumeBytes(data, start, 1)
	if err != nil {
		return nil, 0, err
	}
	switch raw[0] {
	case 0x00:
		return value.Bool(false), next, nil
	case 0x01:
		return value.Bool(true), next, nil
	default:
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, raw[0])
	}
}

// HashTreeRoot implements Sedes.
func (s *Boolean) HashTreeRoot(v value.Value) ([32]byte, error) {
	raw, err := s.Serialize(v)
	if err != nil {
		return [32]byte{}, err
	}
	var chunk [32]byte
	chunk[0] = raw[0]
	return chunk, nil
}

// ByteVector encodes a fixed-length byte string.
type ByteVector struct {
	byteConsumer
	size int
}

// NewByteVector returns a codec for byte strings of exactly size bytes.
func NewByteVector(size int) (*ByteVector, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sedes: byte vector size must be positive, got %d", size)
	}
	return &ByteVector{size: size}, nil
}

// MustByteVector is like NewByteVector but panics on an invalid size.
func MustByteVector(size int) *ByteVector {
	s, err := NewByteVector(size)
	if err != nil {
		panic(err)
	}
	return s
}

// Size returns the fixed byte length.
func (s *ByteVector) Size() int { return s.size }

// IsStaticSized implements Sedes.
func (s *ByteVector) IsStaticSized() bool { return true }

// StaticSize implements Sedes.
func (s *ByteVector) StaticSize() (int, error) { return s.size, nil }

// Serialize implements Sedes.
func (s *ByteVector) Serialize(v value.Value) ([]byte, error) {
	b, ok := v.(value.Bytes)
	if !ok {
		return nil, &KindError{Codec: fmt.Sprintf("bytes%d", s.size), Want: value.KindBytes, Got: v.Kind()}
	}
	if b.Len() != s.size {
		return nil, fmt.Errorf("%w: bytes%d got %d bytes", ErrValueOutOfRange, s.size, b.Len())
	}
	return b.ByteSlice(), nil
}

// Deserialize implements Sedes.
func (s *ByteVector) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(s, data)
}

// DeserializeSegment implements Sedes.
func (s *ByteVector) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	raw, next, err := ConsumeBytes(data, start, s.size)
	if err != nil {
		return nil, 0, err
	}
	return value.NewBytes(raw), next, nil
}

// HashTreeRoot implements Sedes: the contents chunked and merkleized.
func (s *ByteVector) HashTreeRoot(v value.Value) ([32]byte, error) {
	raw, err := s.Serialize(v)
	if err != nil {
		return [32]byte{}, err
	}
	return Merkleize(PackBytes(raw)), nil
}

// ByteList encodes a variable-length byte string with a length prefix.
type ByteList struct {
	byteConsumer
}

// NewByteList returns the variable-length byte string codec.
func NewByteList() *ByteList { return &ByteList{} }

// IsStaticSized implements Sedes.
func (s *ByteList) IsStaticSized() bool { return false }

// StaticSize implements Sedes.
func (s *ByteList) StaticSize() (int, error) { return 0, ErrDynamicSize }

// Serialize implements Sedes.
func (s *ByteList) Serialize(v value.Value) ([]byte, error) {
	b, ok := v.(value.Bytes)
	if !ok {
		return nil, &KindError{Codec: "bytes", Want: value.KindBytes, Got: v.Kind()}
	}
	return prependLength(b.ByteSlice()), nil
}

// Deserialize implements Sedes.
func (s *ByteList) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(s, data)
}

// DeserializeSegment implements Sedes.
func (s *ByteList) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	payload, next, err := readLengthPrefixed(data, start)
	if err != nil {
		return nil, 0, err
	}
	return value.NewBytes(payload), next, nil
}

// HashTreeRoot implements Sedes: chunked contents merkleized with the
// byte length mixed in.
func (s *ByteList) HashTreeRoot(v value.Value) ([32]byte, error) {
	b, ok := v.(value.Bytes)
	if !ok {
		return [32]byte{}, &KindError{Codec: "bytes", Want: value.KindBytes, Got: v.Kind()}
	}
	root := Merkleize(PackBytes(b.ByteSlice()))
	return MixInLength(root, uint64(b.Len())), nil
}

// prependLength prefixes payload with its little-endian uint32 length.
func prependLength(payload []byte) []byte {
	out := make([]byte, BytesPerLengthPrefix+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(len(payload)))
	copy(out[BytesPerLengthPrefix:], payload)
	return out
}

// readLengthPrefixed consumes a length prefix at start and returns the
// governed payload with the index after it.
func readLengthPrefixed(data []byte, start int) ([]byte, int, error) {
	raw, next, err := ConsumeBytes(data, start, BytesPerLengthPrefix)
	if err != nil {
		return nil, 0, err
	}
	n := int(binary.LittleEndian.Uint32(raw))
	payload, next, err := ConsumeBytes(data, next, n)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: prefix promises %d bytes: %v", ErrInvalidPrefix, n, err)
	}
	return payload, next, nil
}
