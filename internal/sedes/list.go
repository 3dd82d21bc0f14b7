package sedes

import (
	"fmt"

	"github.com/sszkit/sszkit/internal/value"
)

// List encodes a homogeneous variable-length sequence: a length prefix
// over the concatenated element encodings.
type List struct {
	byteConsumer
	elem Sedes
}

// NewList returns a codec for sequences of elem-encoded values.
func NewList(elem Sedes) *List {
	return &List{elem: elem}
}

// Elem returns the element codec.
func (s *List) Elem() Sedes { return s.elem }

// IsStaticSized implements Sedes. Lists are always dynamic: their
// encoded length depends on the element count.
func (s *List) IsStaticSized() bool { return false }

// StaticSize implements Sedes.
func (s *List) StaticSize() (int, error) { return 0, ErrDynamicSize }

// Serialize implements Sedes.
func (s *List) Serialize(v value.Value) ([]byte, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, &KindError{Codec: "list", Want: value.KindList, Got: v.Kind()}
	}
	var payload []byte
	for i := 0; i < l.Len(); i++ {
		enc, err := s.elem.Serialize(l.At(i))
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		payload = append(payload, enc...)
	}
	return prependLength(payload), nil
}

// Deserialize implements Sedes.
func (s *List) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(s, data)
}

// DeserializeSegment implements Sedes: reads the prefix, then decodes
// elements sequentially until the governed span is exhausted. An
// element encoding straddling the span boundary is a prefix error.
func (s *List) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	payload, next, err := readLengthPrefixed(data, start)
	if err != nil {
		return nil, 0, err
	}
	var elems []value.Value
	idx := 0
	for idx < len(payload) {
		elem, after, err := s.elem.DeserializeSegment(payload, idx)
		if err != nil {
			return nil, 0, fmt.Errorf("list[%d]: %w", len(elems), err)
		}
		elems = append(elems, elem)
		idx = after
	}
	if idx != len(payload) {
		return nil, 0, fmt.Errorf("%w: element encodings overrun list span", ErrInvalidPrefix)
	}
	return value.NewList(elems...), next, nil
}

// HashTreeRoot implements Sedes: merkleization of the element roots
// with the element count mixed in.
func (s *List) HashTreeRoot(v value.Value) ([32]byte, error) {
	l, ok := v.(value.List)
	if !ok {
		return [32]byte{}, &KindError{Codec: "list", Want: value.KindList, Got: v.Kind()}
	}
	chunks := make([][32]byte, l.Len())
	for i := 0; i < l.Len(); i++ {
		root, err := s.elem.HashTreeRoot(l.At(i))
		if err != nil {
			return [32]byte{}, fmt.Errorf("list[%d]: %w", i, err)
		}
		chunks[i] = root
	}
	return MixInLength(Merkleize(chunks), uint64(l.Len())), nil
}
