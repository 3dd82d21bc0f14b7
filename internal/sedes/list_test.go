package sedes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sszkit/sszkit/internal/value"
)

func TestListRoundTrip(t *testing.T) {
	s := NewList(MustUintN(16))
	assert.False(t, s.IsStaticSized())

	in := value.NewList(value.Uint(1), value.Uint(2), value.Uint(3))
	enc, err := s.Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x06, 0x00, 0x00, 0x00, // 6 payload bytes
		0x01, 0x00,
		0x02, 0x00,
		0x03, 0x00,
	}, enc)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
}

func TestListEmpty(t *testing.T) {
	s := NewList(MustUintN(64))

	enc, err := s.Serialize(value.NewList())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, enc)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.Equal(t, 0, dec.(value.List).Len())
}

func TestListOfDynamicElements(t *testing.T) {
	s := NewList(NewByteList())

	in := value.NewList(
		value.NewBytes([]byte{0xaa}),
		value.NewBytes(nil),
		value.NewBytes([]byte{0xbb, 0xcc}),
	)
	enc, err := s.Serialize(in)
	require.NoError(t, err)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
}

func TestNestedListRoundTrip(t *testing.T) {
	s := NewList(NewList(MustUintN(8)))

	in := value.NewList(
		value.NewList(value.Uint(1), value.Uint(2)),
		value.NewList(),
		value.NewList(value.Uint(3)),
	)
	enc, err := s.Serialize(in)
	require.NoError(t, err)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
}

func TestListElementStraddlesSpan(t *testing.T) {
	s := NewList(MustUintN(16))
	// Span of 3 bytes cannot hold uint16 elements.
	_, err := s.Deserialize([]byte{0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x02})
	require.Error(t, err)
}

func TestListSerializeKindError(t *testing.T) {
	s := NewList(MustUintN(8))
	_, err := s.Serialize(value.Uint(1))
	var kindErr *KindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, value.KindList, kindErr.Want)
}

func TestListElementErrorPosition(t *testing.T) {
	s := NewList(MustUintN(8))
	_, err := s.Serialize(value.NewList(value.Uint(1), value.Uint(300)))
	require.ErrorIs(t, err, ErrValueOutOfRange)
	assert.Contains(t, err.Error(), "list[1]")
}

func TestListSegmentInLargerBuffer(t *testing.T) {
	s := NewList(MustUintN(8))
	in := value.NewList(value.Uint(9))

	enc, err := s.Serialize(in)
	require.NoError(t, err)

	buf := append([]byte{0xde, 0xad}, enc...)
	buf = append(buf, 0xbe)

	dec, next, err := s.DeserializeSegment(buf, 2)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
	assert.Equal(t, 2+len(enc), next)
}
