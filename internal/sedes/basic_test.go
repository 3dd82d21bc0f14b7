package sedes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sszkit/sszkit/internal/value"
)

func TestNewUintNWidths(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		s, err := NewUintN(bits)
		require.NoError(t, err)
		assert.Equal(t, bits, s.Bits())
		assert.True(t, s.IsStaticSized())

		size, err := s.StaticSize()
		require.NoError(t, err)
		assert.Equal(t, bits/8, size)
	}

	_, err := NewUintN(24)
	require.Error(t, err)
}

func TestMustUintNPanics(t *testing.T) {
	assert.Panics(t, func() { MustUintN(7) })
	assert.NotPanics(t, func() { MustUintN(32) })
}

func TestUintNSerialize(t *testing.T) {
	tests := []struct {
		bits int
		in   uint64
		want []byte
	}{
		{8, 0, []byte{0x00}},
		{8, 255, []byte{0xff}},
		{16, 0x0102, []byte{0x02, 0x01}},
		{32, 1, []byte{0x01, 0x00, 0x00, 0x00}},
		{64, 0x0807060504030201, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
	}

	for _, tt := range tests {
		s := MustUintN(tt.bits)
		got, err := s.Serialize(value.Uint(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestUintNRoundTrip(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		s := MustUintN(bits)
		for _, n := range []uint64{0, 1, 200} {
			enc, err := s.Serialize(value.Uint(n))
			require.NoError(t, err)

			dec, err := s.Deserialize(enc)
			require.NoError(t, err)
			assert.Equal(t, value.Uint(n), dec)
		}
	}
}

func TestUintNRangeCheck(t *testing.T) {
	s := MustUintN(8)
	_, err := s.Serialize(value.Uint(256))
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = s.Serialize(value.Uint(255))
	require.NoError(t, err)
}

func TestUintNKindError(t *testing.T) {
	s := MustUintN(32)
	_, err := s.Serialize(value.Bool(true))
	var kindErr *KindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, value.KindUint, kindErr.Want)
	assert.Equal(t, value.KindBool, kindErr.Got)
}

func TestUintNDeserializeShortInput(t *testing.T) {
	s := MustUintN(32)
	_, err := s.Deserialize([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestUintNDeserializeTrailingBytes(t *testing.T) {
	s := MustUintN(16)
	_, err := s.Deserialize([]byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestBooleanRoundTrip(t *testing.T) {
	s := NewBoolean()

	enc, err := s.Serialize(value.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, enc)

	enc, err = s.Serialize(value.Bool(false))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, enc)

	dec, err := s.Deserialize([]byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), dec)
}

func TestBooleanRejectsOtherBytes(t *testing.T) {
	s := NewBoolean()
	_, err := s.Deserialize([]byte{0x02})
	require.ErrorIs(t, err, ErrInvalidBool)
}

func TestByteVectorRoundTrip(t *testing.T) {
	s := MustByteVector(4)
	assert.True(t, s.IsStaticSized())
	assert.Equal(t, 4, s.Size())

	in := value.NewBytes([]byte{1, 2, 3, 4})
	enc, err := s.Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, enc)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
}

func TestByteVectorLengthMismatch(t *testing.T) {
	s := MustByteVector(4)
	_, err := s.Serialize(value.NewBytes([]byte{1, 2}))
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestNewByteVectorRejectsNonPositiveSize(t *testing.T) {
	_, err := NewByteVector(0)
	require.Error(t, err)
	_, err = NewByteVector(-1)
	require.Error(t, err)
}

func TestByteListRoundTrip(t *testing.T) {
	s := NewByteList()
	assert.False(t, s.IsStaticSized())

	_, err := s.StaticSize()
	require.ErrorIs(t, err, ErrDynamicSize)

	in := value.NewBytes([]byte{0xaa, 0xbb})
	enc, err := s.Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 0xaa, 0xbb}, enc)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, dec))
}

func TestByteListEmpty(t *testing.T) {
	s := NewByteList()
	enc, err := s.Serialize(value.NewBytes(nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, enc)

	dec, err := s.Deserialize(enc)
	require.NoError(t, err)
	assert.Equal(t, 0, dec.(value.Bytes).Len())
}

func TestByteListPrefixOverrunsInput(t *testing.T) {
	s := NewByteList()
	// Prefix promises 10 bytes, only 2 present.
	_, err := s.Deserialize([]byte{0x0a, 0x00, 0x00, 0x00, 0xaa, 0xbb})
	require.ErrorIs(t, err, ErrInvalidPrefix)
}

func TestDeserializeSegmentSequence(t *testing.T) {
	u16 := MustUintN(16)
	bl := NewByteList()

	// Two encodings back to back in one buffer.
	var buf []byte
	enc, err := u16.Serialize(value.Uint(0x0201))
	require.NoError(t, err)
	buf = append(buf, enc...)
	enc, err = bl.Serialize(value.NewBytes([]byte{0xff}))
	require.NoError(t, err)
	buf = append(buf, enc...)

	v1, next, err := u16.DeserializeSegment(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, value.Uint(0x0201), v1)
	assert.Equal(t, 2, next)

	v2, next, err := bl.DeserializeSegment(buf, next)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.NewBytes([]byte{0xff}), v2))
	assert.Equal(t, len(buf), next)
}

func TestConsumeBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4}

	out, next, err := ConsumeBytes(data, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, out)
	assert.Equal(t, 3, next)

	// Returned slice is a copy.
	out[0] = 99
	assert.Equal(t, byte(2), data[1])

	_, _, err = ConsumeBytes(data, 3, 2)
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	_, _, err = ConsumeBytes(data, -1, 1)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
