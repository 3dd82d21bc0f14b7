package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "uint", KindUint.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "bytes", KindBytes.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "record", KindRecord.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestNewBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	b := NewBytes(src)
	src[0] = 99

	assert.Equal(t, []byte{1, 2, 3}, b.ByteSlice())
	assert.Equal(t, 3, b.Len())
}

func TestByteSliceIsFreshCopy(t *testing.T) {
	b := NewBytes([]byte{1, 2, 3})
	out := b.ByteSlice()
	out[0] = 99

	assert.Equal(t, []byte{1, 2, 3}, b.ByteSlice())
}

func TestNewListCopies(t *testing.T) {
	elems := []Value{Uint(1), Uint(2)}
	l := NewList(elems...)
	elems[0] = Uint(99)

	assert.Equal(t, Uint(1), l.At(0))
	assert.Equal(t, 2, l.Len())
}

func TestListElemsIsFreshCopy(t *testing.T) {
	l := NewList(Uint(1), Uint(2))
	out := l.Elems()
	out[0] = Uint(99)

	assert.Equal(t, Uint(1), l.At(0))
}

func TestFreezeRebuildsNestedLists(t *testing.T) {
	inner := NewList(Uint(1))
	outer := NewList(inner, Bool(true))

	frozen := Freeze(outer)
	require.Equal(t, KindList, frozen.Kind())

	fl := frozen.(List)
	assert.Equal(t, 2, fl.Len())
	assert.True(t, Equal(outer, frozen))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal uints", Uint(5), Uint(5), true},
		{"unequal uints", Uint(5), Uint(6), false},
		{"equal bools", Bool(true), Bool(true), true},
		{"equal bytes", NewBytes([]byte{1, 2}), NewBytes([]byte{1, 2}), true},
		{"unequal bytes", NewBytes([]byte{1, 2}), NewBytes([]byte{1, 3}), false},
		{"kind mismatch", Uint(1), Bool(true), false},
		{"equal lists", NewList(Uint(1), Uint(2)), NewList(Uint(1), Uint(2)), true},
		{"length mismatch", NewList(Uint(1)), NewList(Uint(1), Uint(2)), false},
		{"nested lists", NewList(NewList(Uint(1))), NewList(NewList(Uint(1))), true},
		{"both nil", nil, nil, true},
		{"one nil", Uint(1), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"bool", true, Bool(true)},
		{"int", 42, Uint(42)},
		{"int64", int64(42), Uint(42)},
		{"uint64", uint64(42), Uint(42)},
		{"byte slice", []byte{0xab}, NewBytes([]byte{0xab})},
		{"hex string", "0xdeadbeef", NewBytes([]byte{0xde, 0xad, 0xbe, 0xef})},
		{"raw string", "abc", Bytes("abc")},
		{"list", []any{1, 2}, NewList(Uint(1), Uint(2))},
		{"value passthrough", Uint(7), Uint(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got))
		})
	}
}

func TestFromGoRejectsNegative(t *testing.T) {
	_, err := FromGo(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	_, err = FromGo(int64(-5))
	require.Error(t, err)
}

func TestFromGoRejectsBadHex(t *testing.T) {
	_, err := FromGo("0xzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hex")
}

func TestFromGoRejectsUnsupportedType(t *testing.T) {
	_, err := FromGo(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestFromGoNestedListError(t *testing.T) {
	_, err := FromGo([]any{1, -2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list[1]")
}

func TestToGo(t *testing.T) {
	assert.Equal(t, uint64(7), ToGo(Uint(7)))
	assert.Equal(t, true, ToGo(Bool(true)))
	assert.Equal(t, "0xdead", ToGo(NewBytes([]byte{0xde, 0xad})))
	assert.Equal(t, []any{uint64(1), uint64(2)}, ToGo(NewList(Uint(1), Uint(2))))
}

func TestFromGoToGoRoundTrip(t *testing.T) {
	in := []any{uint64(1), "0xff", true, []any{uint64(2)}}
	v, err := FromGo(in)
	require.NoError(t, err)

	out := ToGo(v)
	assert.Equal(t, []any{uint64(1), "0xff", true, []any{uint64(2)}}, out)
}
