package value

import (
	"encoding/hex"
	"fmt"
)

// Kind identifies the concrete type behind a Value.
type Kind uint8

const (
	KindUint Kind = iota
	KindBool
	KindBytes
	KindList
	KindRecord
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is the universe of field values a record can hold.
// Only Uint, Bool, Bytes, List, and record instances implement it.
// All implementations are immutable after construction.
type Value interface {
	Kind() Kind
}

// Equaler is implemented by composite values (record instances) that
// define their own structural equality. Equal delegates to it for
// KindRecord values.
type Equaler interface {
	Value
	EqualValue(other Value) bool
}

// Uint is an unsigned integer value. The codec layer decides its
// encoded width; the value itself is always carried as uint64.
type Uint uint64

// Kind implements Value.
func (Uint) Kind() Kind { return KindUint }

// Bool is a boolean value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Bytes is an immutable byte string. The string backing guarantees the
// contents cannot change after construction.
type Bytes string

// Kind implements Value.
func (Bytes) Kind() Kind { return KindBytes }

// NewBytes copies b into an immutable Bytes value.
func NewBytes(b []byte) Bytes {
	return Bytes(b)
}

// ByteSlice returns a fresh mutable copy of the contents.
func (b Bytes) ByteSlice() []byte {
	return []byte(b)
}

// Len returns the byte length.
func (b Bytes) Len() int { return len(b) }

// List is an immutable ordered sequence of values.
type List struct {
	elems []Value
}

// Kind implements Value.
func (List) Kind() Kind { return KindList }

// NewList copies elems into an immutable List.
func NewList(elems ...Value) List {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return List{elems: cp}
}

// Len returns the number of elements.
func (l List) Len() int { return len(l.elems) }

// At returns the element at index i. Panics on out-of-range access,
// matching slice semantics; record field access has its own checked
// accessors.
func (l List) At(i int) Value { return l.elems[i] }

// Elems returns a fresh copy of the element slice.
func (l List) Elems() []Value {
	cp := make([]Value, len(l.elems))
	copy(cp, l.elems)
	return cp
}

// Freeze normalizes v into a fully immutable value. Lists are rebuilt
// recursively so no caller-held slice aliases the stored elements.
// Scalar kinds and record instances are already immutable and pass
// through unchanged.
func Freeze(v Value) Value {
	if l, ok := v.(List); ok {
		elems := make([]Value, len(l.elems))
		for i, e := range l.elems {
			elems[i] = Freeze(e)
		}
		return List{elems: elems}
	}
	return v
}

// DeepCopy returns a value independent of v. Because every Value is
// immutable, scalars and records are returned as-is; lists are rebuilt
// so the top-level sequence is a distinct allocation.
func DeepCopy(v Value) Value {
	return Freeze(v)
}

// Equal reports structural equality between two values. Values of
// different kinds are never equal. Record instances delegate to their
// own EqualValue.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Uint:
		return av == b.(Uint)
	case Bool:
		return av == b.(Bool)
	case Bytes:
		return av == b.(Bytes)
	case List:
		bv := b.(List)
		if len(av.elems) != len(bv.elems) {
			return false
		}
		for i := range av.elems {
			if !Equal(av.elems[i], bv.elems[i]) {
				return false
			}
		}
		return true
	default:
		if eq, ok := a.(Equaler); ok {
			return eq.EqualValue(b)
		}
		return false
	}
}

// FromGo converts plain Go data (e.g. decoded YAML) into a Value.
// Supported inputs: unsigned/signed integers (must be non-negative),
// bool, string (hex with 0x prefix becomes Bytes, otherwise raw
// bytes), []byte, []any, and Value itself.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return Freeze(val), nil
	case bool:
		return Bool(val), nil
	case uint64:
		return Uint(val), nil
	case uint:
		return Uint(val), nil
	case int:
		if val < 0 {
			return nil, fmt.Errorf("negative integer %d cannot be a uint value", val)
		}
		return Uint(val), nil
	case int64:
		if val < 0 {
			return nil, fmt.Errorf("negative integer %d cannot be a uint value", val)
		}
		return Uint(val), nil
	case []byte:
		return NewBytes(val), nil
	case string:
		if len(val) >= 2 && val[0] == '0' && (val[1] == 'x' || val[1] == 'X') {
			raw, err := hex.DecodeString(val[2:])
			if err != nil {
				return nil, fmt.Errorf("invalid hex literal %q: %w", val, err)
			}
			return NewBytes(raw), nil
		}
		return Bytes(val), nil
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := FromGo(e)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			elems[i] = ev
		}
		return List{elems: elems}, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// ToGo converts a Value back into plain Go data for display and YAML
// output. Bytes become 0x-prefixed hex strings.
func ToGo(v Value) any {
	switch val := v.(type) {
	case Uint:
		return uint64(val)
	case Bool:
		return bool(val)
	case Bytes:
		return "0x" + hex.EncodeToString([]byte(val))
	case List:
		out := make([]any, len(val.elems))
		for i, e := range val.elems {
			out[i] = ToGo(e)
		}
		return out
	default:
		if m, ok := v.(interface{ GoMap() map[string]any }); ok {
			return m.GoMap()
		}
		return fmt.Sprintf("%v", v)
	}
}
