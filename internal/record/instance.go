package record

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/sszkit/sszkit/internal/value"
)

// Instance is an ordered, fixed-length, immutable tuple of field
// values. Instances are safe to share across goroutines; the one lazy
// member, the memoized structural hash, is written idempotently.
type Instance struct {
	typ    *Type
	values []value.Value

	// hash memoizes the structural digest. Redundant concurrent
	// first-time computation is fine: every compute yields the same
	// bytes, so racing Stores are idempotent. Never serialized; a
	// reconstructed instance recomputes it lazily.
	hash atomic.Pointer[[32]byte]
}

// New constructs an instance from positional and named field values.
// Positional arguments fill the declared field order left-to-right;
// the rest must be supplied by name. Every resolved value is frozen
// into an immutable form before storage.
func (t *Type) New(args []value.Value, kwargs map[string]value.Value) (*Instance, error) {
	names := t.desc.FieldNames
	merged, err := mergeArgs(args, kwargs, names)
	if err != nil {
		return nil, err
	}
	vals := make([]value.Value, len(merged))
	for i, v := range merged {
		vals[i] = value.Freeze(v)
	}
	return &Instance{typ: t, values: vals}, nil
}

// mergeArgs resolves positional and named arguments against the
// declared field order. It fails on a field value supplied twice, a
// name matching no field, or a field left without a value.
func mergeArgs(args []value.Value, kwargs map[string]value.Value, names []string) ([]value.Value, error) {
	if len(args) > len(names) {
		return nil, &ArgumentError{
			Code:  ErrUnknownArgument,
			Names: []string{fmt.Sprintf("%d positional values for %d fields", len(args), len(names))},
		}
	}

	positional := make(map[string]bool, len(args))
	for _, n := range names[:len(args)] {
		positional[n] = true
	}

	var dup, unknown []string
	for k := range kwargs {
		switch {
		case positional[k]:
			dup = append(dup, k)
		case indexOf(names, k) < 0:
			unknown = append(unknown, k)
		}
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return nil, &ArgumentError{Code: ErrDuplicateArgument, Names: dup}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ArgumentError{Code: ErrUnknownArgument, Names: unknown}
	}

	var missing []string
	for _, n := range names[len(args):] {
		if _, ok := kwargs[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ArgumentError{Code: ErrMissingArgument, Names: missing}
	}

	merged := make([]value.Value, 0, len(names))
	merged = append(merged, args...)
	for _, n := range names[len(args):] {
		merged = append(merged, kwargs[n])
	}
	return merged, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Type returns the instance's record type.
func (inst *Instance) Type() *Type { return inst.typ }

// Kind implements value.Value.
func (inst *Instance) Kind() value.Kind { return value.KindRecord }

// Len returns the field count.
func (inst *Instance) Len() int { return len(inst.values) }

// At returns the value at position i in declared field order.
func (inst *Instance) At(i int) (value.Value, error) {
	if i < 0 || i >= len(inst.values) {
		return nil, &AccessError{
			Code:    ErrIndexOutOfRange,
			Message: fmt.Sprintf("index %d out of range for %d fields", i, len(inst.values)),
		}
	}
	return inst.values[i], nil
}

// Slice returns the values for the field range [i, j) as an immutable
// sequence.
func (inst *Instance) Slice(i, j int) (value.List, error) {
	if i < 0 || j < i || j > len(inst.values) {
		return value.List{}, &AccessError{
			Code:    ErrIndexOutOfRange,
			Message: fmt.Sprintf("slice [%d:%d] out of range for %d fields", i, j, len(inst.values)),
		}
	}
	return value.NewList(inst.values[i:j]...), nil
}

// Field returns the value of the named field through its generated
// accessor.
func (inst *Instance) Field(name string) (value.Value, error) {
	acc, ok := inst.typ.accessors[name]
	if !ok {
		return nil, &AccessError{
			Code:    ErrUnknownField,
			Message: fmt.Sprintf("type %q has no field %q", inst.typ.name, name),
		}
	}
	return acc(inst), nil
}

// Values returns the ordered field-value tuple. Equality and hashing
// operate on exactly this sequence.
func (inst *Instance) Values() []value.Value {
	return append([]value.Value(nil), inst.values...)
}

// FieldValues implements sedes.Tuple.
func (inst *Instance) FieldValues() []value.Value {
	return inst.Values()
}

// AsMap returns field name to value for all fields. Declaration order
// is available from Type().FieldNames().
func (inst *Instance) AsMap() map[string]value.Value {
	m := make(map[string]value.Value, len(inst.values))
	for i, n := range inst.typ.desc.FieldNames {
		m[n] = inst.values[i]
	}
	return m
}

// GoMap exports the instance as plain Go data, field by field in no
// particular order. The memoized hash is never part of this
// representation.
func (inst *Instance) GoMap() map[string]any {
	m := make(map[string]any, len(inst.values))
	for i, n := range inst.typ.desc.FieldNames {
		m[n] = value.ToGo(inst.values[i])
	}
	return m
}

// Equal reports structural equality: the exact same record type and
// equal ordered field-value tuples.
func (inst *Instance) Equal(other *Instance) bool {
	if other == nil || inst.typ != other.typ {
		return false
	}
	if inst == other {
		return true
	}
	if inst.HashKey() != other.HashKey() {
		return false
	}
	for i := range inst.values {
		if !value.Equal(inst.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// EqualValue implements value.Equaler.
func (inst *Instance) EqualValue(other value.Value) bool {
	o, ok := other.(*Instance)
	return ok && inst.Equal(o)
}

// domainValueHash separates structural value digests from every other
// hash in the system.
const domainValueHash = "sszkit/value/v1"

// HashKey returns the memoized structural digest of the ordered
// field-value tuple. The first call computes it; later calls return
// the cached bytes. Concurrent first calls are safe: the computation
// is deterministic and the write idempotent.
func (inst *Instance) HashKey() [32]byte {
	if p := inst.hash.Load(); p != nil {
		return *p
	}
	h := sha256.New()
	h.Write([]byte(domainValueHash))
	h.Write([]byte{0x00})
	for _, v := range inst.values {
		writeValueDigest(h, v)
	}
	var sum [32]byte
	h.Sum(sum[:0])
	inst.hash.Store(&sum)
	return sum
}

// writeValueDigest feeds a value's structural form into h: a kind tag,
// then a fixed or length-prefixed payload, recursing through lists and
// nested records.
func writeValueDigest(h io.Writer, v value.Value) {
	var tag [1]byte
	tag[0] = byte(v.Kind())
	h.Write(tag[:])
	switch val := v.(type) {
	case value.Uint:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(val))
		h.Write(buf[:])
	case value.Bool:
		if val {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case value.Bytes:
		writeLen(h, val.Len())
		h.Write([]byte(val))
	case value.List:
		writeLen(h, val.Len())
		for i := 0; i < val.Len(); i++ {
			writeValueDigest(h, val.At(i))
		}
	case *Instance:
		key := val.HashKey()
		h.Write(key[:])
	}
}

func writeLen(h io.Writer, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

// Copy produces a new instance with the given fields overridden and
// every other field carried over from the source. Overrides follow the
// construction merging rules, but missing arguments default to the
// source's current value instead of failing. The source is never
// mutated.
func (inst *Instance) Copy(args []value.Value, kwargs map[string]value.Value) (*Instance, error) {
	names := inst.typ.desc.FieldNames
	if len(args) > len(names) {
		return nil, &ArgumentError{
			Code:  ErrUnknownArgument,
			Names: []string{fmt.Sprintf("%d positional values for %d fields", len(args), len(names))},
		}
	}

	combined := make(map[string]value.Value, len(names))
	for k, v := range kwargs {
		combined[k] = v
	}
	covered := make(map[string]bool, len(args))
	for _, n := range names[:len(args)] {
		covered[n] = true
	}
	for i, n := range names {
		if covered[n] {
			continue
		}
		if _, ok := combined[n]; !ok {
			combined[n] = value.DeepCopy(inst.values[i])
		}
	}
	return inst.typ.New(args, combined)
}

// Root computes the tree root of this instance by delegating to its
// type's merkleization. Deliberately not memoized on the instance.
func (inst *Instance) Root() ([32]byte, error) {
	return inst.typ.HashTreeRoot(inst)
}

// String renders the instance for diagnostics.
func (inst *Instance) String() string {
	return fmt.Sprintf("%s%v", inst.typ.name, value.ToGo(inst))
}
