package record

import (
	"fmt"
	"sort"

	"github.com/sszkit/sszkit/internal/schema"
	"github.com/sszkit/sszkit/internal/sedes"
	"github.com/sszkit/sszkit/internal/value"
)

// accessor is a read-only field getter bound to one storage slot.
type accessor func(*Instance) value.Value

// Type is a compiled record type: the schema descriptor, the generated
// accessors, and the codec facade in one immutable object. Compiled
// exactly once, at definition time.
type Type struct {
	name      string
	desc      *schema.Descriptor
	parents   []*Type
	reserved  map[string]bool
	accessors map[string]accessor
	slotIndex map[string]int
}

type typeConfig struct {
	parents  []*Type
	reserved []string
}

// TypeOption configures type compilation.
type TypeOption func(*typeConfig)

// WithParents declares the type's ancestors. A type that declares no
// fields of its own inherits the field set of exactly one field-bearing
// ancestor; two or more is a schema error.
func WithParents(parents ...*Type) TypeOption {
	return func(c *typeConfig) {
		c.parents = append(c.parents, parents...)
	}
}

// WithReserved declares additional member names the slot allocator
// must avoid, e.g. names bound by a declarative definition alongside
// the fields.
func WithReserved(names ...string) TypeOption {
	return func(c *typeConfig) {
		c.reserved = append(c.reserved, names...)
	}
}

// NewType compiles a record type. fields is the type's own declaration
// list; pass nil to inherit from the ancestry. Schema errors abort
// compilation entirely.
func NewType(name string, fields []schema.FieldDecl, opts ...TypeOption) (*Type, error) {
	cfg := &typeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Type{
		name:     name,
		parents:  append([]*Type(nil), cfg.parents...),
		reserved: make(map[string]bool, len(cfg.reserved)),
	}
	for _, r := range cfg.reserved {
		t.reserved[r] = true
	}

	var (
		declared  []schema.FieldDecl
		container *sedes.Container
	)
	switch {
	case fields != nil:
		if err := schema.ValidateFieldDecls(fields); err != nil {
			return nil, err
		}
		var err error
		container, err = buildContainer(fields)
		if err != nil {
			return nil, err
		}
		declared = fields

	default:
		withFields := fieldBearing(cfg.parents)
		switch len(withFields) {
		case 0:
			t.desc = schema.EmptyDescriptor()
			return t, nil
		case 1:
			// Reuse the ancestor's declaration list and composite
			// codec; inheritance never recopies or rebuilds them.
			declared = withFields[0].desc.Fields
			container = withFields[0].desc.Container
		default:
			names := make([]string, len(withFields))
			for i, p := range withFields {
				names[i] = p.name
			}
			sort.Strings(names)
			return nil, &schema.SchemaError{
				Code: schema.ErrAmbiguousInheritance,
				Message: fmt.Sprintf(
					"type %q declares no fields but inherits field sets from multiple ancestors: %v",
					name, names),
			}
		}
	}

	reserved := t.ancestryNamespace()
	fieldNames := make([]string, len(declared))
	for i, f := range declared {
		fieldNames[i] = f.Name
	}
	slots := schema.AllocateSlots(fieldNames, reserved)
	t.desc = schema.NewDescriptor(declared, container, slots)

	// Accessor names are the field names themselves. The allocator
	// keeps slots clear of the ancestry namespace; a field name
	// shadowing a declared member would still slip through it, so
	// reject that here. Unreachable for well-formed definitions.
	for _, fn := range fieldNames {
		if t.reserved[fn] {
			return nil, &schema.SchemaError{
				Code:    schema.ErrSlotCollision,
				Message: fmt.Sprintf("generated accessor %q collides with a declared member of %q", fn, name),
			}
		}
	}

	t.slotIndex = make(map[string]int, len(slots))
	t.accessors = make(map[string]accessor, len(fieldNames))
	for i, slot := range slots {
		t.slotIndex[slot] = i
	}
	for i, fn := range fieldNames {
		idx := i
		t.accessors[fn] = func(inst *Instance) value.Value {
			return inst.values[idx]
		}
	}
	return t, nil
}

// MustNewType is like NewType but panics on a schema error. Use for
// statically known definitions.
func MustNewType(name string, fields []schema.FieldDecl, opts ...TypeOption) *Type {
	t, err := NewType(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// buildContainer constructs the composite codec, re-raising codec
// validation failures as schema-definition errors.
func buildContainer(fields []schema.FieldDecl) (*sedes.Container, error) {
	sf := make([]sedes.Field, len(fields))
	for i, f := range fields {
		sf[i] = sedes.Field{Name: f.Name, Codec: f.Codec}
	}
	c, err := sedes.NewContainer(sf)
	if err != nil {
		return nil, &schema.SchemaError{
			Code:    schema.ErrEmptyFields,
			Message: fmt.Sprintf("composite codec rejected field list: %v", err),
		}
	}
	return c, nil
}

// fieldBearing filters the direct ancestors that carry field sets.
func fieldBearing(parents []*Type) []*Type {
	var out []*Type
	for _, p := range parents {
		if p != nil && p.desc.HasFields {
			out = append(out, p)
		}
	}
	return out
}

// ancestryNamespace is the union of every name in use anywhere in the
// ancestry: field names, allocated slots, and reserved members, own
// and inherited.
func (t *Type) ancestryNamespace() map[string]bool {
	ns := make(map[string]bool)
	t.collectNamespace(ns)
	return ns
}

func (t *Type) collectNamespace(ns map[string]bool) {
	for r := range t.reserved {
		ns[r] = true
	}
	if t.desc != nil {
		for _, n := range t.desc.FieldNames {
			ns[n] = true
		}
		for _, s := range t.desc.StorageSlots {
			ns[s] = true
		}
	}
	for _, p := range t.parents {
		p.collectNamespace(ns)
	}
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// HasFields reports whether the type (or an ancestor) declares fields.
func (t *Type) HasFields() bool { return t.desc.HasFields }

// Descriptor returns the compiled schema descriptor.
func (t *Type) Descriptor() *schema.Descriptor { return t.desc }

// FieldNames returns the ordered field names.
func (t *Type) FieldNames() []string {
	return append([]string(nil), t.desc.FieldNames...)
}

// NumFields returns the declared field count.
func (t *Type) NumFields() int { return len(t.desc.FieldNames) }

// Canonical renders the type's canonical schema text.
func (t *Type) Canonical() string { return t.desc.Canonical(t.name) }

// SchemaHash returns the domain-separated hash of the canonical text.
func (t *Type) SchemaHash() string { return t.desc.Hash(t.name) }

// SedesName implements sedes.Namer: nested record fields render under
// their type name in canonical schema text.
func (t *Type) SedesName() string { return t.name }

//
// Codec facade. All operations route through the composite codec;
// calling them on a fieldless type fails with ErrFieldless.
//

// IsStaticSized implements sedes.Sedes.
func (t *Type) IsStaticSized() bool {
	return t.desc.HasFields && t.desc.Container.IsStaticSized()
}

// StaticSize implements sedes.Sedes.
func (t *Type) StaticSize() (int, error) {
	if !t.desc.HasFields {
		return 0, ErrFieldless
	}
	return t.desc.Container.StaticSize()
}

// Serialize implements sedes.Sedes. The value must be an instance of
// this exact type.
func (t *Type) Serialize(v value.Value) ([]byte, error) {
	inst, err := t.instanceOf(v)
	if err != nil {
		return nil, err
	}
	return t.desc.Container.SerializeValues(inst.values)
}

// Deserialize implements sedes.Sedes.
func (t *Type) Deserialize(data []byte) (value.Value, error) {
	return t.DeserializeInstance(data)
}

// DeserializeInstance decodes a complete encoding into a new instance:
// the composite codec yields a field mapping, and the instance is
// constructed from it by name.
func (t *Type) DeserializeInstance(data []byte) (*Instance, error) {
	if !t.desc.HasFields {
		return nil, ErrFieldless
	}
	mapping, err := t.desc.Container.DeserializeMapping(data)
	if err != nil {
		return nil, err
	}
	return t.fromMapping(mapping)
}

// DeserializeSegment implements sedes.Sedes.
func (t *Type) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	return t.DeserializeInstanceSegment(data, start)
}

// DeserializeInstanceSegment decodes one instance beginning at start
// and returns it with the index immediately after its encoding,
// enabling sequential decoding of concatenated records.
func (t *Type) DeserializeInstanceSegment(data []byte, start int) (*Instance, int, error) {
	if !t.desc.HasFields {
		return nil, 0, ErrFieldless
	}
	mapping, next, err := t.desc.Container.DeserializeMappingSegment(data, start)
	if err != nil {
		return nil, 0, err
	}
	inst, err := t.fromMapping(mapping)
	if err != nil {
		return nil, 0, err
	}
	return inst, next, nil
}

// ConsumeBytes implements sedes.Sedes: raw pass-through to the
// composite codec's byte-accounting primitive.
func (t *Type) ConsumeBytes(data []byte, start, n int) ([]byte, int, error) {
	if !t.desc.HasFields {
		return nil, 0, ErrFieldless
	}
	return t.desc.Container.ConsumeBytes(data, start, n)
}

// HashTreeRoot implements sedes.Sedes: merkleization over the
// instance's ordered field values.
func (t *Type) HashTreeRoot(v value.Value) ([32]byte, error) {
	inst, err := t.instanceOf(v)
	if err != nil {
		return [32]byte{}, err
	}
	return t.desc.Container.HashTreeRootValues(inst.values)
}

// fromMapping constructs an instance by keyword from a decoded field
// mapping. The composite codec's mapping matches the schema by
// construction, so a failure here is an internal-consistency fault.
func (t *Type) fromMapping(mapping map[string]value.Value) (*Instance, error) {
	inst, err := t.New(nil, mapping)
	if err != nil {
		return nil, fmt.Errorf("record: decoded mapping does not match schema of %q: %w", t.name, err)
	}
	return inst, nil
}

func (t *Type) instanceOf(v value.Value) (*Instance, error) {
	if !t.desc.HasFields {
		return nil, ErrFieldless
	}
	inst, ok := v.(*Instance)
	if !ok {
		return nil, &sedes.KindError{Codec: t.name, Want: value.KindRecord, Got: v.Kind()}
	}
	if inst.typ != t && !inherits(inst.typ, t) {
		return nil, fmt.Errorf("record: value is %q, codec is %q", inst.typ.name, t.name)
	}
	return inst, nil
}

// inherits reports whether t has ancestor among its ancestry.
func inherits(t, ancestor *Type) bool {
	for _, p := range t.parents {
		if p == ancestor || inherits(p, ancestor) {
			return true
		}
	}
	return false
}
