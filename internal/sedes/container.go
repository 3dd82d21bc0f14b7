package sedes

import (
	"fmt"

	"github.com/sszkit/sszkit/internal/value"
)

// Field pairs a name with the codec for its value.
type Field struct {
	Name  string
	Codec Sedes
}

// ValidationError reports an invalid container definition. The schema
// layer re-raises it as a schema-definition error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "sedes: " + e.Message
}

// Container is the composite codec built from an ordered field list.
// Static iff every field codec is static; otherwise the concatenated
// field encodings are wrapped in a length prefix so a container can be
// skipped without decoding it.
type Container struct {
	byteConsumer
	fields []Field
	static bool
	size   int
}

// NewContainer builds a composite codec from fields. Empty or
// duplicate-name field lists fail with a ValidationError.
func NewContainer(fields []Field) (*Container, error) {
	if len(fields) == 0 {
		return nil, &ValidationError{Message: "container needs at least one field"}
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return nil, &ValidationError{Message: fmt.Sprintf("duplicate container field %q", f.Name)}
		}
		seen[f.Name] = true
		if f.Codec == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("container field %q has no codec", f.Name)}
		}
	}
	c := &Container{fields: fields, static: true}
	for _, f := range fields {
		if !f.Codec.IsStaticSized() {
			c.static = false
			c.size = 0
			break
		}
		n, err := f.Codec.StaticSize()
		if err != nil {
			return nil, err
		}
		c.size += n
	}
	return c, nil
}

// Fields returns the ordered field list.
func (c *Container) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Len returns the field count.
func (c *Container) Len() int { return len(c.fields) }

// IsStaticSized implements Sedes.
func (c *Container) IsStaticSized() bool { return c.static }

// StaticSize implements Sedes.
func (c *Container) StaticSize() (int, error) {
	if !c.static {
		return 0, ErrDynamicSize
	}
	return c.size, nil
}

// SerializeValues encodes an ordered field-value tuple.
func (c *Container) SerializeValues(vals []value.Value) ([]byte, error) {
	if len(vals) != len(c.fields) {
		return nil, fmt.Errorf("sedes: container has %d fields, got %d values", len(c.fields), len(vals))
	}
	var payload []byte
	for i, f := range c.fields {
		enc, err := f.Codec.Serialize(vals[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		payload = append(payload, enc...)
	}
	if c.static {
		return payload, nil
	}
	return prependLength(payload), nil
}

// Serialize implements Sedes. The value must expose an ordered field
// tuple: either a record instance or a plain value.List.
func (c *Container) Serialize(v value.Value) ([]byte, error) {
	vals, err := c.tupleValues(v)
	if err != nil {
		return nil, err
	}
	return c.SerializeValues(vals)
}

// DeserializeMapping decodes a complete encoding into a field-name to
// value mapping.
func (c *Container) DeserializeMapping(data []byte) (map[string]value.Value, error) {
	m, end, err := c.DeserializeMappingSegment(data, 0)
	if err != nil {
		return nil, err
	}
	if end != len(data) {
		return nil, fmt.Errorf("%w: %d of %d bytes consumed", ErrTrailingBytes, end, len(data))
	}
	return m, nil
}

// DeserializeMappingSegment decodes one container starting at start,
// returning the field mapping and the index after the encoding.
func (c *Container) DeserializeMappingSegment(data []byte, start int) (map[string]value.Value, int, error) {
	if c.static {
		m := make(map[string]value.Value, len(c.fields))
		idx := start
		for _, f := range c.fields {
			v, after, err := f.Codec.DeserializeSegment(data, idx)
			if err != nil {
				return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
			}
			m[f.Name] = v
			idx = after
		}
		return m, idx, nil
	}

	payload, next, err := readLengthPrefixed(data, start)
	if err != nil {
		return nil, 0, err
	}
	m := make(map[string]value.Value, len(c.fields))
	idx := 0
	for _, f := range c.fields {
		v, after, err := f.Codec.DeserializeSegment(payload, idx)
		if err != nil {
			return nil, 0, fmt.Errorf("field %q: %w", f.Name, err)
		}
		m[f.Name] = v
		idx = after
	}
	if idx != len(payload) {
		return nil, 0, fmt.Errorf("%w: container span is %d bytes, fields use %d", ErrInvalidPrefix, len(payload), idx)
	}
	return m, next, nil
}

// Deserialize implements Sedes. The decoded tuple is returned as a
// value.List in field order; the record layer reconstructs typed
// instances from the mapping form instead.
func (c *Container) Deserialize(data []byte) (value.Value, error) {
	return deserializeFull(c, data)
}

// DeserializeSegment implements Sedes.
func (c *Container) DeserializeSegment(data []byte, start int) (value.Value, int, error) {
	m, next, err := c.DeserializeMappingSegment(data, start)
	if err != nil {
		return nil, 0, err
	}
	vals := make([]value.Value, len(c.fields))
	for i, f := range c.fields {
		vals[i] = m[f.Name]
	}
	return value.NewList(vals...), next, nil
}

// HashTreeRootValues merkleizes the per-field roots of an ordered
// field-value tuple.
func (c *Container) HashTreeRootValues(vals []value.Value) ([32]byte, error) {
	if len(vals) != len(c.fields) {
		return [32]byte{}, fmt.Errorf("sedes: container has %d fields, got %d values", len(c.fields), len(vals))
	}
	chunks := make([][32]byte, len(c.fields))
	for i, f := range c.fields {
		root, err := f.Codec.HashTreeRoot(vals[i])
		if err != nil {
			return [32]byte{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		chunks[i] = root
	}
	return Merkleize(chunks), nil
}

// HashTreeRoot implements Sedes.
func (c *Container) HashTreeRoot(v value.Value) ([32]byte, error) {
	vals, err := c.tupleValues(v)
	if err != nil {
		return [32]byte{}, err
	}
	return c.HashTreeRootValues(vals)
}

func (c *Container) tupleValues(v value.Value) ([]value.Value, error) {
	switch t := v.(type) {
	case Tuple:
		return t.FieldValues(), nil
	case value.List:
		return t.Elems(), nil
	default:
		return nil, &KindError{Codec: "container", Want: value.KindRecord, Got: v.Kind()}
	}
}
