package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sszkit/sszkit/internal/sedes"
)

// DomainSchema is the domain prefix for schema-hash computation. The
// version suffix leaves room for algorithm migration.
const DomainSchema = "sszkit/schema/v1"

// Descriptor is the compiled, immutable metadata for one record type.
// Built exactly once, at type definition time.
type Descriptor struct {
	// HasFields reports whether the type (or an ancestor) declares
	// fields. When false every other member is zero.
	HasFields bool

	// Fields is the ordered declaration list.
	Fields []FieldDecl

	// Container is the composite codec built from Fields.
	Container *sedes.Container

	// FieldNames is the ordered projection of Fields.
	FieldNames []string

	// StorageSlots holds the collision-free internal slot per field,
	// index-aligned with FieldNames.
	StorageSlots []string
}

// NewDescriptor assembles a descriptor for a field-bearing type.
// Fields must already be validated and the slots allocated; the
// invariant len(Fields) == len(FieldNames) == len(StorageSlots) holds
// by construction.
func NewDescriptor(fields []FieldDecl, container *sedes.Container, slots []string) *Descriptor {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return &Descriptor{
		HasFields:    true,
		Fields:       append([]FieldDecl(nil), fields...),
		Container:    container,
		FieldNames:   names,
		StorageSlots: append([]string(nil), slots...),
	}
}

// EmptyDescriptor returns the descriptor for a fieldless type.
func EmptyDescriptor() *Descriptor {
	return &Descriptor{}
}

// SlotIndex returns the declaration index for a field name, or -1.
func (d *Descriptor) SlotIndex(name string) int {
	for i, n := range d.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Canonical renders the descriptor as stable text: one "name: codec"
// line per field in declaration order, field names NFC-normalized so
// visually identical Unicode spellings hash alike.
func (d *Descriptor) Canonical(typeName string) string {
	var sb strings.Builder
	sb.WriteString(norm.NFC.String(typeName))
	sb.WriteString(" record{\n")
	for _, f := range d.Fields {
		sb.WriteString("  ")
		sb.WriteString(norm.NFC.String(f.Name))
		sb.WriteString(": ")
		sb.WriteString(sedes.Name(f.Codec))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Hash computes the domain-separated SHA-256 of the canonical text.
// The null byte separator prevents domain/payload boundary ambiguity.
func (d *Descriptor) Hash(typeName string) string {
	h := sha256.New()
	h.Write([]byte(DomainSchema))
	h.Write([]byte{0x00})
	h.Write([]byte(d.Canonical(typeName)))
	return hex.EncodeToString(h.Sum(nil))
}
