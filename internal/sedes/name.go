package sedes

import "fmt"

// Namer is implemented by codecs that carry a stable textual name,
// used when rendering canonical schema text.
type Namer interface {
	SedesName() string
}

// Name returns the canonical textual name of a codec.
func Name(s Sedes) string {
	if n, ok := s.(Namer); ok {
		return n.SedesName()
	}
	return "opaque"
}

// SedesName implements Namer.
func (s *UintN) SedesName() string { return fmt.Sprintf("uint%d", s.bits) }

// SedesName implements Namer.
func (s *Boolean) SedesName() string { return "bool" }

// SedesName implements Namer.
func (s *ByteVector) SedesName() string { return fmt.Sprintf("bytes%d", s.size) }

// SedesName implements Namer.
func (s *ByteList) SedesName() string { return "bytes" }

// SedesName implements Namer.
func (s *List) SedesName() string { return "list<" + Name(s.elem) + ">" }

// SedesName implements Namer.
func (c *Container) SedesName() string { return "container" }
