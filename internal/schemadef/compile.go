package schemadef

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sszkit/sszkit/internal/record"
	"github.com/sszkit/sszkit/internal/schema"
	"github.com/sszkit/sszkit/internal/sedes"
)

// Set holds the compiled record types of one schema directory, in
// definition order.
type Set struct {
	names []string
	types map[string]*record.Type
}

// Names returns the type names in definition order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Lookup returns the compiled type for name.
func (s *Set) Lookup(name string) (*record.Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Len returns the number of compiled types.
func (s *Set) Len() int { return len(s.names) }

// CompileDefs compiles parsed definitions into record types. Types may
// reference each other as field codecs or ancestors; definitions are
// compiled in dependency order regardless of file order. Unresolvable
// or cyclic references fail compilation.
func CompileDefs(defs []TypeDef) (*Set, error) {
	byName := make(map[string]*TypeDef, len(defs))
	for i := range defs {
		d := &defs[i]
		if _, dup := byName[d.Name]; dup {
			return nil, &DefError{Type: d.Name, Message: "type defined more than once", Pos: d.Pos}
		}
		byName[d.Name] = d
	}

	set := &Set{types: make(map[string]*record.Type, len(defs))}
	resolve := func(name string) (sedes.Sedes, bool) {
		t, ok := set.types[name]
		return t, ok
	}

	pending := make([]*TypeDef, 0, len(defs))
	for i := range defs {
		pending = append(pending, &defs[i])
	}
	for len(pending) > 0 {
		progressed := false
		next := pending[:0]
		for _, d := range pending {
			if !depsReady(d, set.types, byName) {
				next = append(next, d)
				continue
			}
			t, err := compileDef(d, set.types, resolve)
			if err != nil {
				return nil, err
			}
			set.types[d.Name] = t
			set.names = append(set.names, d.Name)
			progressed = true
		}
		if !progressed {
			var unresolved []string
			for _, d := range next {
				unresolved = append(unresolved, d.Name)
			}
			sort.Strings(unresolved)
			return nil, &DefError{
				Type:    unresolved[0],
				Message: fmt.Sprintf("unresolvable or cyclic references among: %s", strings.Join(unresolved, ", ")),
				Pos:     byName[unresolved[0]].Pos,
			}
		}
		pending = next
	}
	return set, nil
}

// depsReady reports whether every type d references has been compiled.
// References to names with no definition at all are surfaced by
// compileDef with a precise position instead of stalling the loop.
func depsReady(d *TypeDef, compiled map[string]*record.Type, byName map[string]*TypeDef) bool {
	for _, f := range d.Fields {
		for _, ref := range codecRefs(f.Codec) {
			if _, ok := compiled[ref]; ok {
				continue
			}
			if _, defined := byName[ref]; defined {
				return false
			}
		}
	}
	for _, p := range d.Inherits {
		if _, ok := compiled[p]; ok {
			continue
		}
		if _, defined := byName[p]; defined {
			return false
		}
	}
	return true
}

func compileDef(d *TypeDef, compiled map[string]*record.Type, resolve resolver) (*record.Type, error) {
	var fields []schema.FieldDecl
	if d.Fields != nil {
		fields = make([]schema.FieldDecl, len(d.Fields))
		for i, f := range d.Fields {
			codec, err := parseCodecExpr(f.Codec, resolve)
			if err != nil {
				return nil, &DefError{Type: d.Name, Field: f.Name, Message: err.Error(), Pos: f.Pos}
			}
			fields[i] = schema.FieldDecl{Name: f.Name, Codec: codec}
		}
	}

	opts := make([]record.TypeOption, 0, 2)
	if len(d.Inherits) > 0 {
		parents := make([]*record.Type, len(d.Inherits))
		for i, p := range d.Inherits {
			parent, ok := compiled[p]
			if !ok {
				return nil, &DefError{Type: d.Name, Message: fmt.Sprintf("unknown ancestor %q", p), Pos: d.Pos}
			}
			parents[i] = parent
		}
		opts = append(opts, record.WithParents(parents...))
	}
	if len(d.Reserved) > 0 {
		opts = append(opts, record.WithReserved(d.Reserved...))
	}

	t, err := record.NewType(d.Name, fields, opts...)
	if err != nil {
		return nil, &DefError{Type: d.Name, Message: err.Error(), Pos: d.Pos}
	}
	return t, nil
}
