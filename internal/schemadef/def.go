package schemadef

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/sszkit/sszkit/internal/sedes"
)

// TypeDef is one record-type definition as written in a schema file,
// before compilation.
type TypeDef struct {
	Name     string
	Fields   []FieldSpec // nil when the definition inherits its fields
	Inherits []string
	Reserved []string
	Pos      token.Pos
}

// FieldSpec pairs a field name with a codec expression.
type FieldSpec struct {
	Name  string
	Codec string
	Pos   token.Pos
}

// DefError reports a malformed or uncompilable definition, with the
// source position when one is known.
type DefError struct {
	Type    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DefError) Error() string {
	where := e.Type
	if e.Field != "" {
		where = e.Type + "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// resolver looks up a previously compiled record type by name for use
// as a field codec.
type resolver func(name string) (sedes.Sedes, bool)

// parseCodecExpr turns a codec expression into a codec. Grammar:
//
//	uint8 | uint16 | uint32 | uint64
//	bool
//	bytes            variable-length byte string
//	bytes<N>         e.g. bytes32, fixed-length byte vector
//	list<expr>       homogeneous list of expr
//	<TypeName>       reference to another record definition
func parseCodecExpr(expr string, resolve resolver) (sedes.Sedes, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "":
		return nil, fmt.Errorf("empty codec expression")
	case "bool":
		return sedes.NewBoolean(), nil
	case "bytes":
		return sedes.NewByteList(), nil
	case "uint8", "uint16", "uint32", "uint64":
		bits, _ := strconv.Atoi(expr[4:])
		return sedes.NewUintN(bits)
	}
	if strings.HasPrefix(expr, "list<") && strings.HasSuffix(expr, ">") {
		inner := expr[len("list<") : len(expr)-1]
		elem, err := parseCodecExpr(inner, resolve)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return sedes.NewList(elem), nil
	}
	if strings.HasPrefix(expr, "bytes") {
		n, err := strconv.Atoi(expr[len("bytes"):])
		if err != nil {
			return nil, fmt.Errorf("unknown codec expression %q", expr)
		}
		return sedes.NewByteVector(n)
	}
	if s, ok := resolve(expr); ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown codec or type reference %q", expr)
}

// codecRefs returns the record-type names an expression references,
// for dependency ordering.
func codecRefs(expr string) []string {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "bool", "bytes", "uint8", "uint16", "uint32", "uint64":
		return nil
	}
	if strings.HasPrefix(expr, "list<") && strings.HasSuffix(expr, ">") {
		return codecRefs(expr[len("list<") : len(expr)-1])
	}
	if strings.HasPrefix(expr, "bytes") {
		if _, err := strconv.Atoi(expr[len("bytes"):]); err == nil {
			return nil
		}
	}
	return []string{expr}
}
