package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sszkit/sszkit/internal/sedes"
)

// FieldDecl declares one named field and the codec for its value.
type FieldDecl struct {
	Name  string
	Codec sedes.Sedes
}

// identifierPattern accepts names starting with a letter or underscore
// followed by letters, digits, or underscores. Non-ASCII letters are
// permitted; digit-leading and symbol-leading names are not.
var identifierPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// IsValidIdentifier reports whether name is usable as a field name.
func IsValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// ValidateFieldDecls checks one type's own declaration list before it
// is merged with any ancestry. Pure validation, no side effects.
func ValidateFieldDecls(fields []FieldDecl) error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	if dups := duplicates(names); len(dups) > 0 {
		return &SchemaError{
			Code:    ErrDuplicateField,
			Message: fmt.Sprintf("duplicate field names: %s", strings.Join(dups, ", ")),
		}
	}
	var invalid []string
	for _, n := range names {
		if !IsValidIdentifier(n) {
			invalid = append(invalid, fmt.Sprintf("%q", n))
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &SchemaError{
			Code:    ErrInvalidFieldName,
			Message: fmt.Sprintf("field names are not valid identifiers: %s", strings.Join(invalid, ", ")),
		}
	}
	return nil
}

// duplicates returns the sorted set of names appearing more than once.
func duplicates(names []string) []string {
	seen := make(map[string]int, len(names))
	for _, n := range names {
		seen[n]++
	}
	var dups []string
	for n, c := range seen {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	sort.Strings(dups)
	return dups
}
