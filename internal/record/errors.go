package record

import (
	"errors"
	"fmt"
	"strings"
)

// Construction error codes (S11x) and access error codes (S12x).
// Schema-definition codes (S10x) live in the schema package.
const (
	// ErrDuplicateArgument: a field received a value positionally and
	// again by name.
	ErrDuplicateArgument = "S110"

	// ErrUnknownArgument: a named argument matches no declared field.
	ErrUnknownArgument = "S111"

	// ErrMissingArgument: after merging positional and named
	// arguments, a field still lacks a value.
	ErrMissingArgument = "S112"

	// ErrIndexOutOfRange: positional or slice access past the field
	// count.
	ErrIndexOutOfRange = "S120"

	// ErrUnknownField: name-based access for an undeclared field.
	ErrUnknownField = "S121"
)

// ErrFieldless guards codec-facade operations on a type without
// fields. Defensive; a correctly compiled schema never routes codec
// calls to a fieldless type.
var ErrFieldless = errors.New("record: type declares no fields")

// ArgumentError aborts instance construction. No partially
// initialized instance escapes.
type ArgumentError struct {
	Code  string
	Names []string
}

func (e *ArgumentError) Error() string {
	var what string
	switch e.Code {
	case ErrDuplicateArgument:
		what = "duplicate arguments"
	case ErrUnknownArgument:
		what = "unknown arguments"
	case ErrMissingArgument:
		what = "missing arguments"
	default:
		what = "invalid arguments"
	}
	return fmt.Sprintf("[%s] record: %s: %s", e.Code, what, strings.Join(e.Names, ", "))
}

// AccessError reports out-of-range or unknown-name read access.
type AccessError struct {
	Code    string
	Message string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("[%s] record: %s", e.Code, e.Message)
}

// IsArgumentCode reports whether err is an ArgumentError with the
// given code.
func IsArgumentCode(err error, code string) bool {
	var ae *ArgumentError
	return errors.As(err, &ae) && ae.Code == code
}

// IsAccessCode reports whether err is an AccessError with the given
// code.
func IsAccessCode(err error, code string) bool {
	var ae *AccessError
	return errors.As(err, &ae) && ae.Code == code
}
