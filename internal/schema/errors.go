package schema

import (
	"errors"
	"fmt"
)

// Schema error codes (S100-S109). Definition-time failures are fatal
// to type creation; no partially formed type is usable.
const (
	// ErrDuplicateField: a field name appears more than once in one
	// declaration list.
	ErrDuplicateField = "S100"

	// ErrInvalidFieldName: a field name is not a valid identifier.
	ErrInvalidFieldName = "S101"

	// ErrEmptyFields: a declared field list is empty, or the composite
	// codec rejected it.
	ErrEmptyFields = "S102"

	// ErrAmbiguousInheritance: multiple ancestors independently supply
	// field sets and the type declares none of its own.
	ErrAmbiguousInheritance = "S103"

	// ErrSlotCollision: a generated accessor would shadow a declared
	// member. Defensive; unreachable given the allocator's guarantee.
	ErrSlotCollision = "S104"
)

// SchemaError is a definition-time failure with a machine-readable
// code.
type SchemaError struct {
	Code    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("[%s] schema: %s", e.Code, e.Message)
}

// IsCode reports whether err is (or wraps) a SchemaError with the
// given code.
func IsCode(err error, code string) bool {
	var se *SchemaError
	return errors.As(err, &se) && se.Code == code
}
