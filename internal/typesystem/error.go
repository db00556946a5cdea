package typesystem

import (
	"errors"
	"fmt"
)

// MalformedTypeError indicates a type value violates a construction invariant,
// e.g. a required parameter following an optional one.
type MalformedTypeError struct {
	Construct string // "function", "tuple", "object", "union", "declaration"
	Reason    string
}

func (e *MalformedTypeError) Error() string {
	return fmt.Sprintf("malformed %s type: %s", e.Construct, e.Reason)
}

func NewMalformedTypeError(construct, format string, args ...interface{}) *MalformedTypeError {
	return &MalformedTypeError{Construct: construct, Reason: fmt.Sprintf(format, args...)}
}

// IsMalformed reports whether err (or anything it wraps) is a MalformedTypeError.
func IsMalformed(err error) bool {
	var mt *MalformedTypeError
	return errors.As(err, &mt)
}

// UnresolvedTypeError indicates a named type reference has no definition.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}
