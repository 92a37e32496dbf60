// Package builderr holds the error values returned by generated builders.
// Generated code imports it; it has no other dependencies.
package builderr

import (
	"errors"
	"fmt"
)

// ImportPath is the path generated files import this package from.
const ImportPath = "github.com/goliatone/go-buildergen/pkg/builderr"

// ErrMissingField matches every *MissingFieldError.
var ErrMissingField = errors.New("required field is not set")

// MissingFieldError is returned by a generated Build method when a required
// field was never set. Field is the first missing field in declaration order.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: field %s isn't set", e.Type, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Missing builds the error for an unset required field.
func Missing(typeName, field string) error {
	return &MissingFieldError{Type: typeName, Field: field}
}

// MissingField reports the name of the missing field carried by err.
func MissingField(err error) (string, bool) {
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		return "", false
	}
	return missing.Field, true
}
