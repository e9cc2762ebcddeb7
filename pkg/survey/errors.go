package survey

import (
	"errors"
	"fmt"
)

var ErrSchema = errors.New("survey schema mismatch")

// SchemaError reports a source whose header does not satisfy the columns a
// conversion needs. It is returned before any row is read.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%v: %s", ErrSchema, e.Reason)
	}
	return fmt.Sprintf("%v: column %q %s", ErrSchema, e.Column, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
