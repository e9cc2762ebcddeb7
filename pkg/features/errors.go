package features

import (
	"errors"
	"fmt"
)

var ErrEncoding = errors.New("unknown categorical level")

// EncodingError is returned under the Strict policy for a non-null level that
// is not part of the column's encoding.
type EncodingError struct {
	Column string
	Value  string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v: column %q value %q", ErrEncoding, e.Column, e.Value)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
