package dataset

import (
	"errors"
	"fmt"
)

var ErrWrite = errors.New("writing feature dataset")

// WriteError reports an output that could not be created or written. The
// destination is left in an undefined state.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
