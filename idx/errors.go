package idx

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput is returned when fewer bytes remain than the header promises.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidHeader is returned when the header describes an impossible geometry.
	ErrInvalidHeader = errors.New("invalid header")
)

// IOError indicates that a dataset file could not be opened or read.
//
// The original underlying error can be accessed via errors.Unwrap.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("idx: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("idx: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
