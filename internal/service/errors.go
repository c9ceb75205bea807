package service

import (
	"errors"
	"fmt"
)

// ErrNotFound marks absent buckets, objects and references. Callers surface it
// as a warning, not a hard fault.
var ErrNotFound = errors.New("not found")

// ErrDedupRetryExhausted is the terminal concurrency error raised when the
// lookup-or-insert dedup loop loses too many races in a row.
var ErrDedupRetryExhausted = errors.New("dedup retry attempts exhausted")

// ValidationError reports malformed or missing input. Nothing has been
// mutated when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
