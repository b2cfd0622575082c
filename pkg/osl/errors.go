// Package osl encodes scenes into the OpenRC scene layout (.osl).
package osl

import (
	"errors"
	"fmt"
)

// OSL format errors.
var (
	ErrMissingCamera = errors.New("scene has no camera")
	ErrRecordLayout  = errors.New("record does not match section layout")
	ErrNilRecord     = errors.New("nil record")
)

// IOError reports a failed write to the output sink.
type IOError struct {
	Op  string // what was being written, e.g. "camera" or "material count"
	Err error
}

func (e *IOError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("osl: write: %v", e.Err)
	}
	return fmt.Sprintf("osl: write %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sink error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ioError wraps err as an *IOError unless it already is one.
func ioError(op string, err error) error {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		if ioErr.Op == "" {
			return &IOError{Op: op, Err: ioErr.Err}
		}
		return err
	}
	return &IOError{Op: op, Err: err}
}
