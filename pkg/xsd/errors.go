package xsd

import (
	"errors"
	"fmt"
)

// ErrEmpty signals that an entry has no value to contribute. It is not a
// failure by itself: encoders drop optional entries that report it.
var ErrEmpty = errors.New("no value")

// UnknownFieldError is returned by a strict Merge when the caller supplies
// a key the schema does not declare.
type UnknownFieldError struct {
	Path string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %s", e.Path)
}

// ValueError reports a value that cannot be used for a slot.
type ValueError struct {
	Path  string
	Value any
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %v", e.Value, e.Path, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
