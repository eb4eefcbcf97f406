package soap

import (
	"fmt"
	"strings"

	"github.com/pyneda/simplesoap/pkg/xsd"
)

// EmptyError is the Empty signal of the encoder: the entry has nothing to
// contribute. Missing lists required descendants that caused it.
type EmptyError struct {
	Missing []string
}

func (e *EmptyError) Error() string {
	if len(e.Missing) == 0 {
		return xsd.ErrEmpty.Error()
	}
	return fmt.Sprintf("%s: missing %s", xsd.ErrEmpty, strings.Join(e.Missing, ", "))
}

func (e *EmptyError) Is(target error) bool {
	return target == xsd.ErrEmpty
}

// RequiredError reports required fields that have no value.
type RequiredError struct {
	Paths []string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("required field missing: %s", strings.Join(e.Paths, ", "))
}

// SchemaError reports a required entry whose type was referenced but never
// declared by any loaded document.
type SchemaError struct {
	Path string
	Type string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: type %s is not declared", e.Path, e.Type)
}

// DecodeError reports a response element that does not match its schema.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError is returned for a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, truncate(string(e.Body), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
