package format

import (
	"errors"
	"fmt"
)

// Op names the serializer operation that failed.
type Op string

const (
	// OpDecode is reported for failures while parsing content.
	OpDecode Op = "decode"
	// OpEncode is reported for failures while serializing a mapping.
	OpEncode Op = "encode"
)

// ErrNotMapping is wrapped by FormatError when content parses successfully
// but its top level value is not a mapping.
var ErrNotMapping = errors.New("top level value is not a mapping")

// FormatError is returned when content cannot be interpreted as a format, or
// when a mapping cannot be represented in it.
//
// Format is empty when no particular format was requested and autodetection
// exhausted every candidate.
type FormatError struct {
	Format Identifier
	Op     Op
	Err    error
}

func (e *FormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("failed to %s content: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Format, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Wrap converts err into a *FormatError for the given format and operation.
// An error that already is a *FormatError is returned unchanged; nil stays nil.
func Wrap(id Identifier, op Op, err error) error {
	if err == nil {
		return nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return &FormatError{Format: id, Op: op, Err: err}
}

// Errorf creates a *FormatError with a formatted cause.
func Errorf(id Identifier, op Op, msg string, args ...any) error {
	return &FormatError{Format: id, Op: op, Err: fmt.Errorf(msg, args...)}
}

// UnknownFormatError is returned when a format identifier is not registered.
type UnknownFormatError struct {
	Format Identifier
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format: %q", string(e.Format))
}
