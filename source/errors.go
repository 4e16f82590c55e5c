package source

import (
	"errors"
	"fmt"
)

// Op names the I/O operation that failed.
type Op string

const (
	OpRead  Op = "read"
	OpFetch Op = "fetch"
	OpWrite Op = "write"
)

// ErrNotText is wrapped when loaded bytes are not text.
var ErrNotText = errors.New("content is not text")

// SourceError is returned when an input or output location cannot be
// accessed: a missing or unreadable file, a failed or non-2xx fetch, or a
// failed write.
type SourceError struct {
	Location string
	Op       Op
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Location, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
