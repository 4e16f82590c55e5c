// Package bytes provides the source for inline content passed in place of a
// path or URL.
package bytes

import (
	"bytes"
	"context"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source serves inline content.
type Source struct {
	data []byte
}

// New creates a source from raw bytes.
//
// Example:
//
//	src := bytes.New([]byte("server:\n  port: 8080"))
func New(data []byte) *Source {
	return &Source{data: data}
}

// FromString creates a source from a string.
func FromString(data string) *Source {
	return New([]byte(data))
}

// Len returns the size of the content in bytes.
func (s *Source) Len() int {
	return len(s.data)
}

// Load returns a copy of the content without a leading UTF-8 byte order mark.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimPrefix(s.data, utf8BOM)), nil
}
