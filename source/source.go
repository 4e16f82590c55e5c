// Package source turns a caller-supplied input string into text content.
//
// An input is either a URL, a path to an existing file, or the content
// itself. The Resolver decides which, loads the content through the matching
// Source implementation (source/http, source/s3, source/fs, source/bytes) and
// reports the outcome as a Descriptor. Sources only move bytes; parsing is
// left to the serializers.
package source

import (
	"context"

	"github.com/yacchi/iomap/format"
)

// Source loads raw document bytes.
type Source interface {
	// Load reads the document. The context carries cancellation and
	// deadlines; sources do not impose their own.
	Load(ctx context.Context) ([]byte, error)
}

// Kind tells where resolved content came from.
type Kind int

const (
	// KindLiteral means the input string was the content itself.
	KindLiteral Kind = iota
	// KindFile means the content was read from a local file.
	KindFile
	// KindURL means the content was fetched from a remote URL.
	KindURL
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Descriptor is the result of resolving an input.
type Descriptor struct {
	Kind Kind
	// Location is the path or URL the content was read from. Empty for
	// literal content.
	Location string
	// Content is the full text.
	Content string
	// Hint is the format suggested by the location's extension, if any.
	Hint format.Identifier
}
