package iomap

import (
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/source"
)

// FormatError is returned when content cannot be decoded as, or a mapping
// cannot be encoded to, a format. See format.FormatError.
type FormatError = format.FormatError

// SourceError is returned when an input cannot be read or fetched, or an
// output file cannot be written. See source.SourceError.
type SourceError = source.SourceError

// UnknownFormatError is returned for a format identifier that is not
// registered.
type UnknownFormatError = format.UnknownFormatError
