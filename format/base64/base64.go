// Package base64 provides a serializer for documents wrapped in standard
// Base64. The payload is decoded with another serializer, JSON by default.
package base64

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/format/json"
)

// OptSubformat names the format of the wrapped payload.
const OptSubformat = "subformat"

// ErrNotText is wrapped when the decoded payload is not valid UTF-8.
var ErrNotText = errors.New("decoded payload is not UTF-8 text")

// LookupFunc resolves the serializer for a payload format.
type LookupFunc func(id format.Identifier) (format.Serializer, error)

// New creates the Base64 serializer.
//
// lookup resolves the "subformat" option; when lookup is nil only JSON
// payloads are supported. Every other option is forwarded to the payload
// serializer.
//
// Example:
//
//	s := base64.New(reg.Lookup)
//	data, err := s.Decode("eyJhIjogMX0", format.Options{"subformat": "json"})
func New(lookup LookupFunc) format.Serializer {
	b := &serializer{lookup: lookup}
	return format.NewSerializer(format.Base64, b.decode, b.encode)
}

type serializer struct {
	lookup LookupFunc
}

func (b *serializer) payload(opts format.Options) (format.Serializer, error) {
	id := format.Identifier(opts.String(OptSubformat, string(format.JSON)))
	if id == format.Base64 {
		return nil, &format.UnknownFormatError{Format: id}
	}
	if b.lookup == nil {
		if id != format.JSON {
			return nil, &format.UnknownFormatError{Format: id}
		}
		return json.New(), nil
	}
	return b.lookup(id)
}

func (b *serializer) decode(content string, opts format.Options) (map[string]any, error) {
	inner, err := b.payload(opts)
	if err != nil {
		return nil, err
	}

	raw, err := DecodeString(content)
	if err != nil {
		return nil, format.Wrap(format.Base64, format.OpDecode, err)
	}
	if !utf8.Valid(raw) {
		return nil, format.Wrap(format.Base64, format.OpDecode, ErrNotText)
	}

	data, err := inner.Decode(string(raw), opts)
	if err != nil {
		return nil, &format.FormatError{Format: format.Base64, Op: format.OpDecode, Err: err}
	}
	return data, nil
}

func (b *serializer) encode(data map[string]any, opts format.Options) (string, error) {
	inner, err := b.payload(opts)
	if err != nil {
		return "", err
	}

	s, err := inner.Encode(data, opts)
	if err != nil {
		return "", &format.FormatError{Format: format.Base64, Op: format.OpEncode, Err: err}
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

// DecodeString decodes standard Base64, ignoring whitespace and accepting
// input with or without padding.
func DecodeString(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, errors.New("empty input")
	}
	s = strings.TrimRight(s, "=")
	return base64.RawStdEncoding.DecodeString(s)
}
