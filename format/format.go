// Package format defines the serializer contract shared by every supported
// document format, together with the normalized errors that serializers return.
//
// Each format lives in its own sub-package (format/json, format/yaml, ...) and
// wraps a single third-party or standard library codec. Whatever the codec
// reports, callers above this layer only ever see *FormatError.
package format

// Identifier names a serialization format.
type Identifier string

const (
	// JSON represents standard JSON (encoding/json, with optional JSONC input).
	JSON Identifier = "json"

	// YAML represents YAML (using gopkg.in/yaml.v3).
	YAML Identifier = "yaml"

	// TOML represents TOML (using github.com/pelletier/go-toml/v2).
	TOML Identifier = "toml"

	// XML represents XML (using github.com/clbanning/mxj/v2).
	XML Identifier = "xml"

	// INI represents INI files (using gopkg.in/ini.v1).
	INI Identifier = "ini"

	// QueryString represents application/x-www-form-urlencoded content.
	QueryString Identifier = "query_string"

	// Base64 represents a Base64 wrapped document (JSON by default).
	Base64 Identifier = "base64"

	// CSV represents comma separated rows with a header line.
	CSV Identifier = "csv"
)

// String implements fmt.Stringer.
func (id Identifier) String() string {
	return string(id)
}

// Serializer decodes content of one format into a mapping and encodes a
// mapping back into that format.
//
// Implementations are stateless: everything they need arrives through the
// per-call Options, so a Serializer may be shared between goroutines.
type Serializer interface {
	// Format returns the identifier of the format this serializer handles.
	Format() Identifier

	// Decode parses content and returns it as a string keyed mapping.
	// Any failure is reported as *FormatError, including content whose top
	// level value is not a mapping.
	Decode(content string, opts Options) (map[string]any, error)

	// Encode serializes data into this format.
	Encode(data map[string]any, opts Options) (string, error)
}

// DecodeFunc parses content into a mapping.
type DecodeFunc func(content string, opts Options) (map[string]any, error)

// EncodeFunc serializes a mapping into content.
type EncodeFunc func(data map[string]any, opts Options) (string, error)

// NewSerializer creates a Serializer from a decode and an encode function.
//
// Errors returned by either function that are not already *FormatError are
// wrapped into one, so every serializer built here honours the contract even
// when an adapter forgets to classify an error.
//
// Example:
//
//	s := format.NewSerializer(format.YAML, decodeYAML, encodeYAML)
func NewSerializer(id Identifier, decode DecodeFunc, encode EncodeFunc) Serializer {
	return &serializer{
		format: id,
		decode: decode,
		encode: encode,
	}
}

// serializer implements Serializer using the provided functions.
type serializer struct {
	format Identifier
	decode DecodeFunc
	encode EncodeFunc
}

// Ensure serializer implements the Serializer interface.
var _ Serializer = (*serializer)(nil)

// Format implements the Serializer interface.
func (s *serializer) Format() Identifier {
	return s.format
}

// Decode implements the Serializer interface.
func (s *serializer) Decode(content string, opts Options) (map[string]any, error) {
	data, err := s.decode(content, opts)
	if err != nil {
		return nil, Wrap(s.format, OpDecode, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// Encode implements the Serializer interface.
func (s *serializer) Encode(data map[string]any, opts Options) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	out, err := s.encode(data, opts)
	if err != nil {
		return "", Wrap(s.format, OpEncode, err)
	}
	return out, nil
}
