package iomap

import (
	"context"

	"go.uber.org/zap"

	"github.com/yacchi/iomap/decoder"
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"github.com/yacchi/iomap/source"
	fssrc "github.com/yacchi/iomap/source/fs"
)

// Map is a decoded document: string keys, with values that are strings,
// int64, float64, bool, nil, nested Maps (as map[string]any) or []any.
//
// A Map is an ordinary Go map. It is owned by the caller and is not safe for
// concurrent mutation.
type Map map[string]any

// FromMap returns a deep copy of m as a Map, with numbers and nested
// containers normalized the way decoded documents are.
func FromMap(m map[string]any) Map {
	return Map(maputil.NormalizeMap(maputil.DeepCopyMap(m)))
}

// Load resolves input and decodes it, detecting the format.
//
// A format suggested by a file or URL extension is tried first. If no
// format accepts the content, a *FormatError wrapping detect.ErrUndetectable
// is returned.
func Load(ctx context.Context, input string, opts ...Option) (Map, error) {
	_, m, err := Detect(ctx, input, opts...)
	return m, err
}

// Detect is Load, additionally reporting the format that accepted the content.
func Detect(ctx context.Context, input string, opts ...Option) (format.Identifier, Map, error) {
	return decode(ctx, "", input, newConfig(opts))
}

// From resolves input and decodes it as format id. No other format is tried.
func From(ctx context.Context, id format.Identifier, input string, opts ...Option) (Map, error) {
	_, m, err := decode(ctx, id, input, newConfig(opts))
	return m, err
}

func decode(ctx context.Context, id format.Identifier, input string, cfg *config) (format.Identifier, Map, error) {
	if id != "" {
		if _, err := cfg.registry.Lookup(id); err != nil {
			return "", nil, err
		}
	}

	desc, err := cfg.resolver().Resolve(ctx, input)
	if err != nil {
		return "", nil, err
	}

	got, data, err := cfg.detector().Decode(desc.Content, id, desc.Hint, cfg.opts)
	if err != nil {
		return "", nil, err
	}

	cfg.logger.Debug("decoded input",
		zap.Stringer("kind", desc.Kind),
		zap.String("location", desc.Location),
		zap.Stringer("format", got),
		zap.Int("keys", len(data)))
	return got, Map(data), nil
}

// FromJSON decodes JSON input.
func FromJSON(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.JSON, input, opts...)
}

// FromYAML decodes YAML input.
func FromYAML(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.YAML, input, opts...)
}

// FromTOML decodes TOML input.
func FromTOML(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.TOML, input, opts...)
}

// FromXML decodes XML input. The root element becomes the single top-level key.
func FromXML(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.XML, input, opts...)
}

// FromINI decodes INI input. Content must open with a section header. Keys
// in [DEFAULT] are top-level; every other section becomes a nested mapping.
func FromINI(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.INI, input, opts...)
}

// FromQueryString decodes a URL query string. A repeated key keeps its last value.
func FromQueryString(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.QueryString, input, opts...)
}

// FromBase64 decodes Base64 wrapped input, JSON unless the "subformat"
// option says otherwise.
func FromBase64(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.Base64, input, opts...)
}

// FromCSV decodes CSV input into {"values": [row, ...]}.
func FromCSV(ctx context.Context, input string, opts ...Option) (Map, error) {
	return From(ctx, format.CSV, input, opts...)
}

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	return Map(maputil.DeepCopyMap(m))
}

// To encodes m as format id. With WithFile the output is also written to disk;
// a failed write returns a *SourceError.
func (m Map) To(id format.Identifier, opts ...Option) (string, error) {
	cfg := newConfig(opts)

	s, err := cfg.registry.Lookup(id)
	if err != nil {
		return "", err
	}
	out, err := s.Encode(map[string]any(m), cfg.opts)
	if err != nil {
		return "", err
	}

	if cfg.file != "" {
		if err := fssrc.New(cfg.file).Save(context.Background(), []byte(out)); err != nil {
			return "", &source.SourceError{Location: cfg.file, Op: source.OpWrite, Err: err}
		}
		cfg.logger.Debug("wrote output", zap.String("path", cfg.file), zap.Stringer("format", id))
	}
	return out, nil
}

// ToJSON encodes m as JSON.
func (m Map) ToJSON(opts ...Option) (string, error) {
	return m.To(format.JSON, opts...)
}

// ToYAML encodes m as YAML.
func (m Map) ToYAML(opts ...Option) (string, error) {
	return m.To(format.YAML, opts...)
}

// ToTOML encodes m as TOML.
func (m Map) ToTOML(opts ...Option) (string, error) {
	return m.To(format.TOML, opts...)
}

// ToXML encodes m as XML. m must have exactly one key, the root element.
func (m Map) ToXML(opts ...Option) (string, error) {
	return m.To(format.XML, opts...)
}

// ToINI encodes m as INI. Nested mappings become sections, everything else
// goes to the default section as text.
func (m Map) ToINI(opts ...Option) (string, error) {
	return m.To(format.INI, opts...)
}

// ToQueryString encodes m as a URL query string.
func (m Map) ToQueryString(opts ...Option) (string, error) {
	return m.To(format.QueryString, opts...)
}

// ToBase64 encodes m as Base64 wrapped JSON, or the "subformat" option.
func (m Map) ToBase64(opts ...Option) (string, error) {
	return m.To(format.Base64, opts...)
}

// ToCSV encodes the rows under the "values" key as CSV.
func (m Map) ToCSV(opts ...Option) (string, error) {
	return m.To(format.CSV, opts...)
}

// Decode copies m into target, a pointer to a struct or map, matching
// `mapstructure` tags with weak typing.
func (m Map) Decode(target any) error {
	return m.DecodeWith(decoder.Mapstructure, target)
}

// DecodeWith copies m into target using fn, e.g. decoder.JSON or
// decoder.MapstructureTag("json"). A nil fn falls back to Decode.
func (m Map) DecodeWith(fn decoder.Func, target any) error {
	if fn == nil {
		fn = decoder.Mapstructure
	}
	return fn(m, target)
}
