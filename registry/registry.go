// Package registry holds the ordered catalogue of serializers.
//
// Registration order is significant: it is the order in which the
// autodetector tries formats. Formats whose grammar accepts almost any text
// (INI, YAML) come last so that stricter formats get the first chance.
package registry

import (
	"fmt"
	"strings"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/format/base64"
	"github.com/yacchi/iomap/format/csv"
	"github.com/yacchi/iomap/format/ini"
	"github.com/yacchi/iomap/format/json"
	"github.com/yacchi/iomap/format/querystring"
	"github.com/yacchi/iomap/format/toml"
	"github.com/yacchi/iomap/format/xml"
	"github.com/yacchi/iomap/format/yaml"
)

// builtin declares a default entry. newSerializer receives the lookup of the
// registry being built so wrapping formats can reach their subformats.
type builtin struct {
	id            format.Identifier
	extensions    []string
	undetectable  bool
	newSerializer func(lookup base64.LookupFunc) format.Serializer
}

// builtins is the default catalogue in detection order. CSV is undetectable:
// every text is a valid one column CSV.
var builtins = []builtin{
	{id: format.JSON, extensions: []string{".json"}, newSerializer: plain(json.New)},
	{id: format.Base64, extensions: []string{".base64", ".b64"}, newSerializer: base64.New},
	{id: format.QueryString, extensions: []string{".qs"}, newSerializer: plain(querystring.New)},
	{id: format.TOML, extensions: []string{".toml"}, newSerializer: plain(toml.New)},
	{id: format.XML, extensions: []string{".xml"}, newSerializer: plain(xml.New)},
	{id: format.INI, extensions: []string{".ini", ".cfg"}, newSerializer: plain(ini.New)},
	{id: format.YAML, extensions: []string{".yaml", ".yml"}, newSerializer: plain(yaml.New)},
	{id: format.CSV, extensions: []string{".csv"}, undetectable: true, newSerializer: plain(csv.New)},
}

func plain(fn func() format.Serializer) func(base64.LookupFunc) format.Serializer {
	return func(base64.LookupFunc) format.Serializer { return fn() }
}

// DetectionOrder returns the order in which the default registry tries
// formats during autodetection.
func DetectionOrder() []format.Identifier {
	out := make([]format.Identifier, 0, len(builtins))
	for _, b := range builtins {
		if !b.undetectable {
			out = append(out, b.id)
		}
	}
	return out
}

// Entry binds a serializer to its identifier and file extensions.
type Entry struct {
	Format     format.Identifier
	Serializer format.Serializer
	// Extensions lists file extensions (with leading dot) mapped to Format.
	Extensions []string
	// Undetectable excludes the entry from autodetection.
	Undetectable bool
}

// Registry is an immutable, ordered set of serializers.
// It is safe for concurrent use.
type Registry struct {
	entries []Entry
	byID    map[format.Identifier]int
	byExt   map[string]format.Identifier
}

// New creates a registry from entries, in the given order.
// Duplicate identifiers or extensions are rejected.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		byID:  make(map[format.Identifier]int, len(entries)),
		byExt: make(map[string]format.Identifier),
	}
	for _, e := range entries {
		if err := r.add(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(e Entry) error {
	if e.Format == "" {
		return fmt.Errorf("registry: empty format identifier")
	}
	if e.Serializer == nil {
		return fmt.Errorf("registry: nil serializer for %q", e.Format)
	}
	if _, ok := r.byID[e.Format]; ok {
		return fmt.Errorf("registry: duplicate format %q", e.Format)
	}
	for _, ext := range e.Extensions {
		key := normalizeExt(ext)
		if other, ok := r.byExt[key]; ok {
			return fmt.Errorf("registry: extension %q already mapped to %q", ext, other)
		}
		r.byExt[key] = e.Format
	}
	r.byID[e.Format] = len(r.entries)
	r.entries = append(r.entries, e)
	return nil
}

// Default returns a registry with every built-in serializer, in detection
// order, followed by CSV.
func Default() *Registry {
	r := &Registry{
		byID:  make(map[format.Identifier]int),
		byExt: make(map[string]format.Identifier),
	}
	for _, b := range builtins {
		e := Entry{
			Format:       b.id,
			Serializer:   b.newSerializer(r.Lookup),
			Extensions:   b.extensions,
			Undetectable: b.undetectable,
		}
		if err := r.add(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the serializer registered for id.
func (r *Registry) Lookup(id format.Identifier) (format.Serializer, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, &format.UnknownFormatError{Format: id}
	}
	return r.entries[i].Serializer, nil
}

// ByExtension returns the format mapped to a file extension. The lookup is
// case-insensitive and the leading dot is optional.
func (r *Registry) ByExtension(ext string) (format.Identifier, bool) {
	if ext == "" || ext == "." {
		return "", false
	}
	id, ok := r.byExt[normalizeExt(ext)]
	return id, ok
}

// Detectable returns the entries that take part in autodetection, in order.
func (r *Registry) Detectable() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.Undetectable {
			out = append(out, e)
		}
	}
	return out
}

// Formats returns every registered identifier in registration order.
func (r *Registry) Formats() []format.Identifier {
	out := make([]format.Identifier, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Format
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
