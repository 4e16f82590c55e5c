// Package ini provides the INI serializer backed by gopkg.in/ini.v1.
//
// A document has one default section plus any number of named sections.
// Default section options map to top-level keys and every named section maps
// to a nested mapping. INI stores text only: on decode each value is
// recovered as the first of int64, float64, bool or string that parses, and
// on encode every value is written in its plain string form. A round trip is
// therefore lossy for strings that look like numbers or booleans.
package ini

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"github.com/yacchi/iomap/typeutil"
	"gopkg.in/ini.v1"
)

// Option keys recognized by this serializer.
const (
	// OptDelimiters lists the characters accepted between key and value.
	OptDelimiters = "delimiters"
	// OptInsensitiveKeys lower-cases option names on decode.
	OptInsensitiveKeys = "insensitive_keys"
	// OptAllowBooleanKeys accepts options without a value (decoded as true).
	OptAllowBooleanKeys = "allow_boolean_keys"
)

const defaultDelimiters = "=:"

// DefaultSection is the header naming the default section.
var DefaultSection = ini.DefaultSection

// ErrMissingSectionHeader is wrapped when an option appears before any section header.
var ErrMissingSectionHeader = errors.New("file contains no section headers")

// booleanStates are the textual booleans recognized on decode.
var booleanStates = map[string]bool{
	"1": true, "yes": true, "true": true, "on": true,
	"0": false, "no": false, "false": false, "off": false,
}

// New creates the INI serializer.
//
// Recognized options: "delimiters" (default "=:"), "insensitive_keys" and
// "allow_boolean_keys".
func New() format.Serializer {
	return format.NewSerializer(format.INI, Decode, Encode)
}

// Decode parses INI content into a two level mapping.
func Decode(content string, opts format.Options) (map[string]any, error) {
	if err := checkSectionHeader(content); err != nil {
		return nil, format.Wrap(format.INI, format.OpDecode, err)
	}

	f, err := ini.LoadSources(loadOptions(opts), []byte(content))
	if err != nil {
		return nil, format.Wrap(format.INI, format.OpDecode, err)
	}

	data := make(map[string]any)
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			for _, key := range sec.Keys() {
				data[key.Name()] = RecoverValue(key.Value())
			}
			continue
		}
		options := make(map[string]any, len(sec.Keys()))
		for _, key := range sec.Keys() {
			options[key.Name()] = RecoverValue(key.Value())
		}
		data[sec.Name()] = options
	}
	return data, nil
}

// Encode serializes data as INI. Keys whose value is a mapping become named
// sections; all other keys are written to the default section.
func Encode(data map[string]any, opts format.Options) (string, error) {
	f := ini.Empty(loadOptions(opts))
	def := f.Section(ini.DefaultSection)

	for _, key := range maputil.SortedKeys(data) {
		value := data[key]
		options, ok := maputil.AsMap(value)
		if !ok {
			if _, err := def.NewKey(key, typeutil.ToString(value)); err != nil {
				return "", format.Wrap(format.INI, format.OpEncode, err)
			}
			continue
		}

		sec, err := f.NewSection(key)
		if err != nil {
			return "", format.Wrap(format.INI, format.OpEncode, err)
		}
		for _, name := range maputil.SortedKeys(options) {
			if _, err := sec.NewKey(name, typeutil.ToString(options[name])); err != nil {
				return "", format.Wrap(format.INI, format.OpEncode, err)
			}
		}
	}

	var buf bytes.Buffer
	if len(def.Keys()) > 0 {
		buf.WriteString("[" + ini.DefaultSection + "]\n")
	}
	if _, err := f.WriteTo(&buf); err != nil {
		return "", format.Wrap(format.INI, format.OpEncode, err)
	}
	return buf.String(), nil
}

// RecoverValue returns the typed value a textual option most likely held,
// trying integer, float and boolean before falling back to the raw string.
func RecoverValue(s string) any {
	v := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, ok := booleanStates[strings.ToLower(v)]; ok {
		return b
	}
	return s
}

func loadOptions(opts format.Options) ini.LoadOptions {
	return ini.LoadOptions{
		KeyValueDelimiters:         opts.String(OptDelimiters, defaultDelimiters),
		InsensitiveKeys:            opts.Bool(OptInsensitiveKeys, false),
		AllowBooleanKeys:           opts.Bool(OptAllowBooleanKeys, false),
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
	}
}

// checkSectionHeader requires the first option to be preceded by a section
// header; content without any option passes. Otherwise any "key: value"
// text, YAML included, would load as default section options.
func checkSectionHeader(content string) error {
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		if line[0] == '[' && strings.HasSuffix(line, "]") && len(line) > 2 {
			return nil
		}
		return ErrMissingSectionHeader
	}
	return sc.Err()
}
