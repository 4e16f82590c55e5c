// Package toml provides the TOML serializer backed by github.com/pelletier/go-toml/v2.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
)

// Option keys recognized by this serializer.
const (
	// OptIndentTables indents nested tables and array tables.
	OptIndentTables = "indent_tables"
	// OptArraysMultiline writes every array on multiple lines.
	OptArraysMultiline = "arrays_multiline"
)

// ErrNull is wrapped when a mapping holds a nil value; TOML has no null.
var ErrNull = errors.New("TOML does not support null values")

var tomlUnmarshal = toml.Unmarshal

// New creates the TOML serializer.
//
// Recognized options: "indent", "indent_tables" and "arrays_multiline" (encode).
func New() format.Serializer {
	return format.NewSerializer(format.TOML, Decode, Encode)
}

// Decode parses TOML content into a mapping.
// Returns an empty mapping if content is empty.
//
// Local dates and times, which have no zone, are returned in their textual
// form; offset date-times are returned as time.Time.
func Decode(content string, _ format.Options) (map[string]any, error) {
	var result map[string]any
	if err := tomlUnmarshal([]byte(content), &result); err != nil {
		return nil, format.Wrap(format.TOML, format.OpDecode, err)
	}
	if result == nil {
		return map[string]any{}, nil
	}
	return maputil.NormalizeMap(localTimesToString(result).(map[string]any)), nil
}

// Encode serializes data as TOML.
func Encode(data map[string]any, opts format.Options) (string, error) {
	if err := checkNilMap("", data); err != nil {
		return "", format.Wrap(format.TOML, format.OpEncode, err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(opts.Bool(OptIndentTables, false))
	enc.SetArraysMultiline(opts.Bool(OptArraysMultiline, false))
	if indent := opts.Int(format.OptIndent, 0); indent > 0 {
		enc.SetIndentSymbol(strings.Repeat(" ", indent))
		enc.SetIndentTables(true)
	}
	if err := enc.Encode(data); err != nil {
		return "", format.Wrap(format.TOML, format.OpEncode, err)
	}
	return buf.String(), nil
}

func localTimesToString(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			t[k] = localTimesToString(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = localTimesToString(vv)
		}
		return t
	case toml.LocalDate:
		return t.String()
	case toml.LocalTime:
		return t.String()
	case toml.LocalDateTime:
		return t.String()
	}
	return v
}

func checkNilMap(path string, m map[string]any) error {
	for k, v := range m {
		p := k
		if path != "" {
			p = path + "." + k
		}
		if err := checkNilValue(p, v); err != nil {
			return err
		}
	}
	return nil
}

func checkNilValue(path string, v any) error {
	switch vv := v.(type) {
	case nil:
		return fmt.Errorf("%w (at %q)", ErrNull, path)
	case map[string]any:
		return checkNilMap(path, vv)
	case []any:
		for i, elem := range vv {
			if err := checkNilValue(path+"["+strconv.Itoa(i)+"]", elem); err != nil {
				return err
			}
		}
	}
	return nil
}
