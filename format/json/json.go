// Package json provides the JSON serializer.
//
// Decoding uses encoding/json with json.Number so integers survive as int64.
// With the "comments" option, input is first standardized with
// github.com/tailscale/hujson, which accepts comments and trailing commas.
//
// Encoding mimics the separators most JSON tooling uses for compact output
// (", " and ": "), or indents when the "indent" option is set.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"github.com/yacchi/iomap/typeutil"
)

// Option keys recognized by this serializer.
const (
	// OptComments enables JSONC input (comments and trailing commas).
	OptComments = "comments"
	// OptEscapeHTML escapes <, > and & inside strings when encoding.
	OptEscapeHTML = "escape_html"
)

// New creates the JSON serializer.
//
// Recognized options: "comments" (decode), "indent", "sort_keys" and
// "escape_html" (encode). Keys are always written in sorted order.
func New() format.Serializer {
	return format.NewSerializer(format.JSON, Decode, Encode)
}

// Decode parses JSON content into a mapping.
//
// The root value must be a JSON object. Empty/whitespace input is treated as
// an empty object.
func Decode(content string, opts format.Options) (map[string]any, error) {
	data := []byte(strings.TrimSpace(content))
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	if opts.Bool(OptComments, false) {
		v, err := hujson.Parse(data)
		if err != nil {
			return nil, format.Wrap(format.JSON, format.OpDecode, err)
		}
		v.Standardize()
		data = v.Pack()
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, format.Wrap(format.JSON, format.OpDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, format.Errorf(format.JSON, format.OpDecode, "unexpected data after top-level value")
	}

	if root == nil {
		return map[string]any{}, nil
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, format.Wrap(format.JSON, format.OpDecode, fmt.Errorf("%w: got %T", format.ErrNotMapping, root))
	}
	return maputil.NormalizeMap(obj), nil
}

// Encode serializes data as JSON.
func Encode(data map[string]any, opts format.Options) (string, error) {
	raw, err := Marshal(data, opts.Bool(OptEscapeHTML, false))
	if err != nil {
		return "", format.Wrap(format.JSON, format.OpEncode, err)
	}

	if indent := opts.Int(format.OptIndent, 0); indent > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", strings.Repeat(" ", indent)); err != nil {
			return "", format.Wrap(format.JSON, format.OpEncode, err)
		}
		return buf.String(), nil
	}
	return string(spaceSeparators(raw)), nil
}

// Marshal encodes v as compact JSON with sorted keys after converting values
// that encoding/json cannot represent. Other serializers wrapping JSON
// (base64) share it.
func Marshal(v any, escapeHTML bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(escapeHTML)
	if err := enc.Encode(prepare(v)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// prepare replaces values without a JSON representation by their string form.
func prepare(v any) any {
	switch val := v.(type) {
	case json.Number, json.Marshaler:
		return val
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = prepare(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = prepare(elem)
		}
		return out
	}

	switch {
	case typeutil.IsNone(v):
		return nil
	case typeutil.IsFloat(v):
		return floatNumber(reflect.ValueOf(v).Float())
	case typeutil.IsBool(v), typeutil.IsInteger(v), typeutil.IsString(v):
		return v
	case typeutil.IsDatetime(v), typeutil.IsRegex(v), typeutil.IsDecimal(v):
		return typeutil.ToString(v)
	case typeutil.IsSet(v):
		rv := reflect.ValueOf(v)
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, typeutil.ToString(k.Interface()))
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out
	case typeutil.IsMap(v):
		rv := reflect.ValueOf(v)
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[typeutil.ToString(iter.Key().Interface())] = prepare(iter.Value().Interface())
		}
		return out
	case typeutil.IsListOrTuple(v):
		rv := reflect.ValueOf(v)
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = prepare(rv.Index(i).Interface())
		}
		return out
	}
	return typeutil.ToString(v)
}

// floatNumber keeps whole floats distinguishable from integers by writing
// them with a fractional part.
func floatNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1e21 {
		return f
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64) + ".0")
}

// spaceSeparators inserts a space after every ',' and ':' that is not part
// of a string literal in compact JSON.
func spaceSeparators(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+len(raw)/4)
	inString := false
	escaped := false
	for _, c := range raw {
		out = append(out, c)
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == ',' || c == ':':
			out = append(out, ' ')
		}
	}
	return out
}
