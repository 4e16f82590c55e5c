// Package yaml provides the YAML serializer backed by gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"gopkg.in/yaml.v3"
)

const defaultIndent = 2

// New creates the YAML serializer.
//
// Recognized options: "indent" (encode, default 2).
func New() format.Serializer {
	return format.NewSerializer(format.YAML, Decode, Encode)
}

// Decode parses YAML content into a mapping. Only the first document of a
// stream is read. Empty input is treated as an empty mapping.
func Decode(content string, _ format.Options) (map[string]any, error) {
	var root any
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return nil, format.Wrap(format.YAML, format.OpDecode, err)
	}

	if root == nil {
		return map[string]any{}, nil
	}

	switch root.(type) {
	case map[string]any, map[any]any:
	default:
		return nil, format.Wrap(format.YAML, format.OpDecode, fmt.Errorf("%w: got %T", format.ErrNotMapping, root))
	}
	return maputil.Normalize(root).(map[string]any), nil
}

// Encode serializes data as YAML.
func Encode(data map[string]any, opts format.Options) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(opts.Int(format.OptIndent, defaultIndent))
	if err := enc.Encode(markFloats(data)); err != nil {
		return "", format.Wrap(format.YAML, format.OpEncode, err)
	}
	if err := enc.Close(); err != nil {
		return "", format.Wrap(format.YAML, format.OpEncode, err)
	}
	return buf.String(), nil
}

// wholeFloat is emitted with a fractional part so it decodes back as a float.
type wholeFloat float64

func (f wholeFloat) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: strconv.FormatFloat(float64(f), 'f', -1, 64) + ".0",
	}, nil
}

func markFloats(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = markFloats(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = markFloats(elem)
		}
		return out
	case float64:
		if !math.IsNaN(val) && !math.IsInf(val, 0) && val == math.Trunc(val) && math.Abs(val) < 1e21 {
			return wholeFloat(val)
		}
	}
	return v
}
