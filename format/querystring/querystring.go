// Package querystring provides the application/x-www-form-urlencoded serializer.
//
// Repeated keys collapse to their last value on decode.
package querystring

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"github.com/yacchi/iomap/typeutil"
)

// pattern accepts one or more key=value pairs joined by '&'. Whitespace is
// never part of an encoded query string.
var pattern = regexp.MustCompile(`^[^&=\s]+=[^&\s]*(?:&[^&=\s]+=[^&\s]*)*$`)

// ErrMalformed is wrapped when content is not a query string.
var ErrMalformed = errors.New("content is not a query string")

// New creates the query string serializer.
func New() format.Serializer {
	return format.NewSerializer(format.QueryString, Decode, Encode)
}

// Decode parses a query string into a flat mapping of strings.
// A leading '?' is ignored. Content in which every value is blank, such as
// padded base64 ("eyJhIjogMX0="), is rejected.
func Decode(content string, _ format.Options) (map[string]any, error) {
	s := strings.TrimPrefix(strings.TrimSpace(content), "?")
	if !pattern.MatchString(s) {
		return nil, format.Wrap(format.QueryString, format.OpDecode, ErrMalformed)
	}

	values, err := url.ParseQuery(s)
	if err != nil {
		return nil, format.Wrap(format.QueryString, format.OpDecode, err)
	}

	data := make(map[string]any, len(values))
	blank := true
	for key, vs := range values {
		v := vs[len(vs)-1]
		if v != "" {
			blank = false
		}
		data[key] = v
	}
	if blank {
		return nil, format.Wrap(format.QueryString, format.OpDecode, ErrMalformed)
	}
	return data, nil
}

// Encode serializes a flat mapping as a query string with sorted keys.
// Lists are written as repeated keys; nested mappings are rejected.
func Encode(data map[string]any, _ format.Options) (string, error) {
	values := make(url.Values, len(data))
	for key, value := range data {
		switch {
		case typeutil.IsMap(value):
			return "", format.Errorf(format.QueryString, format.OpEncode, "nested mapping at key %q", key)
		case typeutil.IsListOrTuple(value):
			items, _ := maputil.Normalize(value).([]any)
			for _, item := range items {
				if typeutil.IsCollection(item) {
					return "", format.Errorf(format.QueryString, format.OpEncode, "nested collection at key %q", key)
				}
				values.Add(key, typeutil.ToString(item))
			}
		default:
			values.Set(key, typeutil.ToString(value))
		}
	}
	return values.Encode(), nil
}
