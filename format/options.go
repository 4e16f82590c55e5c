package format

import (
	"strings"

	"github.com/spf13/cast"
)

// Well known option keys. Each serializer documents which of them it reads;
// unknown keys are ignored.
const (
	OptSortKeys  = "sort_keys"
	OptIndent    = "indent"
	OptDelimiter = "delimiter"
)

// Options is a free-form configuration bag forwarded to a serializer.
// Values are coerced on read, so "2", 2 and 2.0 are all a valid indent.
type Options map[string]any

// Clone returns a shallow copy of the options. A nil receiver yields an empty bag.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Has reports whether key is set.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Bool returns the option as a bool, or def if unset or not coercible.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns the option as an int, or def if unset or not coercible.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// String returns the option as a string, or def if unset or not coercible.
func (o Options) String(key string, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Strings returns the option as a string slice, or nil if unset.
// A single string is split on commas.
func (o Options) Strings(key string) []string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	return out
}
