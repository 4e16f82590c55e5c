// Package maputil provides helpers for the canonical decoded mapping:
// map[string]any trees whose leaves are strings, int64, float64, bool or nil.
package maputil

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/yacchi/iomap/typeutil"
)

// Normalize converts a decoded value into the canonical representation.
//
// Maps become map[string]any (non-string keys are stringified), slices and
// arrays become []any, every integer becomes int64 and float32 becomes
// float64. Other values are returned unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return NormalizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Normalize(elem)
		}
		return out
	case string, bool, int64, float64:
		return val
	case json.Number:
		return normalizeNumber(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[typeutil.ToString(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

// NormalizeMap normalizes every value of m in place and returns it.
// A nil map yields an empty one.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	for k, v := range m {
		m[k] = Normalize(v)
	}
	return m
}

func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// DeepCopyMap creates a deep copy of a map[string]any, recursively copying
// nested maps and slices.
func DeepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = DeepCopyValue(v)
	}
	return dst
}

// DeepCopyValue copies map[string]any and []any recursively.
// Other values are returned as-is.
func DeepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return DeepCopyMap(val)
	case []any:
		if val == nil {
			return val
		}
		dst := make([]any, len(val))
		for i, elem := range val {
			dst[i] = DeepCopyValue(elem)
		}
		return dst
	default:
		return v
	}
}

// AsMap returns v as a map[string]any. A map[string]any is returned as-is;
// other string keyed maps are copied into a new map. ok is false for
// anything else.
func AsMap(v any) (m map[string]any, ok bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if !typeutil.IsDict(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return nil, false
	}
	m = make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
