// Package typeutil classifies values by structural inspection.
//
// Every function is total: any input, including nil, has a defined answer.
// Serializers use these predicates to decide how a value that their codec
// does not support natively should be written out.
package typeutil

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"time"

	"github.com/spf13/cast"
)

// IsBool reports whether v is a bool.
func IsBool(v any) bool {
	return kindOf(v) == reflect.Bool
}

// IsInteger reports whether v is a signed or unsigned integer of any size.
func IsInteger(v any) bool {
	switch kindOf(v) {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// IsFloat reports whether v is a float32 or float64.
func IsFloat(v any) bool {
	k := kindOf(v)
	return k == reflect.Float32 || k == reflect.Float64
}

// IsString reports whether v is a string.
func IsString(v any) bool {
	return kindOf(v) == reflect.String
}

// IsMap reports whether v is a map of any key type.
func IsMap(v any) bool {
	return kindOf(v) == reflect.Map
}

// IsDict reports whether v is a map keyed by strings.
func IsDict(v any) bool {
	if _, ok := v.(map[string]any); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// IsSet reports whether v is a set, i.e. a map whose values are struct{}.
// Bool valued maps carry data in their values and are not sets.
func IsSet(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return false
	}
	elem := rv.Type().Elem()
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

// IsList reports whether v is a slice. Byte slices are treated as scalars.
func IsList(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8
}

// IsTuple reports whether v is a fixed size array.
func IsTuple(v any) bool {
	return kindOf(v) == reflect.Array
}

// IsListOrTuple reports whether v is a slice or an array.
func IsListOrTuple(v any) bool {
	return IsList(v) || IsTuple(v)
}

// IsCollection reports whether v is a map, set, slice or array.
func IsCollection(v any) bool {
	return IsMap(v) || IsListOrTuple(v)
}

// IsDatetime reports whether v is a time.Time.
func IsDatetime(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return true
	case *time.Time:
		return t != nil
	}
	return false
}

// IsDecimal reports whether v is an arbitrary precision number.
func IsDecimal(v any) bool {
	switch d := v.(type) {
	case *big.Float:
		return d != nil
	case *big.Rat:
		return d != nil
	case json.Number:
		return true
	}
	return false
}

// IsRegex reports whether v is a compiled regular expression.
func IsRegex(v any) bool {
	r, ok := v.(*regexp.Regexp)
	return ok && r != nil
}

// IsNone reports whether v is nil, including typed nil pointers, maps,
// slices, channels, functions and interfaces.
func IsNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// IsNotNone is the negation of IsNone.
func IsNotNone(v any) bool {
	return !IsNone(v)
}

// IsFunction reports whether v is callable.
func IsFunction(v any) bool {
	return kindOf(v) == reflect.Func
}

// IsJSONSerializable reports whether v is one of the values a decoded
// mapping may hold: nil, bool, number, string, string keyed map or list.
// Containers are not inspected recursively.
func IsJSONSerializable(v any) bool {
	if v == nil {
		return true
	}
	return IsBool(v) || IsInteger(v) || IsFloat(v) || IsString(v) || IsDict(v) || IsListOrTuple(v)
}

// ToString converts a scalar to its plain string form. It is the default
// conversion used by formats that can only store text. Nil becomes "".
func ToString(v any) string {
	if IsNone(v) {
		return ""
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *time.Time:
		return t.Format(time.RFC3339Nano)
	case *regexp.Regexp:
		return t.String()
	case *big.Float:
		return t.Text('g', -1)
	case *big.Rat:
		return t.RatString()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func kindOf(v any) reflect.Kind {
	if v == nil {
		return reflect.Invalid
	}
	return reflect.TypeOf(v).Kind()
}
