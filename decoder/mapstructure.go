package decoder

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Mapstructure decodes a mapping with weak typing, matching fields by their
// `mapstructure` tags. Formats that only carry text (XML, INI, query
// strings) decode cleanly into numeric, boolean, time.Duration, time.Time and
// encoding.TextUnmarshaler fields.
func Mapstructure(m map[string]any, target any) error {
	return MapstructureTag("mapstructure")(m, target)
}

// MapstructureTag is Mapstructure with a custom struct tag name, e.g. "json".
func MapstructureTag(tag string) Func {
	return func(m map[string]any, target any) error {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           target,
			TagName:          tag,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToTimeHookFunc(time.RFC3339),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		})
		if err != nil {
			return fmt.Errorf("failed to create decoder: %w", err)
		}
		if err := dec.Decode(m); err != nil {
			return fmt.Errorf("failed to decode map: %w", err)
		}
		return nil
	}
}
