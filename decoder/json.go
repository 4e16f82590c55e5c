package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonfmt "github.com/yacchi/iomap/format/json"
)

// JSON decodes through the JSON serializer, matching fields by their `json`
// tags with exact types. Values JSON cannot hold (times, sets, regexps) are
// converted the way ToJSON writes them.
func JSON(m map[string]any, target any) error {
	return decodeJSON(m, target, false)
}

// JSONStrict is JSON but fails on keys that match no field of target.
func JSONStrict(m map[string]any, target any) error {
	return decodeJSON(m, target, true)
}

func decodeJSON(m map[string]any, target any, strict bool) error {
	data, err := jsonfmt.Marshal(m, false)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("failed to unmarshal to target type: %w", err)
	}
	return nil
}
