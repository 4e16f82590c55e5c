// Package csv provides a serializer for comma separated rows.
//
// A CSV document maps to a single key (by default "values") holding a list of
// row mappings, one per record, keyed by column name.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/maputil"
	"github.com/yacchi/iomap/typeutil"
)

// Option keys recognized by this serializer, in addition to "delimiter".
const (
	// OptKey names the mapping key that holds the rows.
	OptKey = "key"
	// OptColumns lists the column names. On decode it replaces the header row.
	OptColumns = "columns"
	// OptHeader controls whether a header row is written on encode.
	OptHeader = "header"
)

// DefaultKey is the mapping key used when OptKey is not set.
const DefaultKey = "values"

// ErrRows is wrapped when the rows value cannot be encoded.
var ErrRows = errors.New("rows must be a list of mappings")

// New creates the CSV serializer.
func New() format.Serializer {
	return format.NewSerializer(format.CSV, Decode, Encode)
}

func delimiter(opts format.Options) (rune, error) {
	d := opts.String(format.OptDelimiter, ",")
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r, nil
}

// Decode parses CSV content into {"values": [...rows]}.
func Decode(content string, opts format.Options) (map[string]any, error) {
	comma, err := delimiter(opts)
	if err != nil {
		return nil, err
	}
	key := opts.String(OptKey, DefaultKey)

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = comma
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	columns := opts.Strings(OptColumns)
	if columns == nil {
		if len(records) == 0 {
			return map[string]any{key: []any{}}, nil
		}
		columns, records = records[0], records[1:]
	}

	rows := make([]any, 0, len(records))
	for i, rec := range records {
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(rec), len(columns))
		}
		row := make(map[string]any, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				row[col] = rec[j]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return map[string]any{key: rows}, nil
}

// Encode writes the rows stored under the "values" key as CSV.
func Encode(data map[string]any, opts format.Options) (string, error) {
	comma, err := delimiter(opts)
	if err != nil {
		return "", err
	}
	key := opts.String(OptKey, DefaultKey)

	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("%w: missing key %q", ErrRows, key)
	}
	list, ok := maputil.Normalize(raw).([]any)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrRows, key, raw)
	}

	rows := make([]map[string]any, 0, len(list))
	for i, item := range list {
		row, ok := maputil.AsMap(item)
		if !ok {
			return "", fmt.Errorf("%w: row %d is %T", ErrRows, i, item)
		}
		rows = append(rows, row)
	}

	columns := opts.Strings(OptColumns)
	if columns == nil {
		columns = unionKeys(rows)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = comma

	if opts.Bool(OptHeader, true) {
		if err := w.Write(columns); err != nil {
			return "", err
		}
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			v, ok := row[col]
			if !ok || v == nil {
				record[i] = ""
				continue
			}
			if typeutil.IsCollection(v) {
				return "", fmt.Errorf("%w: column %q holds a %T", ErrRows, col, v)
			}
			record[i] = typeutil.ToString(v)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func unionKeys(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
