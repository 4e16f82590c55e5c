package toml

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacchi/iomap/format"
)

func TestSerializer_Format(t *testing.T) {
	assert.Equal(t, format.TOML, New().Format())
}

func TestDecode(t *testing.T) {
	content := `
a = 1
items = ["x", "y"]
when = 1979-05-27T07:32:00Z
day = 1979-05-27

[b]
c = 3
d = 4.5
e = true
`
	got, err := New().Decode(content, nil)
	require.NoError(t, err)

	when, ok := got["when"].(time.Time)
	require.True(t, ok, "when is %T, want time.Time", got["when"])
	assert.True(t, when.Equal(time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)))
	delete(got, "when")

	assert.Equal(t, map[string]any{
		"a":     int64(1),
		"items": []any{"x", "y"},
		"day":   "1979-05-27",
		"b":     map[string]any{"c": int64(3), "d": 4.5, "e": true},
	}, got)
}

func TestDecode_Empty(t *testing.T) {
	got, err := New().Decode(" \n\t", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "Lorem ipsum est in ea occaecat nisi officia."},
		{"json", `{"a": 1, "b": 2}`},
		{"yaml", "a: 1\nb:\n  c: 3\n"},
		{"xml", "<root><a>1</a></root>"},
		{"duplicate key", "a = 1\na = 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Decode(tt.content, nil)
			var fe *format.FormatError
			require.True(t, errors.As(err, &fe), "error %v is not *format.FormatError", err)
			assert.Equal(t, format.TOML, fe.Format)
			assert.Equal(t, format.OpDecode, fe.Op)
		})
	}
}

func TestEncode_RejectsNull(t *testing.T) {
	_, err := New().Encode(map[string]any{"a": map[string]any{"b": []any{1, nil}}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNull)
	assert.Contains(t, err.Error(), `a.b[1]`)
}

func TestEncode_Options(t *testing.T) {
	data := map[string]any{"b": map[string]any{"c": int64(3), "l": []any{int64(1), int64(2)}}}

	for _, opts := range []format.Options{
		nil,
		{format.OptIndent: 4},
		{OptIndentTables: true, OptArraysMultiline: true},
	} {
		encoded, err := New().Encode(data, opts)
		require.NoError(t, err)
		assert.Contains(t, encoded, "[b]")

		decoded, err := New().Decode(encoded, nil)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestRoundTrip(t *testing.T) {
	data := map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": "x", "d": 2.5, "e": true},
		"f": []any{int64(1), int64(2)},
	}

	s := New()
	encoded, err := s.Encode(data, nil)
	require.NoError(t, err)
	decoded, err := s.Decode(encoded, nil)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
