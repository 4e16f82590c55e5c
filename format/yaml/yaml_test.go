package yaml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacchi/iomap/format"
)

func TestSerializer_Format(t *testing.T) {
	assert.Equal(t, format.YAML, New().Format())
}

func TestDecode(t *testing.T) {
	content := `
a: 1
b:
  c: 3
  d: 4
list:
  - x
  - 2.5
1: numeric key
`
	got, err := New().Decode(content, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a":    int64(1),
		"b":    map[string]any{"c": int64(3), "d": int64(4)},
		"list": []any{"x", 2.5},
		"1":    "numeric key",
	}, got)
}

func TestDecode_JSONIsValidYAML(t *testing.T) {
	got, err := New().Decode(`{"a": 1, "b": {"c": 3}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1), "b": map[string]any{"c": int64(3)}}, got)
}

func TestDecode_Empty(t *testing.T) {
	got, err := New().Decode("", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text scalar", "Lorem ipsum est in ea occaecat nisi officia."},
		{"sequence root", "- a\n- b\n"},
		{"bad indentation", "a:\n  b: 1\n c: 2\n"},
		{"xml scalar", "<root><a>1</a></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Decode(tt.content, nil)
			var fe *format.FormatError
			require.True(t, errors.As(err, &fe), "error %v is not *format.FormatError", err)
			assert.Equal(t, format.YAML, fe.Format)
		})
	}
}

func TestEncode_Indent(t *testing.T) {
	data := map[string]any{"b": map[string]any{"c": 3}, "a": 1}

	got, err := New().Encode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb:\n  c: 3\n", got)

	got, err = New().Encode(data, format.Options{format.OptIndent: 4})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb:\n    c: 3\n", got)
}

func TestEncode_WholeFloats(t *testing.T) {
	got, err := New().Encode(map[string]any{"f": 1.0, "i": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "f: 1.0\ni: 1\n", got)
}

func TestRoundTrip(t *testing.T) {
	data := map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": "x", "d": 2.5, "e": true},
		"f": []any{int64(1), "two", 3.0},
	}

	s := New()
	encoded, err := s.Encode(data, nil)
	require.NoError(t, err)
	decoded, err := s.Decode(encoded, nil)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
