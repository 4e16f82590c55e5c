package json

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacchi/iomap/format"
)

func TestSerializer_Format(t *testing.T) {
	assert.Equal(t, format.JSON, New().Format())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    format.Options
		want    map[string]any
	}{
		{
			name:    "flat object",
			content: `{"a": 1, "b": 2, "c": 3}`,
			want:    map[string]any{"a": int64(1), "b": int64(2), "c": int64(3)},
		},
		{
			name:    "nested values",
			content: `{"a": {"b": [1, 2.5, "x", true, null]}}`,
			want: map[string]any{
				"a": map[string]any{"b": []any{int64(1), 2.5, "x", true, nil}},
			},
		},
		{
			name:    "empty input",
			content: "  \n",
			want:    map[string]any{},
		},
		{
			name:    "null root",
			content: "null",
			want:    map[string]any{},
		},
		{
			name:    "comments allowed",
			content: "{\n  // port\n  \"port\": 8080,\n}",
			opts:    format.Options{OptComments: true},
			want:    map[string]any{"port": int64(8080)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Decode(tt.content, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "Lorem ipsum est in ea occaecat nisi officia."},
		{"array root", "[1, 2, 3]"},
		{"scalar root", "42"},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"comments without option", "{\n// c\n\"a\": 1}"},
		{"toml", "a = 1\n[b]\nc = 3"},
		{"yaml", "a: 1\nb:\n  c: 3"},
		{"xml", "<root><a>1</a></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Decode(tt.content, nil)
			require.Error(t, err)
			var fe *format.FormatError
			require.True(t, errors.As(err, &fe), "error %T is not *format.FormatError", err)
			assert.Equal(t, format.JSON, fe.Format)
			assert.Equal(t, format.OpDecode, fe.Op)
		})
	}
}

func TestDecode_NotMapping(t *testing.T) {
	_, err := New().Decode("[1]", nil)
	assert.ErrorIs(t, err, format.ErrNotMapping)
}

func TestEncode(t *testing.T) {
	data := map[string]any{"c": 3, "a": 1, "b": 2, "x": 7, "y": 8, "z": 9}

	got, err := New().Encode(data, format.Options{format.OptSortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": 2, "c": 3, "x": 7, "y": 8, "z": 9}`, got)
}

func TestEncode_StringsKeepSeparators(t *testing.T) {
	got, err := New().Encode(map[string]any{"k": `a, b: "c"`}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"k": "a, b: \"c\""}`, got)
}

func TestEncode_Indent(t *testing.T) {
	got, err := New().Encode(map[string]any{"a": 1, "b": []any{true}}, format.Options{format.OptIndent: 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}", got)
}

func TestEncode_NonNativeValues(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data := map[string]any{
		"when":  ts,
		"re":    regexp.MustCompile(`^a+$`),
		"set":   map[string]struct{}{"y": {}, "x": {}},
		"ints":  []int{1, 2},
		"typed": map[int]string{1: "one"},
	}

	got, err := New().Encode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ints": [1, 2], "re": "^a+$", "set": ["x", "y"], "typed": {"1": "one"}, "when": "2024-01-02T03:04:05Z"}`, got)
}

func TestEncode_WholeFloats(t *testing.T) {
	got, err := New().Encode(map[string]any{"f": 1.0, "g": float32(-2), "i": int64(1), "h": 2.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"f": 1.0, "g": -2.0, "h": 2.5, "i": 1}`, got)

	decoded, err := New().Decode(got, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, decoded["f"])
	assert.Equal(t, int64(1), decoded["i"])
}

func TestEncode_BoolValuedMapKeepsValues(t *testing.T) {
	got, err := New().Encode(map[string]any{"flags": map[string]bool{"debug": false, "trace": true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"flags": {"debug": false, "trace": true}}`, got)
}

func TestEncode_HTMLNotEscapedByDefault(t *testing.T) {
	got, err := New().Encode(map[string]any{"h": "<b>&"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"h": "<b>&"}`, got)

	got, err = New().Encode(map[string]any{"h": "<b>"}, format.Options{OptEscapeHTML: true})
	require.NoError(t, err)
	assert.Equal(t, `{"h": "\u003cb\u003e"}`, got)
}

func TestRoundTrip(t *testing.T) {
	data := map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": "x", "d": 2.5, "e": false},
		"f": []any{int64(1), "two", 3.0},
	}

	s := New()
	encoded, err := s.Encode(data, nil)
	require.NoError(t, err)
	decoded, err := s.Decode(encoded, nil)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
