package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacchi/iomap/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestConvert(t *testing.T) {
	out, err := run(t, "convert", "a=1&b=2", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": \"1\", \"b\": \"2\"}\n", out)

	out, err = run(t, "convert", `{"b": 1, "a": "x"}`, "--to", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1\n\n", out)

	out, err = run(t, "convert", `{"a": 1}`, "--to", "json", "--indent", "2", "--sort-keys")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out)
}

func TestConvert_ExplicitFrom(t *testing.T) {
	out, err := run(t, "convert", "--from", "yaml", `{"a": 1}`, "--to", "toml")
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n\n", out)

	_, err = run(t, "convert", "--from", "toml", `{"a": 1}`, "--to", "json")
	require.Error(t, err)
}

func TestConvert_OutFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.toml")
	out := filepath.Join(dir, "sub", "out.json")
	require.NoError(t, os.WriteFile(in, []byte("a = 1\n"), 0o644))

	stdout, err := run(t, "convert", in, "--to", "json", "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(got))
}

func TestConvert_Env(t *testing.T) {
	t.Setenv("IOMAP_TO", "qs")
	_, err := run(t, "convert", `{"a": 1}`)
	require.ErrorContains(t, err, "invalid configuration")

	t.Setenv("IOMAP_TO", "query_string")
	out, err := run(t, "convert", `{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, "a=1\n", out)

	t.Setenv("IOMAP_INDENT", "4")
	out, err = run(t, "convert", `{"a": 1}`, "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", out)
}

func TestConvert_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing to", []string{"convert", `{"a": 1}`}, "output format is required"},
		{"unknown to", []string{"convert", `{"a": 1}`, "--to", "bson"}, "invalid configuration"},
		{"unknown from", []string{"convert", `{"a": 1}`, "--to", "json", "--from", "bson"}, "invalid configuration"},
		{"negative indent", []string{"convert", `{"a": 1}`, "--to", "json", "--indent", "-1"}, "invalid configuration"},
		{"watch without out", []string{"convert", `{"a": 1}`, "--to", "json", "--watch"}, "invalid configuration"},
		{"watch literal", []string{"convert", `{"a": 1}`, "--to", "json", "--watch", "--out", filepath.Join(t.TempDir(), "o.json")}, "needs a file input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestNewValidator(t *testing.T) {
	v, err := newValidator(registry.Default())
	require.NoError(t, err)

	require.NoError(t, v.Struct(&Config{From: "toml", To: "csv"}))
	require.Error(t, v.Struct(&Config{To: "bson"}))
	require.Error(t, v.Struct(&Config{Watch: true}))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{"a": 1}`, "json"},
		{"eyJhIjogMX0", "base64"},
		{"a=1", "query_string"},
		{"a = 1\n", "toml"},
		{"<a>1</a>", "xml"},
		{"[s]\nk = v\n", "ini"},
		{"a: 1\n", "yaml"},
	}
	for _, tt := range tests {
		out, err := run(t, "detect", tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want+"\n", out)
	}

	_, err := run(t, "detect", "Lorem ipsum est in ea occaecat nisi officia.")
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", `{"a": 1, "b": "x"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "format: json\n")
	assert.Contains(t, out, `(string) (len=1) "a": (int64) 1`)
	assert.Contains(t, out, `(string) (len=1) "b": (string) (len=1) "x"`)
}

func TestExecute(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"detect", `{"a": 1}`}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "json\n", stdout.String())

	stdout.Reset()
	code = Execute(context.Background(), []string{"convert"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error:")
}
