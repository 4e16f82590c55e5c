package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"config.yaml", "config.yaml"},
		{"~", home},
		{"~/config.yaml", filepath.Join(home, "config.yaml")},
		{"~someone/config.yaml", "~someone/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandTilde(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandTilde_HomeDirError(t *testing.T) {
	orig := userHomeDir
	t.Cleanup(func() { userHomeDir = orig })
	userHomeDir = func() (string, error) { return "", errors.New("no home") }

	_, err := expandTilde("~/x")
	require.Error(t, err)
	_, err = New("~/x").Load(context.Background())
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))

	s := New(path)
	assert.Equal(t, path, s.Path())
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(data))
}

func TestLoad_Missing(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("whatever").Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, New("whatever").Save(ctx, nil), context.Canceled)
}

func TestSave_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.yaml")
	s := New(path)

	require.NoError(t, s.Save(context.Background(), []byte("a: 1\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(got))

	// overwrite
	require.NoError(t, s.Save(context.Background(), []byte("b: 2\n")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", string(got))

	// no temporary files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, New(path, WithFileMode(0o600)).Save(context.Background(), []byte("{}")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := New(filepath.Join(blocker, "out.json")).Save(context.Background(), []byte("{}"))
	require.Error(t, err)
}

type fakeTempFile struct {
	path     string
	writeErr error
	syncErr  error
	closeErr error
}

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}
func (f *fakeTempFile) Sync() error  { return f.syncErr }
func (f *fakeTempFile) Close() error { return f.closeErr }
func (f *fakeTempFile) Name() string { return f.path }

func TestSave_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func()
	}{
		{"mkdir", func() {
			osMkdirAll = func(string, os.FileMode) error { return boom }
		}},
		{"lock", func() {
			fileLockFunc = func(int) (func(), error) { return nil, boom }
		}},
		{"create temp", func() {
			createTemp = func(string, string) (tempFile, error) { return nil, boom }
		}},
		{"write", func() {
			createTemp = func(dir, _ string) (tempFile, error) {
				return &fakeTempFile{path: filepath.Join(dir, "tmp"), writeErr: boom}, nil
			}
		}},
		{"sync", func() {
			createTemp = func(dir, _ string) (tempFile, error) {
				return &fakeTempFile{path: filepath.Join(dir, "tmp"), syncErr: boom}, nil
			}
		}},
		{"close", func() {
			createTemp = func(dir, _ string) (tempFile, error) {
				return &fakeTempFile{path: filepath.Join(dir, "tmp"), closeErr: boom}, nil
			}
		}},
		{"chmod", func() {
			osChmod = func(string, os.FileMode) error { return boom }
		}},
		{"rename", func() {
			osRename = func(string, string) error { return boom }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origMkdir, origLock, origTemp, origChmod, origRename := osMkdirAll, fileLockFunc, createTemp, osChmod, osRename
			t.Cleanup(func() {
				osMkdirAll, fileLockFunc, createTemp, osChmod, osRename = origMkdir, origLock, origTemp, origChmod, origRename
			})
			tt.setup()

			err := New(filepath.Join(t.TempDir(), "out.json")).Save(context.Background(), []byte("{}"))
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	ok, err := IsFile(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsFile(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsFile(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- New(path).Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}, nil)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"a": 1}`), 0o644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
