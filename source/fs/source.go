// Package fs reads, writes and watches documents on the local file system.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

type lockFile interface {
	Close() error
	Fd() uintptr
}

type tempFile interface {
	Write(p []byte) (n int, err error)
	Sync() error
	Close() error
	Name() string
}

var (
	userHomeDir  = os.UserHomeDir
	osReadFile   = os.ReadFile
	osStat       = os.Stat
	osMkdirAll   = os.MkdirAll
	osChmod      = os.Chmod
	osRename     = os.Rename
	osRemove     = os.Remove
	fileLockFunc = fileLock

	openFile = func(name string, flag int, perm os.FileMode) (lockFile, error) {
		return os.OpenFile(name, flag, perm)
	}
	createTemp = func(dir, pattern string) (tempFile, error) {
		return os.CreateTemp(dir, pattern)
	}
)

// fileLock takes an exclusive lock on fd. On file systems without lock
// support it returns a no-op unlock and a nil error.
func fileLock(fd int) (unlock func(), err error) {
	if err := flockExclusive(fd); err != nil {
		if isLockNotSupportedError(err) {
			return func() {}, nil
		}
		return nil, err
	}
	return func() { flockUnlock(fd) }, nil
}

// Default permission modes.
const (
	DefaultFileMode = 0644
	DefaultDirMode  = 0755
)

// Source reads and writes one file.
type Source struct {
	path     string
	fileMode os.FileMode
	dirMode  os.FileMode
}

// Option configures a Source.
type Option func(*Source)

// WithFileMode sets the permission mode of written files. Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.fileMode = mode
	}
}

// WithDirMode sets the permission mode of created parent directories.
// Default is 0755.
func WithDirMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.dirMode = mode
	}
}

// New creates a file source. Tilde (~) expansion is supported.
//
// Example:
//
//	src := fs.New("~/.config/app/config.yaml")
//	src := fs.New("out/data.json", fs.WithFileMode(0600))
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:     path,
		fileMode: DefaultFileMode,
		dirMode:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the path as given to New.
func (s *Source) Path() string {
	return s.path
}

// Load reads the whole file.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := expandTilde(s.path)
	if err != nil {
		return nil, err
	}
	data, err := osReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", s.path, err)
	}
	return data, nil
}

// Save replaces the file content with data.
//
// Missing parent directories are created. The data is written to a temporary
// file in the target directory and renamed over the target while an exclusive
// lock on the target is held, so readers never observe a partial write.
func (s *Source) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	targetPath, err := expandTilde(s.path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(targetPath)
	if err := osMkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	lf, err := openFile(targetPath, os.O_RDWR|os.O_CREATE, s.fileMode)
	if err != nil {
		return fmt.Errorf("failed to open file %q for locking: %w", targetPath, err)
	}
	defer lf.Close()

	unlock, err := fileLockFunc(int(lf.Fd()))
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %q: %w", targetPath, err)
	}
	defer unlock()

	tmpFile, err := createTemp(dir, ".iomap-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			osRemove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := osChmod(tmpPath, s.fileMode); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := osRename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("failed to rename temporary file to %q: %w", targetPath, err)
	}

	success = true
	return nil
}

// IsFile reports whether path names an existing regular file.
// A missing path is not an error; other stat failures are returned.
func IsFile(path string) (bool, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return false, err
	}
	info, err := osStat(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// expandTilde expands "~" and "~/path" to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory: %w", err)
	}

	if len(path) == 1 {
		return homeDir, nil
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// Watch calls onChange each time the file is written, created or replaced,
// until ctx is cancelled. Watcher errors are passed to onError when it is
// not nil.
//
// The parent directory is watched rather than the file itself, which keeps
// the watch alive across atomic replace-by-rename writes.
func (s *Source) Watch(ctx context.Context, onChange func(), onError func(error)) error {
	path, err := expandTilde(s.path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}
	filename := filepath.Base(path)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
