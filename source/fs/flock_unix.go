//go:build unix

package fs

import (
	"errors"
	"syscall"
)

func flockExclusive(fd int) error {
	return syscall.Flock(fd, syscall.LOCK_EX)
}

func flockUnlock(fd int) error {
	return syscall.Flock(fd, syscall.LOCK_UN)
}

// isLockNotSupportedError reports lock failures seen on network file systems
// (NFS, SMB) that do not implement flock.
func isLockNotSupportedError(err error) bool {
	return errors.Is(err, syscall.ENOTSUP) ||
		errors.Is(err, syscall.EOPNOTSUPP) ||
		errors.Is(err, syscall.ENOLCK)
}
