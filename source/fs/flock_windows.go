//go:build windows

package fs

// Windows writes skip locking; rename over an open file already fails there.
func flockExclusive(fd int) error {
	return nil
}

func flockUnlock(fd int) error {
	return nil
}

func isLockNotSupportedError(err error) bool {
	return false
}
