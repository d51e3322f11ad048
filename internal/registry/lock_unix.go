//go:build !windows

package registry

import (
	"fmt"
	"os"
	"syscall"
)

// FileLock is an advisory exclusive lock on a sidecar file. It serializes
// overlapping invocations (e.g. cron ticks) around the load-transform-save
// span so the wholesale registry overwrite cannot lose updates.
type FileLock struct {
	f *os.File
}

// AcquireLock blocks until the exclusive lock on path is held.
func AcquireLock(path string) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return &FileLock{f: f}, nil
}

// Release drops the lock. Safe to call once.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
