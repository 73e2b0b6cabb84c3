package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".omniwiki.lock"

// DirLock is an advisory, cross-process lock on an output directory so two
// writers (say, a watch loop and a manual build) never interleave files.
type DirLock struct {
	lock *flock.Flock
	path string
}

// NewDirLock creates a lock for dir. The directory is created if needed.
func NewDirLock(dir string) (*DirLock, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", absDir, err)
	}
	lockPath := filepath.Join(absDir, lockFileName)
	return &DirLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

func (l *DirLock) Path() string {
	return l.path
}

// Lock acquires the lock, waiting if necessary.
// It logs a message if it has to wait.
func (l *DirLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		Log.Warnf("Another omniwiki process is writing to %s, waiting for it to finish...", filepath.Dir(l.path))
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the lock.
func (l *DirLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Not holding the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
