package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock until the
// context expires.
var ErrLocked = errors.New("file is locked by another process")

// lockRetryDelay is the polling interval while waiting for a lock.
const lockRetryDelay = 50 * time.Millisecond

// LockPath returns the path of the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// WithLock runs fn while holding an exclusive lock on path. It waits for
// the lock until ctx is done.
func WithLock(ctx context.Context, path string, fn func() error) error {
	lockPath := LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), DirPerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}
