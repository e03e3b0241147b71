package fsstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the data root while a server holds it.
const LockFileName = ".transreview.lock"

// InstanceLock keeps a second server process off the same data root. It
// does not coordinate individual writes.
type InstanceLock struct {
	lock *flock.Flock
}

// AcquireLock creates the data root if needed and takes the instance lock
// without blocking.
func AcquireLock(root string) (*InstanceLock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	lockPath := filepath.Join(root, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another transreview server is already using %s", root)
	}
	return &InstanceLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.lock.Path()
}

// Release unlocks and removes the lock file.
func (l *InstanceLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(l.lock.Path())
	return nil
}
