package filelock

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

// Suffix is appended to the guarded file's path to name its lock file.
const Suffix = ".lock"

// pollInterval is how often LockContext retries a held lock.
const pollInterval = 25 * time.Millisecond

// FileLock is an exclusive flock(2) lock on the sidecar file of a roster.
// A FileLock is not safe for concurrent use; each goroutine takes its own.
type FileLock struct {
	path string
	file *os.File
}

// New creates a FileLock guarding target. The lock file is target + ".lock"
// and is created on first use.
func New(target string) *FileLock {
	return &FileLock{path: target + Suffix}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Locked reports whether this FileLock currently holds the lock.
func (fl *FileLock) Locked() bool {
	return fl.file != nil
}

func (fl *FileLock) open() (*os.File, error) {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}

// Lock acquires the lock, blocking until available.
func (fl *FileLock) Lock() error {
	if fl.file != nil {
		return nil
	}
	f, err := fl.open()
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return fmt.Errorf("flock: %w", err)
	}
	fl.file = f
	return nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if it is held by another process or file descriptor.
func (fl *FileLock) TryLock() (bool, error) {
	if fl.file != nil {
		return true, nil
	}
	f, err := fl.open()
	if err != nil {
		return false, err
	}

	err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("flock: %w", err)
	}

	fl.file = f
	return true, nil
}

// LockContext polls TryLock until the lock is acquired or ctx is done.
// A cancelled wait returns an error matching errors.ErrRosterLocked.
func (fl *FileLock) LockContext(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := fl.TryLock()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", errors.ErrRosterLocked, fl.path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Unlock releases the lock and closes the lock file. The lock file itself is
// left in place; removing it would race with a waiting process.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = fl.file.Close()
		fl.file = nil
		return fmt.Errorf("funlock: %w", err)
	}

	err := fl.file.Close()
	fl.file = nil
	return err
}
