// Package runlock serializes runs that mutate a single edition's data.
//
// A download and a database build must not touch the same edition directory
// concurrently; each run takes a per-edition advisory file lock for its
// duration.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy indicates another process already holds the edition lock.
var ErrBusy = errors.New("another qurandb run is already processing this edition")

// Lock guards one edition's artifacts with a file lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New creates a lock rooted in the given data directory for an edition.
func New(dataDir, edition string) (*Lock, error) {
	if dataDir == "" || edition == "" {
		return nil, errors.New("runlock requires data directory and edition")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(dataDir, edition+".lock")
	return &Lock{path: path, lock: flock.New(path)}, nil
}

// Acquire takes the lock without blocking; ErrBusy when already held.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("%w (lock: %s)", ErrBusy, l.path)
	}
	return nil
}

// Release drops the lock. Safe to call after a failed Acquire.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
