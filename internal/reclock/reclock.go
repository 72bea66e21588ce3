// Package reclock provides an advisory, single-instance file lock for a
// record's destination path, so two Generation or Weed drivers cannot race
// on the same file. It does not protect against writers outside this
// process family; it only prevents accidental double-invocation of these
// tools against one file, the one hazard the record's OR-only marking
// scheme does not itself rule out.
package reclock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned by Acquire when another process already holds the
// lock on path.
var ErrLocked = fmt.Errorf("reclock: already locked")

// Lock holds an advisory exclusive lock on a record file for the lifetime
// of a single driver run.
type Lock struct {
	f *os.File
}

// Acquire takes a non-blocking exclusive advisory lock (flock(2)) on path,
// creating the file if it does not already exist. It returns ErrLocked if
// another process is already holding it.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("reclock: open %q: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("%w: %q", ErrLocked, path)
		}
		return nil, fmt.Errorf("reclock: flock %q: %w", path, err)
	}

	return &Lock{f: f}, nil
}

// Release drops the lock and closes the underlying file descriptor.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	if err != nil {
		return fmt.Errorf("reclock: unlock: %w", err)
	}
	return closeErr
}
