// Package fs abstracts the filesystem operations the driver tools perform
// outside of record import/export -- chiefly the progress-file writer's
// open-truncate-write cycle -- behind a small interface so tests can inject
// faults deterministically.
//
// Two implementations are provided: [Real] (passthrough to the os package)
// and [Chaos] (wraps another FS and fails a configurable fraction of
// operations).
package fs

import (
	"io"
	"os"
)

// File is an open file handle. It is satisfied by [os.File]; implementations
// must behave like one, including returning an error from Write on handles
// not opened for writing.
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Sync commits the file's contents to stable storage. See [os.File.Sync].
	Sync() error
}

// FS is the filesystem surface the driver tools use. All methods mirror
// their os-package equivalents, with OS path semantics. Implementations
// must be safe for concurrent use.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with the given flags and permissions. See
	// [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary. See
	// [os.WriteFile]. Not atomic: a fault mid-write can leave a partial
	// file behind.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
