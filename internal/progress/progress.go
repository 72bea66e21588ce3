// Package progress implements the progress-file protocol: a small binary
// payload, ideally written to a FIFO, that is truncated and rewritten on
// each progress update so a reader sees only the latest snapshot.
package progress

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/j12bates/innullifiability-go/pkg/fs"
)

// Generation is the three little-endian uint64 fields a Generation driver
// snapshot writes: (elapsed source sets, total source sets, remaining
// unmarked in the destination, or zero if not tracked).
type Generation struct {
	ElapsedSourceSets uint64
	TotalSourceSets   uint64
	RemainingUnmarked uint64
}

// Encode serializes g as 24 little-endian bytes.
func (g Generation) Encode() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], g.ElapsedSourceSets)
	binary.LittleEndian.PutUint64(buf[8:16], g.TotalSourceSets)
	binary.LittleEndian.PutUint64(buf[16:24], g.RemainingUnmarked)
	return buf
}

// Weed is the three little-endian uint64 fields a Weed driver snapshot
// writes: (elapsed, total, passed so far).
type Weed struct {
	Elapsed uint64
	Total   uint64
	Passed  uint64
}

// Encode serializes w as 24 little-endian bytes.
func (w Weed) Encode() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], w.Elapsed)
	binary.LittleEndian.PutUint64(buf[8:16], w.Total)
	binary.LittleEndian.PutUint64(buf[16:24], w.Passed)
	return buf
}

// Writer truncates and rewrites a progress file (ideally a FIFO) on each
// Write call, matching the protocol's "truncated and rewritten on each
// SIGUSR1" convention. It is deliberately not atomic-rename based (unlike
// record export): a FIFO reader expects to see updates in place, and a
// rename would break a fifo/pipe consumer following the original descriptor.
type Writer struct {
	fsys fs.FS
	path string
}

// NewWriter returns a Writer for the given path using fsys for file access.
func NewWriter(fsys fs.FS, path string) *Writer {
	return &Writer{fsys: fsys, path: path}
}

// Write truncates the progress file and writes payload (the Encode output of
// a Generation or Weed snapshot) to it.
func (w *Writer) Write(payload []byte) error {
	if w.path == "" {
		return nil
	}

	f, err := w.fsys.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("progress: open %q: %w", w.path, err)
	}

	_, writeErr := f.Write(payload)
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("progress: write %q: %w", w.path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("progress: close %q: %w", w.path, closeErr)
	}

	return nil
}
