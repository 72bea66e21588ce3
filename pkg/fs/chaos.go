package fs

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrInjected is wrapped into every fault [Chaos] injects, so a test can
// tell a deliberate failure from a real one with errors.Is.
var ErrInjected = errors.New("fs: injected fault")

// ChaosConfig sets the per-operation fault probabilities, each in [0, 1].
// Unset fields default to 0 (never fail). A rate of 1.0 fails every
// matching operation, which is the common setting for error-path tests.
type ChaosConfig struct {
	// OpenFailRate applies to Open and OpenFile.
	OpenFailRate float64

	// ReadFailRate applies to ReadFile and to Read on returned files.
	ReadFailRate float64

	// WriteFailRate applies to WriteFile and to Write on returned files.
	WriteFailRate float64

	// CloseFailRate applies to Close on returned files. The underlying
	// file is still closed, so a fault here never leaks a descriptor.
	CloseFailRate float64
}

// Chaos implements [FS] by delegating to another FS and failing a
// configured fraction of operations with [ErrInjected] faults. The random
// stream is seeded explicitly, so a given (seed, config, operation
// sequence) always injects the same faults -- a failing test reproduces.
type Chaos struct {
	fs     FS
	config ChaosConfig

	mu  sync.Mutex
	rng *rand.Rand

	faults atomic.Int64
}

// NewChaos wraps underlying with fault injection per config. config may be
// nil for an injector that never fires (useful as a default in test
// helpers).
func NewChaos(underlying FS, seed int64, config *ChaosConfig) *Chaos {
	if underlying == nil {
		panic("fs: underlying FS is nil")
	}

	var cfg ChaosConfig
	if config != nil {
		cfg = *config
	}

	return &Chaos{
		fs:     underlying,
		config: cfg,
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
	}
}

// TotalFaults reports how many faults have been injected so far.
func (c *Chaos) TotalFaults() int64 {
	return c.faults.Load()
}

// should rolls the dice for one operation. rand.Rand is not safe for
// concurrent use, so the roll is serialized; the window is tiny compared to
// the I/O it gates.
func (c *Chaos) should(rate float64) bool {
	if rate <= 0 {
		return false
	}

	c.mu.Lock()
	roll := c.rng.Float64()
	c.mu.Unlock()

	return roll < rate
}

func (c *Chaos) inject(op, path string) error {
	c.faults.Add(1)
	return &os.PathError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", ErrInjected, syscall.EIO)}
}

func (c *Chaos) Open(path string) (File, error) {
	if c.should(c.config.OpenFailRate) {
		return nil, c.inject("open", path)
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}
	return &chaosFile{f: f, chaos: c, path: path}, nil
}

func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if c.should(c.config.OpenFailRate) {
		return nil, c.inject("open", path)
	}

	f, err := c.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &chaosFile{f: f, chaos: c, path: path}, nil
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.should(c.config.ReadFailRate) {
		return nil, c.inject("read", path)
	}
	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFile(path string, data []byte, perm os.FileMode) error {
	if c.should(c.config.WriteFailRate) {
		return c.inject("write", path)
	}
	return c.fs.WriteFile(path, data, perm)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	return c.fs.Stat(path)
}

func (c *Chaos) Remove(path string) error {
	return c.fs.Remove(path)
}

// chaosFile applies the read/write/close rates to an open handle.
type chaosFile struct {
	f     File
	chaos *Chaos
	path  string
}

func (cf *chaosFile) Read(buf []byte) (int, error) {
	if cf.chaos.should(cf.chaos.config.ReadFailRate) {
		return 0, cf.chaos.inject("read", cf.path)
	}
	return cf.f.Read(buf)
}

func (cf *chaosFile) Write(data []byte) (int, error) {
	if cf.chaos.should(cf.chaos.config.WriteFailRate) {
		return 0, cf.chaos.inject("write", cf.path)
	}
	return cf.f.Write(data)
}

func (cf *chaosFile) Close() error {
	err := cf.f.Close()
	if cf.chaos.should(cf.chaos.config.CloseFailRate) {
		return cf.chaos.inject("close", cf.path)
	}
	return err
}

func (cf *chaosFile) Seek(offset int64, whence int) (int64, error) {
	return cf.f.Seek(offset, whence)
}

func (cf *chaosFile) Sync() error {
	return cf.f.Sync()
}

// Compile-time interface checks.
var (
	_ FS   = (*Chaos)(nil)
	_ File = (*chaosFile)(nil)
)
