// Package signals implements the Signals subsystem: a dedicated
// signal-handling path, separate from the compute-bound worker goroutines,
// that traps SIGINT and SIGUSR1 and funnels any exit through a single lock
// so two callers never race to terminate the process at once.
//
// Workers themselves never touch signals; they are compute-bound and are
// expected to keep running until the scan completes or the process exits
// out from under them. This package owns the one place where an interrupt
// or progress request turns into a snapshot, an optional export, and
// (for SIGINT) a controlled exit.
package signals

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// Handler receives SIGUSR1 (snapshot request) and SIGINT (snapshot, then
// terminate). Both callbacks may be nil. Snapshot is also invoked once
// before exiting on SIGINT, so an interrupted run still leaves a final
// progress snapshot (and optional export) behind.
type Handler struct {
	// Snapshot is invoked on SIGUSR1 and immediately before exiting on
	// SIGINT. It should write the current progress file and, if the
	// caller wants export-on-interrupt behavior, export the in-progress
	// record. Errors are not actionable from within a signal handler and
	// are ignored by Watch; implementations should log internally if
	// needed.
	Snapshot func()

	// Exit is called to terminate the process after a SIGINT snapshot or
	// a Fatal call. Defaults to os.Exit with the caller's exit code (0 for
	// SIGINT, 1 for Fatal) if nil. Exists as a seam for testing Watch
	// without actually killing the test binary.
	Exit func()

	// WatchSIGINT controls whether SIGINT is trapped at all. The
	// generation and weed CLI tools only want SIGINT to produce a
	// snapshot when their -i flag is given; without it, SIGINT should
	// fall through to Go's default behavior (immediate termination, no
	// snapshot). SIGUSR1 is always trapped by Watch regardless of this
	// field, per the progress-file protocol being unconditional.
	WatchSIGINT bool
}

// exitOnce guards process termination: two signals (or a signal racing a
// worker-detected fatal error reported via Fatal) must never both reach
// os.Exit. Only the first caller through Fatal or a SIGINT runs the exit
// path; later callers wait for that first call to finish and then return
// without exiting (with the default os.Exit, the process is gone by then).
var exitOnce sync.Once

// Watch starts a dispatcher goroutine listening for SIGUSR1 (and SIGINT when
// h.WatchSIGINT is set) and returns immediately. The returned stop function
// unregisters the signals and ends the goroutine; callers hold it for the
// lifetime of a generation or weed drive.
//
// Per the concurrency model, worker goroutines keep these signals blocked
// implicitly by never registering their own handlers; only this one
// dispatcher goroutine observes them, via Go's standard signal.Notify
// (which itself funnels through a single internal channel regardless of
// how many OS threads exist).
func Watch(h Handler) (stop func()) {
	sigs := []os.Signal{unix.SIGUSR1}
	if h.WatchSIGINT {
		sigs = append(sigs, unix.SIGINT)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig, ok := <-ch:
				if !ok {
					return
				}
				switch sig {
				case unix.SIGUSR1:
					if h.Snapshot != nil {
						h.Snapshot()
					}
				case unix.SIGINT:
					if h.Snapshot != nil {
						h.Snapshot()
					}
					fatal(h.Exit, 0)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// Fatal runs the single-exit path directly with exit code 1, for callers
// (e.g. a worker goroutine that hit an unrecoverable storage fault) that
// need to terminate the process outside of a delivered signal. It shares
// exitOnce with Watch's SIGINT path so a concurrent SIGINT and a worker
// fault can never both attempt to exit.
func Fatal(exit func()) {
	fatal(exit, 1)
}

func fatal(exit func(), code int) {
	exitOnce.Do(func() {
		if exit != nil {
			exit()
			return
		}
		os.Exit(code)
	})
}
