package drive

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/j12bates/innullifiability-go/internal/nulltest"
	"github.com/j12bates/innullifiability-go/internal/record"
)

// WeedBounds optionally narrows the Weed Driver to a sub-range of a record's
// own M-range. It is a driver-side input filter only: the exhaustive tester
// itself takes no bounds, since a reduction path may legitimately pass
// through values outside any particular M-range on its way to zero.
type WeedBounds struct {
	Min, Max uint64
	Enabled  bool
}

// Weed runs the Weed Driver: it scans rec for every set NOT already marked
// NULLIF and applies the Exhaustive Nullifiability Tester, marking newly
// discovered nullifiable sets NULLIF and counting the rest toward passed.
//
// threads worker goroutines scan disjoint strides, mirroring Generation's
// fan-out. progress, if non-nil, must have length threads. live, if non-nil,
// is updated after every passed (innullifiable) set found -- callers that
// want a "passed so far" figure for a progress snapshot taken mid-run (per
// the progress-file protocol's third field) should pass their own counter
// here rather than waiting for Weed's return value, which is only final.
func Weed(rec *record.Record, threads uint64, bounds WeedBounds, progress []*atomic.Uint64, live *atomic.Uint64) (passed uint64, err error) {
	if threads == 0 {
		return 0, fmt.Errorf("%w: threads must be >= 1", ErrInvalidInput)
	}
	if progress != nil && uint64(len(progress)) != threads {
		return 0, fmt.Errorf("%w: progress has %d cells, want %d", ErrInvalidInput, len(progress), threads)
	}

	varSize := rec.VarSize()
	filter := newMValueFilter(bounds, rec.MaxM())

	var passedCount atomic.Uint64
	var wg sync.WaitGroup
	errs := make([]error, threads)

	for w := uint64(0); w < threads; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()

			var cell *atomic.Uint64
			if progress != nil {
				cell = progress[w]
			}

			callback := func(set []uint64, size uint64, bits byte) {
				if varSize > 0 && !filter.allows(set[varSize-1]) {
					return
				}

				if nulltest.Test(set) {
					if _, markErr := rec.Mark(set, record.NULLIF); markErr != nil {
						errs[w] = markErr
					}
				} else {
					passedCount.Add(1)
					if live != nil {
						live.Add(1)
					}
				}
			}

			_, qerr := rec.QueryParallel(record.NULLIF, 0, threads, w, cell, callback)
			if qerr != nil {
				errs[w] = qerr
			}
		}()
	}

	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return passedCount.Load(), e
		}
	}

	return passedCount.Load(), nil
}
