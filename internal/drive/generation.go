package drive

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/j12bates/innullifiability-go/internal/expand"
	"github.com/j12bates/innullifiability-go/internal/record"
)

// GenOptions selects which expansion families the Generation Driver runs
// against each marked source set.
type GenOptions struct {
	// Supersets inserts one new element into the source set, inheriting
	// NULLIF (since any superset of a nullifiable set is nullifiable) and
	// tagging the result OnlySup.
	Supersets bool

	// Mutations replaces one element with an equivalent pair -- two values
	// whose sum, difference, product, or quotient is that element -- so the
	// result is one element wider. These results carry only NULLIF -- they
	// are not known nullifiable purely by superset inheritance.
	Mutations bool

	// Thorough disables the ONLY_SUP skip: normally a set marked OnlySup
	// (nullifiable only because it's a superset of something smaller) does
	// not get its own mutation pairs expanded, since any mutation of an
	// OnlySup set is reachable by expanding the smaller set it came from
	// first. Thorough runs mutations on every NULLIF set regardless.
	Thorough bool
}

// NewDestination allocates a fresh record one element wider than source,
// inheriting source's M-range and fixed tail, per the Generation Driver's
// first step when asked to create its own destination.
func NewDestination(source *record.Record) (*record.Record, error) {
	dest, err := record.NewRecord(source.Size() + 1)
	if err != nil {
		return nil, err
	}

	fixedSize := source.FixedSize()
	fixed := make([]uint64, fixedSize)
	for i := range fixed {
		fixed[i] = source.Fixed(i)
	}

	varSize := dest.Size() - fixedSize
	if err := dest.Alloc(varSize, source.MinM(), source.MaxM(), fixed); err != nil {
		return nil, err
	}

	return dest, nil
}

// Generation runs the Generation Driver: it scans source for every set
// carrying the NULLIF bit and, for each, expands it one element wider via
// the Set Expander, marking results into dest.
//
// threads worker goroutines are launched, each scanning a disjoint stride
// of source's addressable range; the partition is known up front, so the
// pool is driven by stride/offset rather than a work channel and joined
// with a sync.WaitGroup. progress, if non-nil, must have length
// threads; progress[w] receives worker w's entries-visited counter.
//
// Generation does not export dest to a file; the driver's remit stops at
// marking the in-memory record. The caller (the generation CLI tool)
// performs the export, including any periodic export-on-progress
// behavior, since file I/O and its cadence are an external concern.
func Generation(source, dest *record.Record, threads uint64, opts GenOptions, progress []*atomic.Uint64) error {
	if threads == 0 {
		return fmt.Errorf("%w: threads must be >= 1", ErrInvalidInput)
	}
	if progress != nil && uint64(len(progress)) != threads {
		return fmt.Errorf("%w: progress has %d cells, want %d", ErrInvalidInput, len(progress), threads)
	}

	sourceFixedSize := source.FixedSize()
	destVarSize := dest.VarSize()
	destFixedSize := dest.FixedSize()
	destFixed := make([]uint64, destFixedSize)
	for i := range destFixed {
		destFixed[i] = dest.Fixed(i)
	}
	minM, maxM := dest.MinM(), dest.MaxM()

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

			expanded := make([]uint64, 0, destVarSize+destFixedSize)

			callback := func(set []uint64, size uint64, bits byte) {
				varPart := set[:size-sourceFixedSize]

				if opts.Supersets {
					err := expand.Expand(varPart, minM, maxM, expand.Supersets, func(e []uint64) {
						markExpanded(dest, expanded, e, destFixed, record.NULLIF|record.OnlySup)
					})
					if err != nil {
						errs[w] = err
						return
					}
				}

				if opts.Mutations && (opts.Thorough || bits&record.OnlySup == 0) {
					err := expand.Expand(varPart, minM, maxM, expand.MutAdd|expand.MutMul, func(e []uint64) {
						markExpanded(dest, expanded, e, destFixed, record.NULLIF)
					})
					if err != nil {
						errs[w] = err
						return
					}
				}
			}

			_, err := source.QueryParallel(record.NULLIF, record.NULLIF, threads, w, cell, callback)
			if err != nil {
				errs[w] = err
			}
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// markExpanded reassembles an expanded variable-segment prefix with dest's
// fixed tail and marks it. scratch is reused across calls to avoid
// allocating per candidate; its capacity must cover len(e)+len(fixed).
func markExpanded(dest *record.Record, scratch, e, fixed []uint64, mask byte) {
	full := append(append(scratch[:0], e...), fixed...)
	_, _ = dest.Mark(full, mask)
}
