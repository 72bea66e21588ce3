package drive

import "github.com/bits-and-blooms/bitset"

// mValueFilter is an immutable, concurrency-safe membership test over the
// M-value domain, used by Weed to apply its optional bounds filter. It is
// built once per Weed call and read concurrently by every worker goroutine's
// hot callback; a bitset.BitSet's Test is a single word load and mask, which
// keeps the per-candidate check as cheap as the two comparisons it replaces
// while giving the filter room to grow into a non-contiguous set of allowed
// M-values later without changing Weed's callback.
type mValueFilter struct {
	bits    *bitset.BitSet
	enabled bool
}

// newMValueFilter builds a filter over [0, maxM] with bounds.Min..bounds.Max
// set, or a disabled (always-true) filter if bounds.Enabled is false.
func newMValueFilter(bounds WeedBounds, maxM uint64) mValueFilter {
	if !bounds.Enabled {
		return mValueFilter{}
	}

	bs := bitset.New(uint(maxM) + 1)
	for v := bounds.Min; v <= bounds.Max && v <= maxM; v++ {
		bs.Set(uint(v))
	}

	return mValueFilter{bits: bs, enabled: true}
}

// allows reports whether mValue passes the filter.
func (f mValueFilter) allows(mValue uint64) bool {
	if !f.enabled {
		return true
	}
	return f.bits.Test(uint(mValue))
}
