// Package combinadic implements the bijection between strictly ascending
// k-tuples of positive integers and nonnegative integers, ordered
// lexicographically by the highest value (then next-highest, and so on).
//
// This is the combinatorial number system, ranked so that sets group into
// ascending blocks by their largest element -- the ordering the rest of the
// toolkit calls "combinadic ordering".
package combinadic

// Binomial returns C(n, k), the number of k-element subsets of an n-element
// set. It returns 0 when k > n, matching the convention used throughout the
// record and drive packages (an out-of-range choose count yields an empty
// region rather than a panic).
func Binomial(n, k uint64) uint64 {
	if k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}

	// Use the smaller of k, n-k for fewer multiplications.
	if k > n-k {
		k = n - k
	}

	var result uint64 = 1
	for i := uint64(0); i < k; i++ {
		// result*(n-i) is always divisible by (i+1) at this point: this is
		// the standard multiplicative formula for binomial coefficients,
		// which stays integral at every partial step.
		result = result * (n - i) / (i + 1)
	}

	return result
}

// SetToIndex computes the combinadic rank of a strictly ascending tuple
// v[0] < v[1] < ... < v[k-1] of positive integers:
//
//	index = sum_{j=1..k} C(v[j-1] - 1, j)
//
// (v is 0-indexed in Go; j in the formula is the 1-based position.)
func SetToIndex(set []uint64) uint64 {
	var idx uint64
	for pos, v := range set {
		j := uint64(pos + 1)
		idx += Binomial(v-1, j)
	}
	return idx
}

// IndexToSet inverts SetToIndex for a given tuple length k: for j = k down to
// 1, it finds the largest i with C(i, j) <= idx, sets v[j-1] = i+1, and
// subtracts C(i, j) from idx.
func IndexToSet(idx uint64, k int) []uint64 {
	set := make([]uint64, k)

	for j := k; j >= 1; j-- {
		i := largestIWithBinomialAtMost(idx, uint64(j))
		set[j-1] = i + 1
		idx -= Binomial(i, uint64(j))
	}

	return set
}

// largestIWithBinomialAtMost returns the largest i >= j-1 such that
// C(i, j) <= idx. Binomial(i, j) is non-decreasing in i for fixed j, so a
// doubling search followed by a binary search finds it in O(log i) calls.
func largestIWithBinomialAtMost(idx, j uint64) uint64 {
	if j == 0 {
		return 0
	}

	lo := j - 1 // smallest i for which C(i, j) is even defined as nonzero (C(j-1,j)=0 is still valid)

	hi := lo
	for Binomial(hi, j) <= idx {
		if hi == 0 {
			hi = 1
		} else {
			hi *= 2
		}
	}

	// Invariant: C(lo, j) <= idx < C(hi, j).
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		if Binomial(mid, j) <= idx {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

// Increment advances set by add positions in combinadic order, returning a
// new strictly ascending tuple of the same length. For add == 1 it uses a
// cascading fast path that bumps the lowest coordinate while it stays below
// the next one, carrying upward only on overflow -- this avoids recomputing
// the whole index for the common single-step case used by scanning. For
// add > 1 (or add == 0) it falls back to a direct index round-trip.
func Increment(set []uint64, add uint64) []uint64 {
	out := make([]uint64, len(set))
	copy(out, set)

	if add == 0 {
		return out
	}

	if add == 1 {
		incrementOne(out)
		return out
	}

	idx := SetToIndex(set) + add
	return IndexToSet(idx, len(set))
}

// incrementOne advances set in place by exactly one combinadic position.
func incrementOne(set []uint64) {
	k := len(set)

	for i := 0; i < k; i++ {
		hasNext := i+1 < k

		var next uint64
		if hasNext {
			next = set[i+1]
		}

		set[i]++

		if !hasNext || set[i] < next {
			return
		}

		// Overflowed into (or past) the next coordinate: reset this
		// position to its minimum value and carry into the next one.
		set[i] = uint64(i + 1)
	}
}
