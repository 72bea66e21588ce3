// Package expand implements the Set Expander: given a set, it emits every
// set one elementary derivation step away (by the problem's allowed
// arithmetic) whose M-value lies within a configured range.
package expand

import "fmt"

// Mode selects which families of single-step expansions Expand emits.
type Mode uint8

const (
	// Supersets emits s with one new value inserted.
	Supersets Mode = 1 << iota

	// MutAdd emits s with one element replaced by a sum or difference pair.
	MutAdd

	// MutMul emits s with one element replaced by a product or quotient
	// pair.
	MutMul
)

// OutFunc receives one expanded set. Implementations must not retain set
// beyond the call.
type OutFunc func(set []uint64)

// Expand enumerates every single-step expansion of s (supersets and/or
// mutations per mode) whose M-value lies in [minM, maxM], invoking out once
// per result. Results may repeat within a single call when the underlying
// arithmetic yields the same set by more than one path; callers that
// OR-mark absorb duplicates idempotently.
//
// s must be strictly ascending with all elements >= 1, or Expand fails with
// ErrInvalidInput.
func Expand(s []uint64, minM, maxM uint64, mode Mode, out OutFunc) error {
	if err := validate(s); err != nil {
		return err
	}
	if out == nil {
		out = func([]uint64) {}
	}
	if len(s) == 0 {
		return nil
	}

	mValue := s[len(s)-1]

	if mode&Supersets != 0 {
		expandSupersets(s, mValue, minM, maxM, out)
	}
	if mode&(MutAdd|MutMul) != 0 {
		expandMutations(s, minM, maxM, mode, out)
	}

	return nil
}

func validate(s []uint64) error {
	for i, v := range s {
		if v < 1 {
			return fmt.Errorf("%w: element %d is not positive (%d)", ErrInvalidInput, i, v)
		}
		if i > 0 && v <= s[i-1] {
			return fmt.Errorf("%w: set is not strictly ascending at index %d", ErrInvalidInput, i)
		}
	}
	return nil
}

// expandSupersets produces every s ∪ {x}, x in [1, maxM] \ s, whose
// resulting M-value lands in [minM, maxM].
//
// If mValue > maxM, no insertion can bring the result in range: skip
// entirely. If mValue < minM, only x in [minM, maxM] can raise the result's
// M-value into range (x is necessarily > mValue in that case, so it becomes
// the new M-value). Otherwise mValue is already in range and any x in
// [1, maxM] keeps the result in range (x <= mValue leaves the M-value
// unchanged; x > mValue replaces it with x, which is <= maxM by
// construction and >= minM since x > mValue >= minM).
func expandSupersets(s []uint64, mValue, minM, maxM uint64, out OutFunc) {
	if mValue > maxM {
		return
	}

	lo := uint64(1)
	if mValue < minM {
		lo = minM
	}

	for x := lo; x <= maxM; x++ {
		if contains(s, x) {
			continue
		}
		out(insertSorted(s, x))
	}
}

// expandMutations replaces, in turn, each element v at index i with an
// equivalent pair (a, b) such that some allowed operator yields v from
// (a, b), subject to mode and the resulting M-value lying in [minM, maxM].
func expandMutations(s []uint64, minM, maxM uint64, mode Mode, out OutFunc) {
	for i, v := range s {
		remaining := remainingWithout(s, i)

		emit := func(a, b uint64) {
			emitMutation(remaining, a, b, minM, maxM, out)
		}

		if mode&MutAdd != 0 {
			sumPairs(v, emit)
			diffPairs(v, maxM, emit)
		}
		if mode&MutMul != 0 {
			productPairs(v, emit)
			quotientPairs(v, maxM, emit)
		}
	}
}

// sumPairs yields every (a, b) with a + b = v, 1 <= a < b.
func sumPairs(v uint64, emit func(a, b uint64)) {
	for a := uint64(1); 2*a < v; a++ {
		emit(a, v-a)
	}
}

// diffPairs yields every (a, b) with b - a = v, a >= 1, b <= maxM.
func diffPairs(v, maxM uint64, emit func(a, b uint64)) {
	if maxM <= v {
		return
	}
	for a := uint64(1); a+v <= maxM; a++ {
		emit(a, a+v)
	}
}

// productPairs yields every (a, b) with a * b = v, 2 <= a < b. a == 1 (the
// trivial "times one" factorization, which reproduces v itself as b) is
// never a genuine split and is excluded.
func productPairs(v uint64, emit func(a, b uint64)) {
	for a := uint64(2); a*a < v; a++ {
		if v%a == 0 {
			emit(a, v/a)
		}
	}
}

// quotientPairs yields every (a, b) with b / a = v, a >= 2, b = a*v <= maxM.
// a == 1 (giving b == v) is the trivial division and is excluded for the
// same reason as in productPairs.
func quotientPairs(v, maxM uint64, emit func(a, b uint64)) {
	if v == 0 {
		return
	}
	for a := uint64(2); a*v <= maxM; a++ {
		emit(a, a*v)
	}
}

// emitMutation applies the pair insertion rules to a candidate (a, b):
// reject a == b; reject if a or b collides with any of the set's other
// (unreplaced) elements; merge (a, b) into remaining; and keep the result
// only if its M-value lands in [minM, maxM].
func emitMutation(remaining []uint64, a, b uint64, minM, maxM uint64, out OutFunc) {
	if a == b {
		return
	}
	if contains(remaining, a) || contains(remaining, b) {
		return
	}

	merged := insertSorted(insertSorted(remaining, a), b)

	result := merged[len(merged)-1]
	if result < minM || result > maxM {
		return
	}

	out(merged)
}

func contains(s []uint64, x uint64) bool {
	for _, v := range s {
		if v == x {
			return true
		}
	}
	return false
}

// remainingWithout returns a copy of s with the element at index i removed,
// preserving order.
func remainingWithout(s []uint64, i int) []uint64 {
	out := make([]uint64, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// insertSorted returns a new strictly ascending slice with x inserted into
// the already-sorted s. Behavior is undefined if x already appears in s;
// callers must check that first.
func insertSorted(s []uint64, x uint64) []uint64 {
	out := make([]uint64, len(s)+1)
	i := 0
	for i < len(s) && s[i] < x {
		out[i] = s[i]
		i++
	}
	out[i] = x
	copy(out[i+1:], s[i:])
	return out
}
