// Package nulltest implements the Exhaustive Nullifiability Tester: a
// recursive decision procedure for whether some sequence of the allowed
// binary operations (+, -, *, /, restricted to positive-integer
// intermediates) can reduce a set of values to zero.
package nulltest

// Test decides whether set is nullifiable: whether removing any two of its
// values and replacing them with their sum, product, absolute difference,
// or (when exactly one direction divides evenly) quotient, repeated down to
// a single value, can reach zero.
//
// Test is unconditional: it does not take an M-range. The Weed driver
// decides which residual sets to feed it; any M-range bounds are a
// driver-side filter only, not a tester-side pruning hint, since a
// replacement value outside an M-range may still lead to a nullifier
// deeper in the recursion.
func Test(set []uint64) bool {
	if hasZero(set) {
		return true
	}
	if hasDuplicate(set) {
		return true
	}

	switch len(set) {
	case 0:
		return false
	case 1:
		// set[0] != 0, checked above.
		return false
	case 2:
		// set[0] != set[1], checked above.
		return false
	case 3:
		return testTriple(set)
	default:
		return testGeneral(set)
	}
}

func hasZero(set []uint64) bool {
	for _, v := range set {
		if v == 0 {
			return true
		}
	}
	return false
}

func hasDuplicate(set []uint64) bool {
	for i := range set {
		for j := i + 1; j < len(set); j++ {
			if set[i] == set[j] {
				return true
			}
		}
	}
	return false
}

// testTriple is the closed-form check for size-3 sets with no zero or
// duplicate element: nullifiable iff one element equals the sum or product
// of the other two. Difference and quotient reductions to a pair are
// covered by the same check under a different choice of "target" element
// (e.g. a - b = c is the same fact as b + c = a).
func testTriple(set []uint64) bool {
	a, b, c := set[0], set[1], set[2]

	return a+b == c || a+c == b || b+c == a ||
		a*b == c || a*c == b || b*c == a
}

// testGeneral runs the full recursive step: for every unordered pair of
// positions, every reachable replacement value (sum, product, absolute
// difference, and the one valid quotient direction if any) forms a
// size-(k-1) successor; the set is nullifiable iff any successor is.
func testGeneral(set []uint64) bool {
	n := len(set)

	successor := make([]uint64, n-1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := set[i], set[j]

			for _, r := range replacements(a, b) {
				buildSuccessor(successor, set, i, j, r)
				if Test(successor) {
					return true
				}
			}
		}
	}

	return false
}

// replacements returns every value the recursive step may substitute for
// the pair (a, b), excluding zero (a zero replacement is always caught by
// the hasZero shortcut one level up, and would only waste a recursion).
func replacements(a, b uint64) []uint64 {
	out := make([]uint64, 0, 4)

	out = append(out, a+b)
	out = append(out, a*b)

	if d := diff(a, b); d != 0 {
		out = append(out, d)
	}

	if q, ok := exactQuotient(a, b); ok && q != 0 {
		out = append(out, q)
	}

	return out
}

func diff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// exactQuotient returns a/b or b/a, whichever divides evenly, provided
// exactly one direction does (both directions dividing evenly would
// require a == b, already excluded by the duplicate shortcut before this
// is reached).
func exactQuotient(a, b uint64) (uint64, bool) {
	aOverB := b != 0 && a%b == 0
	bOverA := a != 0 && b%a == 0

	switch {
	case aOverB && !bOverA:
		return a / b, true
	case bOverA && !aOverB:
		return b / a, true
	default:
		return 0, false
	}
}

// buildSuccessor fills dst with set's elements other than positions i and
// j, plus r, appended at the end. dst must have length len(set)-1.
func buildSuccessor(dst, set []uint64, i, j int, r uint64) {
	k := 0
	for idx, v := range set {
		if idx == i || idx == j {
			continue
		}
		dst[k] = v
		k++
	}
	dst[k] = r
}
