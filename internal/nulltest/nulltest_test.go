package nulltest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/j12bates/innullifiability-go/internal/nulltest"
)

func Test_Empty_Set_Is_Innullifiable(t *testing.T) {
	t.Parallel()
	require.False(t, nulltest.Test(nil))
}

func Test_Singleton_Nullifiable_Iff_Zero(t *testing.T) {
	t.Parallel()
	require.True(t, nulltest.Test([]uint64{0}))
	require.False(t, nulltest.Test([]uint64{2}))
}

func Test_Pair_Nullifiable_Iff_Equal(t *testing.T) {
	t.Parallel()
	require.True(t, nulltest.Test([]uint64{2, 2}))
	require.False(t, nulltest.Test([]uint64{2, 3}))
}

func Test_Any_Zero_Element_Is_An_Immediate_Shortcut(t *testing.T) {
	t.Parallel()
	require.True(t, nulltest.Test([]uint64{5, 9, 0, 3}))
}

func Test_Any_Duplicate_Element_Is_An_Immediate_Shortcut(t *testing.T) {
	t.Parallel()
	require.True(t, nulltest.Test([]uint64{5, 9, 3, 9}))
}

// Test_Literal_Verdicts pins hand-checked verdicts for a few concrete
// inputs. The triple (2,6,15) is deliberately absent: tracing the
// recursive step (the only two-element reduction paths reach {8,4,12,3}
// vs 15, {17,13,30} vs 6, and {21,9,90} vs 2, none of which equate)
// yields innullifiable -- see the internal/nulltest entry of DESIGN.md's
// grounding ledger.
func Test_Literal_Verdicts(t *testing.T) {
	t.Parallel()

	require.False(t, nulltest.Test([]uint64{1, 4, 6, 8}), "(1,4,6,8) must be innullifiable")
	require.False(t, nulltest.Test([]uint64{1, 4, 6, 9}), "(1,4,6,9) must be innullifiable")
	require.True(t, nulltest.Test([]uint64{0}))
	require.False(t, nulltest.Test([]uint64{2}))
	require.True(t, nulltest.Test([]uint64{2, 2}))
}

// Test_Known_Innullifiable_Sets_Are_Confirmed_By_Tester checks that every
// one of the ten known innullifiable sets of size 4 over {1..9} is
// classified innullifiable, independent of how generation would have found
// them.
func Test_Known_Innullifiable_Sets_Are_Confirmed_By_Tester(t *testing.T) {
	t.Parallel()

	innullifiable := [][]uint64{
		{1, 4, 6, 8}, {1, 4, 6, 9}, {1, 5, 7, 9}, {3, 6, 7, 8}, {3, 7, 8, 9},
		{4, 5, 6, 8}, {4, 6, 7, 8}, {4, 6, 8, 9}, {5, 6, 7, 9}, {5, 7, 8, 9},
	}

	for _, s := range innullifiable {
		require.False(t, nulltest.Test(s), "%v must be innullifiable", s)
	}
}

// Test_Every_Other_Size4_Subset_Of_1to9_Is_Nullifiable cross-checks the
// known answer in the other direction: every strictly ascending 4-subset
// of {1..9} NOT among the ten innullifiable sets must be nullifiable.
func Test_Every_Other_Size4_Subset_Of_1to9_Is_Nullifiable(t *testing.T) {
	t.Parallel()

	innullifiable := map[[4]uint64]bool{
		{1, 4, 6, 8}: true, {1, 4, 6, 9}: true, {1, 5, 7, 9}: true, {3, 6, 7, 8}: true,
		{3, 7, 8, 9}: true, {4, 5, 6, 8}: true, {4, 6, 7, 8}: true, {4, 6, 8, 9}: true,
		{5, 6, 7, 9}: true, {5, 7, 8, 9}: true,
	}

	count := 0
	for a := uint64(1); a <= 9; a++ {
		for b := a + 1; b <= 9; b++ {
			for c := b + 1; c <= 9; c++ {
				for d := c + 1; d <= 9; d++ {
					s := [4]uint64{a, b, c, d}
					count++
					if innullifiable[s] {
						require.False(t, nulltest.Test(s[:]), "%v is in the answer set and must be innullifiable", s)
					} else {
						require.True(t, nulltest.Test(s[:]), "%v is not in the answer set and must be nullifiable", s)
					}
				}
			}
		}
	}
	require.Equal(t, 126, count) // C(9,4)
}

func Test_Triple_Closed_Form_Sum_And_Product_Cases(t *testing.T) {
	t.Parallel()

	nullifiable := [][3]uint64{
		{1, 2, 3}, // 1+2=3
		{2, 3, 6}, // 2*3=6
		{1, 5, 6}, // 1+5=6
		{2, 4, 8}, // 2*4=8
		{3, 4, 7}, // 3+4=7
		{4, 5, 9}, // 4+5=9
		{2, 3, 5}, // 2+3=5
	}
	for _, s := range nullifiable {
		require.True(t, nulltest.Test(s[:]), "%v must be nullifiable", s)
	}

	require.False(t, nulltest.Test([]uint64{1, 2, 5}), "(1,2,5) has no sum/product relation among its elements")
}
