package interval

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func parseAll(t *testing.T, ss ...string) []*Interval {
	t.Helper()
	ivals := make([]*Interval, 0, len(ss))
	for _, s := range ss {
		ivals = append(ivals, MustParse(s))
	}
	return ivals
}

func canonical(ivals []*Interval) []string {
	ss := make([]string, 0, len(ivals))
	for _, ival := range ivals {
		ss = append(ss, ival.String())
	}
	return ss
}

func TestSort(t *testing.T) {
	cases := map[string]struct {
		intervals []string
		expected  []string
	}{
		"ByMinValue": {
			intervals: []string{"[10, 15)", "[1, 5)", "[6, 8)"},
			expected:  []string{"[1, 5)", "[6, 8)", "[10, 15)"},
		},
		"ClosedMinBeforeOpenMin": {
			intervals: []string{"(5, 8)", "[5, 6)", "(5, 7)"},
			expected:  []string{"[5, 6)", "(5, 8)", "(5, 7)"},
		},
		"StableOnFullTie": {
			intervals: []string{"[1, 9)", "[1, 5)"},
			expected:  []string{"[1, 9)", "[1, 5)"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ivals := parseAll(t, tc.intervals...)
			Sort(ivals)
			if diff := cmp.Diff(tc.expected, canonical(ivals)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cases := map[string]struct {
		intervals []string
		expected  []string
	}{
		"Disjoint": {
			intervals: []string{"[1, 5)", "[10, 15)"},
			expected:  []string{"[1, 5)", "[10, 15)"},
		},
		"Overlapping": {
			intervals: []string{"[1, 5)", "[4, 10)"},
			expected:  []string{"[1, 10)"},
		},
		"TouchingClosedOpen": {
			intervals: []string{"[1, 5)", "[5, 10)"},
			expected:  []string{"[1, 10)"},
		},
		"TouchingBothClosed": {
			intervals: []string{"[1, 5]", "[5, 10]"},
			expected:  []string{"[1, 10]"},
		},
		"TouchingClosedThenOpen": {
			intervals: []string{"[1, 5]", "(5, 10]"},
			expected:  []string{"[1, 10]"},
		},
		"TouchingBothOpenStaysApart": {
			intervals: []string{"[1, 5)", "(5, 10]"},
			expected:  []string{"[1, 5)", "(5, 10]"},
		},
		"Contained": {
			intervals: []string{"[1, 10)", "[3, 5)"},
			expected:  []string{"[1, 10)"},
		},
		"ClosedMaxWinsValueTie": {
			intervals: []string{"[1, 5)", "[1, 5]"},
			expected:  []string{"[1, 5]"},
		},
		"ClosedMinWinsValueTie": {
			intervals: []string{"(1, 6)", "[1, 5)"},
			expected:  []string{"[1, 6)"},
		},
		"ChainCollapse": {
			intervals: []string{"[1, 3)", "[3, 5)", "[5, 7)", "[7, 9)"},
			expected:  []string{"[1, 9)"},
		},
		"DegeneratePointAbsorbed": {
			intervals: []string{"[5, 5]", "(5, 10]"},
			expected:  []string{"[5, 10]"},
		},
		"DegeneratePointAlone": {
			intervals: []string{"[5, 5]", "[7, 9)"},
			expected:  []string{"[5, 5]", "[7, 9)"},
		},
		"Unsorted": {
			intervals: []string{"[10, 15)", "[1, 5)", "[4, 11)"},
			expected:  []string{"[1, 15)"},
		},
		// The string form never encodes which value is smaller; members
		// stored with a holding the maximum must merge like any other.
		"ReversedStorageKeepsMax": {
			intervals: []string{"[20, 1]", "[5, 10]"},
			expected:  []string{"[1, 20]"},
		},
		"ReversedStorageBothSides": {
			intervals: []string{"[8, 1)", "(15, 6]"},
			expected:  []string{"(1, 15)"},
		},
		"Single": {
			intervals: []string{"[1, 5)"},
			expected:  []string{"[1, 5)"},
		},
		"Empty": {
			intervals: nil,
			expected:  []string{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			merged := Merge(parseAll(t, tc.intervals...))
			if diff := cmp.Diff(tc.expected, canonical(merged)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			// Idempotence: merging the merged result changes nothing.
			again := Merge(merged)
			if diff := cmp.Diff(tc.expected, canonical(again)); diff != "" {
				t.Errorf("%s not idempotent: -want, +got:\n%s", name, diff)
			}
			// The result is sorted and pairwise non-mergeable.
			for i := 0; i < len(again)-1; i++ {
				assert.False(t, again[i+1].Less(again[i]))
				assert.False(t, mergeable(again[i], again[i+1]))
			}
		})
	}
}

func TestMergePermutations(t *testing.T) {
	// "(5, 1]" and "[15, 12]" spell their intervals backwards, so two of
	// the five members store a as the maximum.
	intervals := []string{"(5, 1]", "[5, 10)", "[15, 12]", "(15, 20]", "[14, 14]"}
	expected := []string{"[1, 10)", "[12, 20]"}

	// Enumerate all orderings of a five element input deterministically.
	var permute func(ss []string, k int, visit func([]string))
	permute = func(ss []string, k int, visit func([]string)) {
		if k == len(ss) {
			visit(ss)
			return
		}
		for i := k; i < len(ss); i++ {
			ss[k], ss[i] = ss[i], ss[k]
			permute(ss, k+1, visit)
			ss[k], ss[i] = ss[i], ss[k]
		}
	}
	permute(intervals, 0, func(ss []string) {
		merged := Merge(parseAll(t, ss...))
		if diff := cmp.Diff(expected, canonical(merged)); diff != "" {
			t.Fatalf("order %v: -want, +got:\n%s", ss, diff)
		}
	})
}

func TestReversedStorageMembers(t *testing.T) {
	// Members built with a holding the larger value behave exactly like
	// their normal-order twins in every merge-routed operation.
	reversed := func(lo, hi float64) *Interval {
		ival, err := New(Closed(hi), Closed(lo))
		assert.NoError(t, err)
		return ival
	}

	r := NewSet(DefaultOptions(), reversed(1, 20), reversed(5, 10))
	assert.Equal(t, "[1, 20]", r.String())
	assert.Equal(t, float64(19), r.Measure())

	r = NewSet(DefaultOptions(), reversed(1, 5), reversed(10, 15))
	gaps := r.Gaps()
	assert.Len(t, gaps, 1)
	assert.Equal(t, "(5, 10)", gaps[0].String())

	expected := []string{"[0, 1)", "(5, 10)", "(15, 20)"}
	if diff := cmp.Diff(expected, canonical(r.GapsWithin(MustParse("[0, 20)")))); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestMergePreservesMeasure(t *testing.T) {
	cases := map[string]struct {
		intervals []string
		expected  float64
	}{
		"DisjointSum":    {intervals: []string{"[1, 5)", "[10, 15)"}, expected: 9},
		"OverlapCounted": {intervals: []string{"[1, 5)", "[4, 10)"}, expected: 9},
		"Touching":       {intervals: []string{"[1, 5)", "[5, 10)"}, expected: 9},
		"Degenerate":     {intervals: []string{"[5, 5]"}, expected: 0},
		"Unbounded":      {intervals: []string{"[1, 5)", "[10, Infinity]"}, expected: math.Inf(1)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			unmerged := NewSet(Options{MergeOnAdd: false}, parseAll(t, tc.intervals...)...)
			merged := NewSet(DefaultOptions(), parseAll(t, tc.intervals...)...)
			assert.Equal(t, tc.expected, unmerged.Measure())
			assert.Equal(t, tc.expected, merged.Measure())
		})
	}
}

func TestAddMergeOnAdd(t *testing.T) {
	r := NewSet(DefaultOptions())
	r.Add(MustParse("[1, 5)"))
	r.Add(MustParse("[5, 10)"))

	containing := r.GetContainingValue(5)
	assert.Len(t, containing, 1)
	assert.Equal(t, "[1, 10)", containing[0].String())
	assert.Equal(t, 1, r.Count())
}

func TestAddWithoutMerge(t *testing.T) {
	r := NewSet(Options{MergeOnAdd: false})
	r.Add(MustParse("[10, 15)"))
	r.Add(MustParse("[1, 5)"))

	// Insertion order is preserved, nothing is merged.
	expected := []string{"[10, 15)", "[1, 5)"}
	if diff := cmp.Diff(expected, canonical(r.GetAll())); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestNewSetFromStrings(t *testing.T) {
	r, err := NewSetFromStrings(DefaultOptions(), "[10, 15)", "[1, 5)", "[4, 10)")
	assert.NoError(t, err)
	assert.Equal(t, "[1, 15)", r.String())

	_, err = NewSetFromStrings(DefaultOptions(), "[1, 5)", "oops")
	assert.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestRemove(t *testing.T) {
	r, err := NewSetFromStrings(Options{MergeOnAdd: false}, "[1, 5)", "[10, 15)", "[1, 5)")
	assert.NoError(t, err)

	assert.True(t, r.Has(MustParse("[1, 5)")))
	r.Remove(MustParse("[1, 5)"))
	assert.False(t, r.Has(MustParse("[1, 5)")))
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, "[10, 15)", r.String())

	r.Clear()
	assert.Equal(t, 0, r.Count())
}

func TestRemoveByName(t *testing.T) {
	low, err := NewNamed("low", Closed(1), Open(5))
	assert.NoError(t, err)
	high, err := NewNamed("high", Closed(10), Open(15))
	assert.NoError(t, err)

	r := NewSet(Options{MergeOnAdd: false}, low, high)
	r.RemoveByName("low")
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, "[10, 15)", r.String())

	// Unknown names drop nothing.
	r.RemoveByName("unknown")
	assert.Equal(t, 1, r.Count())
}

func TestGetContaining(t *testing.T) {
	r, err := NewSetFromStrings(Options{MergeOnAdd: false}, "[1, 5)", "[4, 10)", "[20, 30)")
	assert.NoError(t, err)

	expected := []string{"[1, 5)", "[4, 10)"}
	if diff := cmp.Diff(expected, canonical(r.GetContainingValue(4))); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	assert.Empty(t, r.GetContaining(Open(1)))
	assert.Len(t, r.GetContaining(Closed(1)), 1)
	assert.Empty(t, r.GetContainingValue(15))
}

func TestGaps(t *testing.T) {
	cases := map[string]struct {
		mergeOnAdd bool
		intervals  []string
		expected   []string
	}{
		"Simple": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)", "[10, 15)"},
			expected:   []string{"[5, 10)"},
		},
		"InvertedClosure": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5]", "(10, 15)"},
			expected:   []string{"(5, 10]"},
		},
		"PointGapBetweenOpenEnds": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)", "(5, 10]"},
			expected:   []string{"[5, 5]"},
		},
		"UnsortedUnmerged": {
			mergeOnAdd: false,
			intervals:  []string{"[10, 15)", "[4, 11)", "[1, 5)"},
			expected:   []string{},
		},
		"UnmergedWithGap": {
			mergeOnAdd: false,
			intervals:  []string{"[10, 15)", "[1, 5)"},
			expected:   []string{"[5, 10)"},
		},
		"SingleMember": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)"},
			expected:   []string{},
		},
		"Empty": {
			mergeOnAdd: true,
			intervals:  nil,
			expected:   []string{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewSetFromStrings(Options{MergeOnAdd: tc.mergeOnAdd}, tc.intervals...)
			assert.NoError(t, err)
			gaps := r.Gaps()
			if diff := cmp.Diff(tc.expected, canonical(gaps)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			// The stored sequence is untouched.
			if diff := cmp.Diff(tc.intervals, canonical(r.GetAll())); tc.intervals != nil && !tc.mergeOnAdd && diff != "" {
				t.Errorf("%s mutated the live set: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestGapsWithin(t *testing.T) {
	cases := map[string]struct {
		mergeOnAdd bool
		intervals  []string
		q          string
		expected   []string
	}{
		"BoundedQuery": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)", "[10, 15)"},
			q:          "[0, 20)",
			expected:   []string{"[0, 1)", "[5, 10)", "[15, 20)"},
		},
		"UnsortedMergeDisabled": {
			mergeOnAdd: false,
			intervals:  []string{"[10, 15)", "[1, 5)"},
			q:          "[0, 20)",
			expected:   []string{"[0, 1)", "[5, 10)", "[15, 20)"},
		},
		"NoOverlapQueryIsTheGap": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)"},
			q:          "[10, 20)",
			expected:   []string{"[10, 20)"},
		},
		"EmptySet": {
			mergeOnAdd: true,
			intervals:  nil,
			q:          "(0, 7]",
			expected:   []string{"(0, 7]"},
		},
		"FullyCovered": {
			mergeOnAdd: true,
			intervals:  []string{"[0, 100]"},
			q:          "[5, 10)",
			expected:   []string{},
		},
		"LeadingOnly": {
			mergeOnAdd: true,
			intervals:  []string{"[5, 30)"},
			q:          "[0, 20)",
			expected:   []string{"[0, 5)"},
		},
		"TrailingOnly": {
			mergeOnAdd: true,
			intervals:  []string{"[0, 10)"},
			q:          "[5, 20)",
			expected:   []string{"[10, 20)"},
		},
		"PointUncoveredAtSharedValue": {
			mergeOnAdd: true,
			intervals:  []string{"(1, 10)"},
			q:          "[1, 3)",
			expected:   []string{"[1, 1]"},
		},
		"OpenQueryMinAgainstClosedCover": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 10)"},
			q:          "(1, 20)",
			expected:   []string{"[10, 20)"},
		},
		"UnboundedQuery": {
			mergeOnAdd: true,
			intervals:  []string{"[1, 5)"},
			q:          "[-Infinity, Infinity]",
			expected:   []string{"[-Infinity, 1)", "[5, Infinity]"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewSetFromStrings(Options{MergeOnAdd: tc.mergeOnAdd}, tc.intervals...)
			assert.NoError(t, err)
			gaps := r.GapsWithin(MustParse(tc.q))
			if diff := cmp.Diff(tc.expected, canonical(gaps)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			if !tc.mergeOnAdd {
				// Insertion order survives the query.
				if diff := cmp.Diff(tc.intervals, canonical(r.GetAll())); diff != "" {
					t.Errorf("%s mutated the live set: -want, +got:\n%s", name, diff)
				}
			}
		})
	}
}

func TestCreateGap(t *testing.T) {
	cases := map[string]struct {
		intervals []string
		q         string
		expected  []string
	}{
		"SplitUnbounded": {
			intervals: []string{"[-Infinity, Infinity]"},
			q:         "[1, 5)",
			expected:  []string{"[-Infinity, 1)", "[5, Infinity]"},
		},
		"SplitInside": {
			intervals: []string{"[0, 100]"},
			q:         "(10, 20)",
			expected:  []string{"[0, 10]", "[20, 100]"},
		},
		"TruncateRight": {
			intervals: []string{"[1, 5)"},
			q:         "[3, 10)",
			expected:  []string{"[1, 3)"},
		},
		"TruncateLeft": {
			intervals: []string{"[5, 15)"},
			q:         "[0, 10)",
			expected:  []string{"[10, 15)"},
		},
		"DropContained": {
			intervals: []string{"[1, 5)", "[6, 8)", "[10, 15)"},
			q:         "[0, 20)",
			expected:  []string{},
		},
		"CarveAcrossMembers": {
			intervals: []string{"[1, 5)", "[6, 8)", "[10, 15)"},
			q:         "[4, 12)",
			expected:  []string{"[1, 4)", "[12, 15)"},
		},
		"ExactMemberRemoved": {
			intervals: []string{"[1, 5]", "[10, 15]"},
			q:         "[1, 5]",
			expected:  []string{"[10, 15]"},
		},
		"SharedStartTruncates": {
			intervals: []string{"[1, 5)"},
			q:         "[1, 3)",
			expected:  []string{"[3, 5)"},
		},
		"OpenCarveKeepsBoundary": {
			intervals: []string{"[0, 10]"},
			q:         "(3, 10]",
			expected:  []string{"[0, 3]"},
		},
		"DisjointUntouched": {
			intervals: []string{"[1, 5)"},
			q:         "[10, 20)",
			expected:  []string{"[1, 5)"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewSetFromStrings(DefaultOptions(), tc.intervals...)
			assert.NoError(t, err)
			q := MustParse(tc.q)
			r.CreateGap(q)
			if diff := cmp.Diff(tc.expected, canonical(r.GetAll())); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			// q is disjoint from every remaining member.
			for _, member := range r.GetAll() {
				assert.False(t, member.Overlaps(q))
			}
		})
	}
}

func TestCreateGapKeepsNames(t *testing.T) {
	ival, err := NewNamed("band", Closed(0), Closed(100))
	assert.NoError(t, err)
	r := NewSet(DefaultOptions(), ival)
	r.CreateGap(MustParse("(10, 20)"))

	members := r.GetAll()
	assert.Len(t, members, 2)
	for _, member := range members {
		assert.Equal(t, "band", member.Name())
	}
}

func TestChain(t *testing.T) {
	r, err := NewSetFromStrings(DefaultOptions(), "[1, 5)", "[8, 15)")
	assert.NoError(t, err)
	r.Chain()

	expected := []string{"[1, 5)", "[5, 15)"}
	if diff := cmp.Diff(expected, canonical(r.GetAll())); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	assert.False(t, r.MergeOnAdd())

	// Later additions are stored verbatim, the chain is not re-merged.
	r.Add(MustParse("[5, 30)"))
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, "[1, 5), [5, 15), [5, 30)", r.String())
}

func TestChainClosures(t *testing.T) {
	cases := map[string]struct {
		intervals []string
		expected  []string
	}{
		"GapClosedUp": {
			intervals: []string{"[1, 5)", "[8, 15)"},
			expected:  []string{"[1, 5)", "[5, 15)"},
		},
		"AlreadyAbutting": {
			intervals: []string{"[1, 5)", "[5, 15)"},
			expected:  []string{"[1, 5)", "[5, 15)"},
		},
		"ClosedMaxForcesOpenMin": {
			intervals: []string{"[1, 5]", "(9, 15)"},
			expected:  []string{"[1, 5]", "(5, 15)"},
		},
		"SameValueSameClosureRewritten": {
			intervals: []string{"[1, 5]", "[5, 15)"},
			expected:  []string{"[1, 5]", "(5, 15)"},
		},
		"ThreeBands": {
			intervals: []string{"[1, 5)", "[8, 15)", "[20, 30]"},
			expected:  []string{"[1, 5)", "[5, 15)", "[15, 30]"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewSetFromStrings(Options{MergeOnAdd: false}, tc.intervals...)
			assert.NoError(t, err)
			r.Chain()
			if diff := cmp.Diff(tc.expected, canonical(r.GetAll())); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	r, err := NewSetFromStrings(DefaultOptions(), "[1, 5)", "[10, 15)", "[14, 20]", "[30, 30]")
	assert.NoError(t, err)
	assert.Equal(t, float64(14), r.Measure())

	r.Add(MustParse("[100, Infinity)"))
	assert.True(t, math.IsInf(r.Measure(), 1))

	assert.Equal(t, float64(0), NewSet(DefaultOptions()).Measure())
}
