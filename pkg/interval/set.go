package interval

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Options configures a Set once at construction.
type Options struct {
	// MergeOnAdd folds every inserted interval into the existing members,
	// keeping the set sorted and pairwise non-overlapping at all
	// observable times. When false the set stores intervals exactly as
	// added; operations that need the merged view then work on a copy so
	// the stored sequence keeps its insertion order.
	MergeOnAdd bool
}

// DefaultOptions enables merge-on-add.
func DefaultOptions() Options {
	return Options{MergeOnAdd: true}
}

// Set is an ordered collection of intervals. The set owns its members:
// adding an interval hands it over, and merge, gap creation and chaining
// mutate members in place.
type Set struct {
	intervals  []*Interval
	mergeOnAdd bool
}

// NewSet returns a set holding the given intervals, merged and sorted
// when opts enables merge-on-add.
func NewSet(opts Options, ivals ...*Interval) *Set {
	r := &Set{mergeOnAdd: opts.MergeOnAdd}
	r.intervals = append(r.intervals, ivals...)
	if r.mergeOnAdd {
		r.intervals = Merge(r.intervals)
	}
	return r
}

// NewSetFromStrings parses every string per Parse and builds a set from
// the result.
func NewSetFromStrings(opts Options, ss ...string) (*Set, error) {
	ivals := make([]*Interval, 0, len(ss))
	for _, s := range ss {
		ival, err := Parse(s)
		if err != nil {
			return nil, err
		}
		ivals = append(ivals, ival)
	}
	return NewSet(opts, ivals...), nil
}

// Sort orders intervals in place: ascending by minimum value, a closed
// minimum before an open one at the same value. The sort is stable, fully
// tied members keep their relative order.
func Sort(ivals []*Interval) {
	sort.SliceStable(ivals, func(i, j int) bool { return ivals[i].Less(ivals[j]) })
}

// mergeable reports whether two sorted-adjacent intervals fold into one:
// they overlap, or they touch at a shared boundary value that at least
// one of the facing ends includes. [1, 5) and [5, 10) fold into [1, 10);
// [1, 5) and (5, 10] leave the point 5 uncovered and stay apart.
func mergeable(cur, next *Interval) bool {
	if cur.Overlaps(next) {
		return true
	}
	curMax, nextMin := cur.Max(), next.Min()
	return curMax.value == nextMin.value && (curMax.closed || nextMin.closed)
}

// Merge returns the minimal sorted cover of the given intervals: sorted
// ascending with no two members overlapping or silently touching. A
// mergeable pair collapses into the earlier member, which takes the
// numerically smaller minimum and larger maximum, a closed endpoint
// winning a value tie. The input slice is sorted in place and the result
// reuses its intervals.
func Merge(ivals []*Interval) []*Interval {
	if len(ivals) < 2 {
		return ivals
	}
	Sort(ivals)
	out := make([]*Interval, 1, len(ivals))
	out[0] = ivals[0]
	for _, next := range ivals[1:] {
		cur := out[len(out)-1]
		if !mergeable(cur, next) {
			out = append(out, next)
			continue
		}
		// Read both extremes before writing either: cur may store its
		// endpoints reversed, so assigning a first could clobber the
		// endpoint Max still has to read.
		lo := lowerOf(cur.Min(), next.Min())
		hi := upperOf(cur.Max(), next.Max())
		cur.a, cur.b = lo, hi
	}
	return out
}

// Add appends ival to the set. With merge-on-add the members are
// re-merged and re-sorted immediately; otherwise the interval is stored
// as given, after any existing members.
func (r *Set) Add(ival *Interval) {
	r.intervals = append(r.intervals, ival)
	if r.mergeOnAdd {
		r.intervals = Merge(r.intervals)
	}
}

// Remove drops every member whose canonical string form equals ival's.
func (r *Set) Remove(ival *Interval) {
	s := ival.String()
	keep := r.intervals[:0]
	for _, member := range r.intervals {
		if member.String() != s {
			keep = append(keep, member)
		}
	}
	r.intervals = keep
}

// RemoveByName drops every member carrying the given name.
func (r *Set) RemoveByName(name string) {
	keep := r.intervals[:0]
	for _, member := range r.intervals {
		if member.Name() != name {
			keep = append(keep, member)
		}
	}
	r.intervals = keep
}

// Clear empties the set.
func (r *Set) Clear() {
	r.intervals = nil
}

// Count returns the number of stored intervals.
func (r *Set) Count() int {
	return len(r.intervals)
}

// Has reports whether any member's canonical string form equals ival's.
func (r *Set) Has(ival *Interval) bool {
	s := ival.String()
	for _, member := range r.intervals {
		if member.String() == s {
			return true
		}
	}
	return false
}

// MergeOnAdd reports whether insertions re-merge the set.
func (r *Set) MergeOnAdd() bool {
	return r.mergeOnAdd
}

// GetAll returns the members in storage order. The slice is a copy, the
// intervals are the live members.
func (r *Set) GetAll() []*Interval {
	return append([]*Interval{}, r.intervals...)
}

// GetContaining returns every member containing x, in storage order.
func (r *Set) GetContaining(x Endpoint) []*Interval {
	var out []*Interval
	for _, member := range r.intervals {
		if member.Contains(x) {
			out = append(out, member)
		}
	}
	return out
}

// GetContainingValue returns every member containing the closed endpoint
// at v.
func (r *Set) GetContainingValue(v float64) []*Interval {
	return r.GetContaining(Closed(v))
}

// mergedView returns the members merged and sorted. With merge-on-add the
// live slice already is the merged view and is returned as is; otherwise
// the members are deep-copied first so the stored sequence keeps its
// insertion order.
func (r *Set) mergedView() []*Interval {
	if r.mergeOnAdd {
		return r.intervals
	}
	work := make([]*Interval, 0, len(r.intervals))
	for _, member := range r.intervals {
		work = append(work, member.Copy())
	}
	return Merge(work)
}

// Gaps returns the spans between consecutive members of the merged view,
// boundary sense inverted: the gap after [1, 5) starts at the closed 5.
// Two members that merely touch, such as [1, 5) and (5, 10], enclose the
// degenerate point gap [5, 5]. A candidate that cannot form a valid
// interval is skipped.
func (r *Set) Gaps() []*Interval {
	view := r.mergedView()
	var gaps []*Interval
	for i := 0; i < len(view)-1; i++ {
		cur, next := view[i], view[i+1]
		if mergeable(cur, next) {
			continue
		}
		if gap, err := New(cur.Max().Inverted(), next.Min().Inverted()); err == nil {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// GapsWithin returns the portions of q no member covers: a leading gap
// when the first member overlapping q starts above q's minimum, the spans
// between consecutive overlapping members, and a trailing gap when the
// last overlapping member ends below q's maximum. When nothing overlaps q
// the whole of q is the single gap. The merged view is used, the stored
// sequence is never mutated.
func (r *Set) GapsWithin(q *Interval) []*Interval {
	view := r.mergedView()
	overlapping := make([]*Interval, 0, len(view))
	for _, member := range view {
		if member.Overlaps(q) {
			overlapping = append(overlapping, member)
		}
	}
	if len(overlapping) == 0 {
		return []*Interval{q.Copy()}
	}

	var gaps []*Interval
	first := overlapping[0]
	if !first.Contains(q.Min()) {
		if gap, err := New(q.Min(), first.Min().Inverted()); err == nil {
			gaps = append(gaps, gap)
		}
	}
	for i := 0; i < len(overlapping)-1; i++ {
		cur, next := overlapping[i], overlapping[i+1]
		if mergeable(cur, next) {
			continue
		}
		if gap, err := New(cur.Max().Inverted(), next.Min().Inverted()); err == nil {
			gaps = append(gaps, gap)
		}
	}
	last := overlapping[len(overlapping)-1]
	if !last.Contains(q.Max()) {
		if gap, err := New(last.Max().Inverted(), q.Max()); err == nil {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// CreateGap carves q out of the stored coverage in place. A member
// containing only q's minimum is cut back to end just below it, a member
// containing only q's maximum is cut back to start just above it, a
// member containing both is split around q and a member containing
// neither is removed outright. A cut or split piece that collapses to an
// open point is dropped. Afterwards q overlaps no member. The carve is
// defined against the merged view; with merge-on-add disabled the caller
// is responsible for having merged overlapping members first.
func (r *Set) CreateGap(q *Interval) {
	out := make([]*Interval, 0, len(r.intervals))
	for _, member := range r.intervals {
		if !member.Overlaps(q) {
			out = append(out, member)
			continue
		}
		containsMin := member.Contains(q.Min())
		containsMax := member.Contains(q.Max())
		switch {
		case containsMin && containsMax:
			if low, err := NewNamed(member.Name(), member.Min(), q.Min().Inverted()); err == nil {
				out = append(out, low)
			}
			if high, err := NewNamed(member.Name(), q.Max().Inverted(), member.Max()); err == nil {
				out = append(out, high)
			}
		case containsMin:
			if err := member.SetMax(q.Min().Inverted()); err == nil {
				out = append(out, member)
			}
		case containsMax:
			if err := member.SetMin(q.Max().Inverted()); err == nil {
				out = append(out, member)
			}
		default:
			// Lies inside q, dropped.
		}
	}
	r.intervals = out
}

// Chain forces the members into a contiguous chain. The stored sequence
// is sorted in place and every member's minimum is rewritten to exactly
// abut its predecessor's maximum, same value with opposite closure; a
// rewrite the degenerate-point invariant rejects leaves that pair as is.
// Chaining disables merge-on-add permanently so later insertions cannot
// fold the deliberately abutting members together.
func (r *Set) Chain() {
	Sort(r.intervals)
	for i := 0; i < len(r.intervals)-1; i++ {
		cur, next := r.intervals[i], r.intervals[i+1]
		curMax, nextMin := cur.Max(), next.Min()
		if curMax.value == nextMin.value && curMax.closed != nextMin.closed {
			continue
		}
		_ = next.SetMin(Endpoint{value: curMax.value, closed: !curMax.closed})
	}
	r.mergeOnAdd = false
}

// Measure returns the total covered length of the merged view. Closure
// does not affect measure and a degenerate point contributes zero; any
// unbounded member makes the measure +Inf.
func (r *Set) Measure() float64 {
	view := r.mergedView()
	widths := make([]float64, 0, len(view))
	for _, member := range view {
		lo, hi := member.Min().value, member.Max().value
		if lo == hi {
			continue
		}
		widths = append(widths, hi-lo)
	}
	return floats.Sum(widths)
}

// String joins the members' canonical forms in storage order.
func (r *Set) String() string {
	ss := make([]string, 0, len(r.intervals))
	for _, member := range r.intervals {
		ss = append(ss, member.String())
	}
	return strings.Join(ss, ", ")
}
