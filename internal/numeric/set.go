package numeric

import (
	"math"
	"slices"
	"sort"
)

// Set is a finite union of closed intervals.
//
// INVARIANTS (established by NewSet, relied on by every operator):
//   - intervals are sorted ascending by min
//   - consecutive intervals a, b satisfy a.max < b.min strictly
//   - the empty set holds zero intervals
//
// Set is immutable. The zero value is the empty set.
type Set struct {
	ivs []Interval
}

// Empty returns the empty set.
func Empty() Set {
	return Set{}
}

// NewSet flattens intervals and every interval of nested, sorts by min and
// coalesces intervals that overlap or touch. It is the only way a non-empty
// Set is built.
func NewSet(intervals []Interval, nested ...Set) Set {
	n := len(intervals)
	for _, s := range nested {
		n += len(s.ivs)
	}
	if n == 0 {
		return Set{}
	}

	buf := make([]Interval, 0, n)
	buf = append(buf, intervals...)
	for _, s := range nested {
		buf = append(buf, s.ivs...)
	}

	slices.SortFunc(buf, func(a, b Interval) int {
		switch {
		case a.min < b.min:
			return -1
		case a.min > b.min:
			return 1
		default:
			return 0
		}
	})

	merged := buf[:1]
	for _, next := range buf[1:] {
		cur := &merged[len(merged)-1]
		if cur.max >= next.min {
			cur.max = max(cur.max, next.max)
			continue
		}
		merged = append(merged, next)
	}
	return Set{ivs: slices.Clip(merged)}
}

// Singleton returns {[v, v]}.
func Singleton(v float64) (Set, error) {
	iv, err := Point(v)
	if err != nil {
		return Set{}, err
	}
	return NewSet([]Interval{iv}), nil
}

// Discrete returns the set of the given points.
func Discrete(values ...float64) (Set, error) {
	ivs := make([]Interval, 0, len(values))
	for _, v := range values {
		iv, err := Point(v)
		if err != nil {
			return Set{}, err
		}
		ivs = append(ivs, iv)
	}
	return NewSet(ivs), nil
}

// Of is shorthand for a set of one interval.
func Of(iv Interval) Set {
	return NewSet([]Interval{iv})
}

// Intervals returns a caller-owned copy of the member intervals.
// The empty set yields a zero-length, non-nil slice.
func (s Set) Intervals() []Interval {
	out := make([]Interval, len(s.ivs))
	copy(out, s.ivs)
	return out
}

// Len returns the number of member intervals.
func (s Set) Len() int {
	return len(s.ivs)
}

func (s Set) IsEmpty() bool {
	return len(s.ivs) == 0
}

// Min returns the smallest element.
func (s Set) Min() (float64, error) {
	if s.IsEmpty() {
		return 0, opErr("min", ErrEmpty)
	}
	return s.ivs[0].min, nil
}

// Max returns the largest element.
func (s Set) Max() (float64, error) {
	if s.IsEmpty() {
		return 0, opErr("max", ErrEmpty)
	}
	return s.ivs[len(s.ivs)-1].max, nil
}

// Hull returns the smallest interval covering the whole set.
func (s Set) Hull() (Interval, error) {
	if s.IsEmpty() {
		return Interval{}, opErr("hull", ErrEmpty)
	}
	return Interval{min: s.ivs[0].min, max: s.ivs[len(s.ivs)-1].max}, nil
}

// IsSingleElement reports whether the set is exactly one point.
func (s Set) IsSingleElement() bool {
	return len(s.ivs) == 1 && s.ivs[0].IsSingleElement()
}

// IsFinite reports whether every member interval is bounded.
func (s Set) IsFinite() bool {
	for _, iv := range s.ivs {
		if !iv.IsFinite() {
			return false
		}
	}
	return true
}

// IsUnbounded reports whether any member interval is unbounded.
func (s Set) IsUnbounded() bool {
	return !s.IsFinite()
}

// Contains reports whether x is an element of s.
func (s Set) Contains(x float64) bool {
	idx := s.bisect(x)
	return idx > 0 && s.ivs[idx-1].Contains(x)
}

// Equal reports whether s and o hold the same intervals.
func (s Set) Equal(o Set) bool {
	return slices.Equal(s.ivs, o.ivs)
}

// bisect returns the number of intervals whose min is <= target.
func (s Set) bisect(target float64) int {
	return sort.Search(len(s.ivs), func(i int) bool {
		return s.ivs[i].min > target
	})
}

// ClosestElem returns the element of s nearest to target. A contained
// target is returned unchanged. Between two intervals the nearer boundary
// wins and exact ties go to the lower boundary. A NaN target has no
// nearest element and fails with ErrNaNTarget.
func (s Set) ClosestElem(target float64) (float64, error) {
	if s.IsEmpty() {
		return 0, opErr("closest_elem", ErrEmpty)
	}
	if math.IsNaN(target) {
		return 0, opErr("closest_elem", ErrNaNTarget)
	}

	idx := s.bisect(target)
	if idx == 0 {
		return s.ivs[0].min, nil
	}
	left := s.ivs[idx-1]
	if left.Contains(target) {
		return target, nil
	}
	if idx == len(s.ivs) {
		return left.max, nil
	}
	right := s.ivs[idx].min
	if target-left.max <= right-target {
		return left.max, nil
	}
	return right, nil
}
