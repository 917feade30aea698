package numeric

import "math"

// Interval is a closed range [min, max] of float64 values.
//
// INVARIANTS:
//   - min <= max
//   - neither bound is NaN
//   - bounds may be ±Inf
//
// Interval is a value type. Every operation returns a new Interval or Set.
// The zero value is the single point [0, 0].
type Interval struct {
	min float64
	max float64
}

// NewInterval validates and constructs [min, max].
// Negative zero bounds are stored as +0 so equal intervals compare and
// hash identically.
func NewInterval(min, max float64) (Interval, error) {
	if math.IsNaN(min) {
		return Interval{}, ErrNaNMin
	}
	if math.IsNaN(max) {
		return Interval{}, ErrNaNMax
	}
	if min > max {
		return Interval{}, ErrInvalidBounds
	}
	return Interval{min: min + 0, max: max + 0}, nil
}

// MustInterval is like NewInterval but panics on error.
// Use only in tests or for bounds known to be valid.
func MustInterval(min, max float64) Interval {
	iv, err := NewInterval(min, max)
	if err != nil {
		panic(err)
	}
	return iv
}

// Point returns the single-element interval [v, v].
func Point(v float64) (Interval, error) {
	return NewInterval(v, v)
}

// FromCenter returns [center-tol, center+tol].
func FromCenter(center, tol float64) (Interval, error) {
	return NewInterval(center-tol, center+tol)
}

// FromCenterRel returns the interval center ± |center*rel|.
func FromCenterRel(center, rel float64) (Interval, error) {
	d := math.Abs(center * rel)
	return NewInterval(center-d, center+d)
}

// Unbounded returns (-Inf, +Inf).
func Unbounded() Interval {
	return Interval{min: math.Inf(-1), max: math.Inf(1)}
}

// build assembles an interval from bounds computed by an operator whose
// result is already known to be ordered. Inf-Inf cancellation produces NaN,
// which widens to the corresponding infinity.
func build(min, max float64) Interval {
	if math.IsNaN(min) {
		min = math.Inf(-1)
	}
	if math.IsNaN(max) {
		max = math.Inf(1)
	}
	return Interval{min: min + 0, max: max + 0}
}

func (i Interval) Min() float64 { return i.min }
func (i Interval) Max() float64 { return i.max }

// Width returns max - min. Unbounded intervals have infinite width.
func (i Interval) Width() float64 {
	if i.min == i.max {
		return 0
	}
	return i.max - i.min
}

// IsSingleElement reports whether the interval is a single point.
func (i Interval) IsSingleElement() bool {
	return i.min == i.max
}

// IsInteger reports whether the interval is a single integral point.
func (i Interval) IsInteger() bool {
	return i.IsSingleElement() && !math.IsInf(i.min, 0) && math.Trunc(i.min) == i.min
}

// IsFinite reports whether both bounds are finite.
func (i Interval) IsFinite() bool {
	return !math.IsInf(i.min, 0) && !math.IsInf(i.max, 0)
}

// IsUnbounded reports whether either bound is infinite.
func (i Interval) IsUnbounded() bool {
	return !i.IsFinite()
}

// IsSubsetOf reports whether i lies entirely inside o.
func (i Interval) IsSubsetOf(o Interval) bool {
	return i.min >= o.min && i.max <= o.max
}

// Contains reports whether x lies in [min, max].
func (i Interval) Contains(x float64) bool {
	return i.min <= x && x <= i.max
}

// Equal reports exact bound equality.
func (i Interval) Equal(o Interval) bool {
	return i.min == o.min && i.max == o.max
}

// AsCenterRel returns the midpoint and the half-width relative to it.
// Single points have rel 0. Unbounded intervals report (min, +Inf), and a
// zero midpoint reports rel +Inf.
func (i Interval) AsCenterRel() (center, rel float64) {
	if i.min == i.max {
		return i.min, 0
	}
	if !i.IsFinite() {
		return i.min, math.Inf(1)
	}
	center = (i.min + i.max) / 2
	if center == 0 {
		return center, math.Inf(1)
	}
	return center, math.Abs((i.max - i.min) / 2 / center)
}
