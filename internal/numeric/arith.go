package numeric

import "math"

// Add returns [i.min+o.min, i.max+o.max].
func (i Interval) Add(o Interval) Interval {
	return build(i.min+o.min, i.max+o.max)
}

// Negate returns [-max, -min].
func (i Interval) Negate() Interval {
	return build(-i.max, -i.min)
}

// Subtract returns i + (-o).
func (i Interval) Subtract(o Interval) Interval {
	return i.Add(o.Negate())
}

// mul is multiplication with 0 * ±Inf defined as 0.
func mul(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b
}

// Multiply returns the hull of the four corner products.
func (i Interval) Multiply(o Interval) Interval {
	c1 := mul(i.min, o.min)
	c2 := mul(i.min, o.max)
	c3 := mul(i.max, o.min)
	c4 := mul(i.max, o.max)
	return build(min(c1, c2, c3, c4), max(c1, c2, c3, c4))
}

// Invert returns {1/x : x in i}.
//
//	[0, 0]           -> {}
//	min < 0 < max    -> (-Inf, 1/min] ∪ [1/max, +Inf)
//	min < 0, max = 0 -> (-Inf, 1/min]
//	min = 0, max > 0 -> [1/max, +Inf)
//	otherwise        -> [1/max, 1/min]
func (i Interval) Invert() Set {
	neg, pos := math.Inf(-1), math.Inf(1)
	switch {
	case i.min == 0 && i.max == 0:
		return Empty()
	case i.min < 0 && i.max > 0:
		return NewSet([]Interval{build(neg, 1/i.min), build(1/i.max, pos)})
	case i.min < 0 && i.max == 0:
		return NewSet([]Interval{build(neg, 1/i.min)})
	case i.min == 0 && i.max > 0:
		return NewSet([]Interval{build(1/i.max, pos)})
	default:
		return NewSet([]Interval{build(1/i.max, 1/i.min)})
	}
}

// Divide multiplies i by every piece of o.Invert().
func (i Interval) Divide(o Interval) Set {
	inv := o.Invert()
	products := make([]Interval, 0, len(inv.ivs))
	for _, piece := range inv.ivs {
		products = append(products, i.Multiply(piece))
	}
	return NewSet(products)
}

// Intersect returns the overlap of i and o, or ErrEmpty when disjoint.
func (i Interval) Intersect(o Interval) (Interval, error) {
	lo := max(i.min, o.min)
	hi := min(i.max, o.max)
	if lo > hi {
		return Interval{}, opErr("intersect", ErrEmpty)
	}
	return Interval{min: lo, max: hi}, nil
}

// Difference removes o from i. Bounds are closed, so the boundary points of
// o remain in the result.
func (i Interval) Difference(o Interval) Set {
	return NewSet(i.difference(o))
}

func (i Interval) difference(o Interval) []Interval {
	switch {
	case o.max < i.min || o.min > i.max:
		return []Interval{i}
	case o.min <= i.min && o.max >= i.max:
		return nil
	case o.min > i.min && o.max < i.max:
		return []Interval{{min: i.min, max: o.min}, {min: o.max, max: i.max}}
	case o.min > i.min:
		return []Interval{{min: i.min, max: o.min}}
	default:
		return []Interval{{min: o.max, max: i.max}}
	}
}

// Round rounds both bounds to ndigits decimal places, half away from zero.
// Negative ndigits round to tens, hundreds, and so on.
func (i Interval) Round(ndigits int) Interval {
	return build(roundTo(i.min, ndigits), roundTo(i.max, ndigits))
}

func roundTo(v float64, ndigits int) float64 {
	if math.IsInf(v, 0) || v == 0 {
		return v
	}
	scale := math.Pow(10, float64(ndigits))
	if scale == 0 {
		// every finite value rounds to zero at this magnitude
		return 0
	}
	scaled := v * scale
	if math.IsInf(scaled, 0) {
		// already finer than ndigits can express
		return v
	}
	return math.Round(scaled) / scale
}

// RelRound rounds v to the given number of significant digits.
func RelRound(v float64, digits int) float64 {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	return roundTo(v, digits-1-exp)
}

// Abs returns {|x| : x in i}.
func (i Interval) Abs() Interval {
	switch {
	case i.min < 0 && i.max > 0:
		return build(0, max(-i.min, i.max))
	case i.min < 0 && i.max < 0:
		return build(-i.max, -i.min)
	case i.min < 0 && i.max == 0:
		return build(0, -i.min)
	default:
		return i
	}
}

// Log returns the natural log of both bounds. min must be positive.
func (i Interval) Log() (Interval, error) {
	if i.min <= 0 {
		return Interval{}, opErr("log", ErrNonPositiveLog)
	}
	return build(math.Log(i.min), math.Log(i.max)), nil
}

// maxExactInt is the largest magnitude below which every integer is an
// exact float64.
const maxExactInt = 1 << 53

// Sin returns the exact range of sin over i. Extremes occur at the
// endpoints or at the turning points π/2 + kπ.
func (i Interval) Sin() Interval {
	width := i.max - i.min
	if math.IsInf(width, 0) || math.IsNaN(width) || width > 2*math.Pi {
		return Interval{min: -1, max: 1}
	}

	lo := math.Min(math.Sin(i.min), math.Sin(i.max))
	hi := math.Max(math.Sin(i.min), math.Sin(i.max))

	kStart := math.Ceil((i.min - math.Pi/2) / math.Pi)
	kEnd := math.Floor((i.max - math.Pi/2) / math.Pi)
	if math.Abs(kStart) > maxExactInt || math.Abs(kEnd) > maxExactInt {
		// turning points can no longer be told apart from the endpoints
		return Interval{min: -1, max: 1}
	}
	for n := int64(0); n <= int64(kEnd-kStart); n++ {
		k := kStart + float64(n)
		s := math.Sin(math.Pi/2 + math.Pi*k)
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	return build(lo, hi)
}

// Power raises every element of i to every element of exp.
//
// Case analysis on the exponent, in order:
//   - exp entirely negative: (i ^ -exp).Invert()
//   - exp.max negative while exp.min is not: ErrNegativeExponentUnsupported
//   - exp.min negative: ErrExponentCrossesZero
//   - i.min negative and exp not a single integer:
//     ErrFractionalExponentRequiresIntegerExponent
//
// Otherwise the result is the hull of the corner powers. A base that
// straddles zero also contributes 0^exp.min and 0^exp.max, so [-11, 10]^2
// is [0, 121] rather than [100, 121].
func (i Interval) Power(exp Interval) (Set, error) {
	if exp.max < 0 && exp.min < 0 {
		pos, err := i.Power(exp.Negate())
		if err != nil {
			return Set{}, err
		}
		return pos.Invert(), nil
	}
	if exp.max < 0 {
		return Set{}, opErr("power", ErrNegativeExponentUnsupported)
	}
	if exp.min < 0 {
		return Set{}, opErr("power", ErrExponentCrossesZero)
	}
	if i.min < 0 && !exp.IsInteger() {
		return Set{}, opErr("power", ErrFractionalExponentRequiresIntegerExponent)
	}

	values := []float64{
		math.Pow(i.min, exp.min),
		math.Pow(i.min, exp.max),
		math.Pow(i.max, exp.min),
		math.Pow(i.max, exp.max),
	}
	if i.min < 0 && i.max > 0 {
		values = append(values, math.Pow(0, exp.min), math.Pow(0, exp.max))
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return NewSet([]Interval{build(lo, hi)}), nil
}
