package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterval_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     error
	}{
		{"NaN min", math.NaN(), 1, ErrNaNMin},
		{"NaN max", 1, math.NaN(), ErrNaNMax},
		{"both NaN reports min", math.NaN(), math.NaN(), ErrNaNMin},
		{"inverted", 2, 1, ErrInvalidBounds},
		{"inverted infinities", inf, ninf, ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterval(tt.min, tt.max)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewInterval_Accepts(t *testing.T) {
	for _, b := range [][2]float64{{1, 2}, {3, 3}, {ninf, 0}, {0, inf}, {ninf, inf}, {inf, inf}} {
		got, err := NewInterval(b[0], b[1])
		require.NoError(t, err)
		assert.Equal(t, b[0], got.Min())
		assert.Equal(t, b[1], got.Max())
	}
}

func TestNewInterval_NormalisesNegativeZero(t *testing.T) {
	got := iv(math.Copysign(0, -1), 0)
	assert.False(t, math.Signbit(got.Min()))
	assert.True(t, got.Equal(iv(0, 0)))
}

func TestInterval_AddSubtractNegate(t *testing.T) {
	a := iv(1, 2)
	b := iv(-3, 5)

	assertInterval(t, [2]float64{-2, 7}, a.Add(b))
	assertInterval(t, [2]float64{-2, -1}, a.Negate())
	assertInterval(t, [2]float64{-4, 5}, a.Subtract(b))
	assertInterval(t, [2]float64{ninf, inf}, iv(ninf, 0).Add(iv(0, inf)))
}

func TestInterval_AddOppositeInfinitiesWidens(t *testing.T) {
	got := iv(inf, inf).Add(iv(ninf, ninf))
	assertInterval(t, [2]float64{ninf, inf}, got)
}

func TestInterval_Multiply(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want [2]float64
	}{
		{"mixed signs", iv(-2, 3), iv(-1, 4), [2]float64{-8, 12}},
		{"positive", iv(1, 2), iv(3, 4), [2]float64{3, 8}},
		{"zero times unbounded", iv(0, 0), iv(ninf, inf), [2]float64{0, 0}},
		{"zero edge times unbounded", iv(0, 1), iv(ninf, inf), [2]float64{ninf, inf}},
		{"zero edge times half line", iv(0, 1), iv(2, inf), [2]float64{0, inf}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertInterval(t, tt.want, tt.a.Multiply(tt.b))
		})
	}
}

func TestInterval_Invert(t *testing.T) {
	tests := []struct {
		name string
		in   Interval
		want [][2]float64
	}{
		{"zero point", iv(0, 0), nil},
		{"crosses zero", iv(-1, 1), [][2]float64{{ninf, -1}, {1, inf}}},
		{"ends at zero", iv(-2, 0), [][2]float64{{ninf, -0.5}}},
		{"starts at zero", iv(0, 4), [][2]float64{{0.25, inf}}},
		{"positive", iv(2, 4), [][2]float64{{0.25, 0.5}}},
		{"negative", iv(-4, -2), [][2]float64{{-0.5, -0.25}}},
		{"positive half line", iv(2, inf), [][2]float64{{0, 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSet(t, tt.want, tt.in.Invert())
		})
	}
}

func TestInterval_DivideAcrossZero(t *testing.T) {
	got := iv(1, 2).Divide(iv(-1, 1))
	require.Equal(t, 2, got.Len())
	assertSet(t, [][2]float64{{ninf, -1}, {1, inf}}, got)
}

func TestInterval_DivideByZeroStartingRange(t *testing.T) {
	assertSet(t, [][2]float64{{0, inf}}, iv(0, 1).Divide(iv(0, 3)))
}

func TestInterval_DivideByZeroPoint(t *testing.T) {
	assert.True(t, iv(1, 2).Divide(iv(0, 0)).IsEmpty())
}

func TestInterval_Intersect(t *testing.T) {
	got, err := iv(1, 3).Intersect(iv(2, 5))
	require.NoError(t, err)
	assertInterval(t, [2]float64{2, 3}, got)

	got, err = iv(1, 2).Intersect(iv(2, 3))
	require.NoError(t, err)
	assertInterval(t, [2]float64{2, 2}, got)

	_, err = iv(1, 2).Intersect(iv(3, 4))
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, "Empty", Kind(err))
}

func TestInterval_Difference(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want [][2]float64
	}{
		{"interior split", iv(1, 6), iv(2, 4), [][2]float64{{1, 2}, {4, 6}}},
		{"no overlap", iv(1, 6), iv(7, 8), [][2]float64{{1, 6}}},
		{"covered", iv(1, 6), iv(0, 10), nil},
		{"identical", iv(1, 6), iv(1, 6), nil},
		{"right overlap", iv(1, 6), iv(4, 8), [][2]float64{{1, 4}}},
		{"left overlap", iv(1, 6), iv(0, 3), [][2]float64{{3, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSet(t, tt.want, tt.a.Difference(tt.b))
		})
	}
}

func TestInterval_Round(t *testing.T) {
	in := iv(1.51, 2.42)

	assertInterval(t, [2]float64{2, 2}, in.Round(0))
	assertInterval(t, [2]float64{1.5, 2.4}, in.Round(1))
	assertInterval(t, [2]float64{1.51, 2.42}, in.Round(2))
	assertInterval(t, [2]float64{1, 3}, iv(0.5, 2.5).Round(0))
	assertInterval(t, [2]float64{-3, -1}, iv(-2.5, -0.5).Round(0))
	assertInterval(t, [2]float64{100, 200}, iv(123, 151).Round(-2))
	assertInterval(t, [2]float64{ninf, 4}, iv(ninf, 3.7).Round(0))
	assertInterval(t, [2]float64{0, 0}, iv(5, 5).Round(-400))
	assertInterval(t, [2]float64{0, 0}, iv(-5, 5).Round(-400))
	assertInterval(t, [2]float64{ninf, 0}, iv(ninf, 5).Round(-400))
}

func TestRelRound(t *testing.T) {
	assert.InDelta(t, 123000, RelRound(123456, 3), 1e-9)
	assert.InDelta(t, 0.00123, RelRound(0.0012345, 3), 1e-15)
	assert.Equal(t, 0.0, RelRound(0, 3))
	assert.True(t, math.IsInf(RelRound(inf, 3), 1))
}

func TestInterval_Abs(t *testing.T) {
	tests := []struct {
		in   Interval
		want [2]float64
	}{
		{iv(-2, 3), [2]float64{0, 3}},
		{iv(-5, 1), [2]float64{0, 5}},
		{iv(-3, -1), [2]float64{1, 3}},
		{iv(-3, 0), [2]float64{0, 3}},
		{iv(1, 2), [2]float64{1, 2}},
		{iv(0, 2), [2]float64{0, 2}},
		{iv(ninf, -1), [2]float64{1, inf}},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assertInterval(t, tt.want, tt.in.Abs())
		})
	}
}

func TestInterval_Log(t *testing.T) {
	got, err := iv(1, math.E).Log()
	require.NoError(t, err)
	assertInterval(t, [2]float64{0, 1}, got)

	for _, bad := range []Interval{iv(0, 1), iv(-1, 1), iv(-3, -2)} {
		_, err := bad.Log()
		assert.ErrorIs(t, err, ErrNonPositiveLog, bad.String())
	}
}

func TestInterval_Sin(t *testing.T) {
	tests := []struct {
		name string
		in   Interval
		want [2]float64
	}{
		{"wider than a period", iv(0, 10), [2]float64{-1, 1}},
		{"zero to pi", iv(0, math.Pi), [2]float64{0, 1}},
		{"unbounded", iv(0, inf), [2]float64{-1, 1}},
		{"peak point", iv(math.Pi/2, math.Pi/2), [2]float64{1, 1}},
		{"pi to three halves pi", iv(math.Pi, 3*math.Pi/2), [2]float64{-1, math.Sin(math.Pi)}},
		{"small rising span", iv(0, 0.5), [2]float64{0, math.Sin(0.5)}},
		{"point beyond exact integers", iv(1e17, 1e17), [2]float64{-1, 1}},
		{"narrow span beyond exact integers", iv(-1e300, -1e300), [2]float64{-1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertInterval(t, tt.want, tt.in.Sin())
		})
	}
}

func TestInterval_Power(t *testing.T) {
	tests := []struct {
		name      string
		base, exp Interval
		want      [][2]float64
	}{
		{"square", iv(2, 3), iv(2, 2), [][2]float64{{4, 9}}},
		{"base crosses zero", iv(-11, 10), iv(2, 2), [][2]float64{{0, 121}}},
		{"odd power crosses zero", iv(-2, 3), iv(3, 3), [][2]float64{{-8, 27}}},
		{"fractional exponent range", iv(0, 2), iv(0.5, 2), [][2]float64{{0, 4}}},
		{"negative exponent inverts", iv(2, 4), iv(-1, -1), [][2]float64{{0.25, 0.5}}},
		{"negative exponent across zero base", iv(-1, 1), iv(-1, -1), [][2]float64{{ninf, -1}, {1, inf}}},
		{"overflow saturates", iv(10, 1e200), iv(2, 2), [][2]float64{{100, inf}}},
		{"zero exponent", iv(3, 5), iv(0, 0), [][2]float64{{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.base.Power(tt.exp)
			require.NoError(t, err)
			assertSet(t, tt.want, got)
		})
	}
}

func TestInterval_PowerRejects(t *testing.T) {
	_, err := iv(1, 2).Power(iv(-1, 1))
	assert.ErrorIs(t, err, ErrExponentCrossesZero)

	_, err = iv(-2, 3).Power(iv(1.5, 1.5))
	assert.ErrorIs(t, err, ErrFractionalExponentRequiresIntegerExponent)

	_, err = iv(-2, 3).Power(iv(2, 3))
	assert.ErrorIs(t, err, ErrFractionalExponentRequiresIntegerExponent)

	// Bounds that bypass NewInterval reach the otherwise unreachable branch.
	_, err = iv(1, 2).Power(Interval{min: 1, max: -1})
	assert.ErrorIs(t, err, ErrNegativeExponentUnsupported)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "power", opErr.Op)
}

func TestInterval_Predicates(t *testing.T) {
	assert.True(t, iv(3, 3).IsSingleElement())
	assert.True(t, iv(3, 3).IsInteger())
	assert.False(t, iv(2.5, 2.5).IsInteger())
	assert.False(t, iv(inf, inf).IsInteger())
	assert.False(t, iv(3, 4).IsInteger())

	assert.True(t, iv(1, 2).IsFinite())
	assert.True(t, iv(1, inf).IsUnbounded())
	assert.True(t, iv(ninf, 1).IsUnbounded())

	assert.True(t, iv(2, 3).IsSubsetOf(iv(1, 4)))
	assert.True(t, iv(1, 4).IsSubsetOf(iv(1, 4)))
	assert.False(t, iv(0, 3).IsSubsetOf(iv(1, 4)))

	assert.True(t, iv(1, 4).Contains(1))
	assert.True(t, iv(1, 4).Contains(4))
	assert.False(t, iv(1, 4).Contains(4.0001))
}

func TestInterval_AsCenterRel(t *testing.T) {
	c, r := iv(95, 105).AsCenterRel()
	assert.InDelta(t, 100, c, 1e-12)
	assert.InDelta(t, 0.05, r, 1e-12)

	c, r = iv(5, 5).AsCenterRel()
	assert.Equal(t, 5.0, c)
	assert.Equal(t, 0.0, r)

	_, r = iv(-1, 1).AsCenterRel()
	assert.True(t, math.IsInf(r, 1))

	c, r = iv(0, inf).AsCenterRel()
	assert.Equal(t, 0.0, c)
	assert.True(t, math.IsInf(r, 1))
}

func TestFromCenter(t *testing.T) {
	got, err := FromCenter(10, 2)
	require.NoError(t, err)
	assertInterval(t, [2]float64{8, 12}, got)

	got, err = FromCenterRel(-100, 0.1)
	require.NoError(t, err)
	assertInterval(t, [2]float64{-110, -90}, got)

	_, err = FromCenter(10, -2)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestInterval_String(t *testing.T) {
	assert.Equal(t, "[5]", iv(5, 5).String())
	assert.Equal(t, "100 ± 5%", iv(95, 105).String())
	assert.Equal(t, "[0, 10]", iv(0, 10).String())
	assert.Equal(t, "[-inf, 3]", iv(ninf, 3).String())
	assert.Equal(t, "[-1, 1]", iv(-1, 1).String())
}
