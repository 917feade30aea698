package testutil

import (
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/paramset/internal/numeric"
)

// DefaultTolerance is the relative tolerance used when comparing sets
// produced by floating-point arithmetic.
const DefaultTolerance = 1e-9

// bound is one interval as plain numbers, the shape go-cmp compares.
type bound struct {
	Min, Max float64
}

func bounds(s numeric.Set) []bound {
	ivs := s.Intervals()
	out := make([]bound, len(ivs))
	for i, iv := range ivs {
		out[i] = bound{Min: iv.Min(), Max: iv.Max()}
	}
	return out
}

// SetDiff reports how got differs from want, or "" when every bound
// agrees within the relative tolerance rel. Infinite bounds must match
// exactly.
func SetDiff(want, got numeric.Set, rel float64) string {
	return cmp.Diff(bounds(want), bounds(got), approx(rel), cmpopts.EquateEmpty())
}

// SetsEqual reports whether SetDiff finds no difference.
func SetsEqual(want, got numeric.Set, rel float64) bool {
	return SetDiff(want, got, rel) == ""
}

// approx is cmpopts.EquateApprox restricted to finite values; EquateApprox
// on its own never treats +Inf as equal to +Inf.
func approx(rel float64) cmp.Option {
	finite := func(x, y float64) bool {
		return !math.IsInf(x, 0) && !math.IsInf(y, 0)
	}
	return cmp.FilterValues(finite, cmpopts.EquateApprox(rel, 0))
}
