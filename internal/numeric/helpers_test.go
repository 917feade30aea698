package numeric

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	inf  = math.Inf(1)
	ninf = math.Inf(-1)
)

// approx tolerates last-bit float noise; infinities still compare exactly.
var approx = cmpopts.EquateApprox(1e-12, 1e-12)

// approxLoose absorbs the significant-digit rounding in "center ± pct%".
var approxLoose = cmpopts.EquateApprox(1e-9, 1e-9)

func iv(lo, hi float64) Interval {
	return MustInterval(lo, hi)
}

func setOf(ivs ...Interval) Set {
	return NewSet(ivs)
}

func bounds(s Set) [][2]float64 {
	out := make([][2]float64, 0, s.Len())
	for _, x := range s.Intervals() {
		out = append(out, [2]float64{x.Min(), x.Max()})
	}
	return out
}

func assertSet(t *testing.T, want [][2]float64, got Set) {
	t.Helper()
	if want == nil {
		want = [][2]float64{}
	}
	if diff := cmp.Diff(want, bounds(got), approx); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
}

func assertInterval(t *testing.T, want [2]float64, got Interval) {
	t.Helper()
	if diff := cmp.Diff(want, [2]float64{got.Min(), got.Max()}, approx); diff != "" {
		t.Errorf("interval mismatch (-want +got):\n%s", diff)
	}
}

func nan() float64 {
	return math.NaN()
}
