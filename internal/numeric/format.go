package numeric

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way Parse reads it back: infinities as "inf"
// and "-inf", plain decimals for ordinary magnitudes, exponent form
// otherwise.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		return "0"
	}
	a := math.Abs(v)
	if a >= 1e-4 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// String renders a single point as "[v]", a tight finite interval as
// "center ± pct%", and anything else as "[min, max]".
func (i Interval) String() string {
	if i.IsSingleElement() {
		return "[" + FormatNumber(i.min) + "]"
	}
	center, rel := i.AsCenterRel()
	if rel < 1 {
		return FormatNumber(center) + " ± " + FormatNumber(RelRound(rel*100, 12)) + "%"
	}
	return "[" + FormatNumber(i.min) + ", " + FormatNumber(i.max) + "]"
}

// String renders a one-interval set as the interval itself and any other
// set as a braced list.
func (s Set) String() string {
	if len(s.ivs) == 1 {
		return s.ivs[0].String()
	}
	parts := make([]string, len(s.ivs))
	for i, iv := range s.ivs {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Exact renders every interval as "[min, max]" inside braces, with no
// tolerance shorthand. The result parses back to an equal set.
func (s Set) Exact() string {
	parts := make([]string, len(s.ivs))
	for i, iv := range s.ivs {
		parts[i] = "[" + FormatNumber(iv.min) + ", " + FormatNumber(iv.max) + "]"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
