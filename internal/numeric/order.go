package numeric

// Order relations compare the hulls of two sets. When either side is empty
// the result is the empty BoolSet. A relation that holds for every choice of
// elements yields {true}, one that holds for none yields {false}, and
// anything in between yields {true, false}.

func (s Set) compare(o Set, always, never func(sMin, sMax, oMin, oMax float64) bool) BoolSet {
	if s.IsEmpty() || o.IsEmpty() {
		return NewBoolSet()
	}
	sMin, sMax := s.ivs[0].min, s.ivs[len(s.ivs)-1].max
	oMin, oMax := o.ivs[0].min, o.ivs[len(o.ivs)-1].max
	switch {
	case always(sMin, sMax, oMin, oMax):
		return NewBoolSet(true)
	case never(sMin, sMax, oMin, oMax):
		return NewBoolSet(false)
	default:
		return NewBoolSet(true, false)
	}
}

// GE evaluates s >= o.
func (s Set) GE(o Set) BoolSet {
	return s.compare(o,
		func(sMin, _, _, oMax float64) bool { return sMin >= oMax },
		func(_, sMax, oMin, _ float64) bool { return sMax < oMin },
	)
}

// GT evaluates s > o.
func (s Set) GT(o Set) BoolSet {
	return s.compare(o,
		func(sMin, _, _, oMax float64) bool { return sMin > oMax },
		func(_, sMax, oMin, _ float64) bool { return sMax <= oMin },
	)
}

// LE evaluates s <= o.
func (s Set) LE(o Set) BoolSet {
	return s.compare(o,
		func(_, sMax, oMin, _ float64) bool { return sMax <= oMin },
		func(sMin, _, _, oMax float64) bool { return sMin > oMax },
	)
}

// LT evaluates s < o.
func (s Set) LT(o Set) BoolSet {
	return s.compare(o,
		func(_, sMax, oMin, _ float64) bool { return sMax < oMin },
		func(sMin, _, _, oMax float64) bool { return sMin >= oMax },
	)
}
