package numeric

// IsSupersetOf reports whether every element of o is in s.
// The empty set is a subset of everything.
func (s Set) IsSupersetOf(o Set) bool {
	i := 0
	for _, sub := range o.ivs {
		for i < len(s.ivs) && s.ivs[i].max < sub.min {
			i++
		}
		if i == len(s.ivs) || !sub.IsSubsetOf(s.ivs[i]) {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every element of s is in o.
func (s Set) IsSubsetOf(o Set) bool {
	return o.IsSupersetOf(s)
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set {
	return NewSet(nil, s, o)
}

// Intersect returns s ∩ o using a two-pointer sweep.
func (s Set) Intersect(o Set) Set {
	var out []Interval
	i, j := 0, 0
	for i < len(s.ivs) && j < len(o.ivs) {
		a, b := s.ivs[i], o.ivs[j]
		if iv, err := a.Intersect(b); err == nil {
			out = append(out, iv)
		}
		switch {
		case a.max < b.max:
			i++
		case b.max < a.max:
			j++
		default:
			i++
			j++
		}
	}
	return NewSet(out)
}

// Difference returns s \ o. Each interval of s is narrowed by every
// interval of o in turn.
func (s Set) Difference(o Set) Set {
	var out []Interval
	for _, iv := range s.ivs {
		pieces := []Interval{iv}
		for _, cut := range o.ivs {
			if len(pieces) == 0 {
				break
			}
			var narrowed []Interval
			for _, p := range pieces {
				narrowed = append(narrowed, p.difference(cut)...)
			}
			pieces = narrowed
		}
		out = append(out, pieces...)
	}
	return NewSet(out)
}

// SymmetricDifference returns (s ∪ o) \ (s ∩ o).
func (s Set) SymmetricDifference(o Set) Set {
	return s.Union(o).Difference(s.Intersect(o))
}
