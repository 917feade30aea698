package numeric

// Set-level arithmetic. Binary operators combine every member of s with
// every member of o; unary operators map over the members. Results always
// pass back through NewSet.

func (s Set) cross(o Set, f func(a, b Interval) Interval) Set {
	out := make([]Interval, 0, len(s.ivs)*len(o.ivs))
	for _, a := range s.ivs {
		for _, b := range o.ivs {
			out = append(out, f(a, b))
		}
	}
	return NewSet(out)
}

func (s Set) mapEach(f func(Interval) Interval) Set {
	out := make([]Interval, 0, len(s.ivs))
	for _, iv := range s.ivs {
		out = append(out, f(iv))
	}
	return NewSet(out)
}

func (s Set) Add(o Set) Set {
	return s.cross(o, Interval.Add)
}

func (s Set) Negate() Set {
	return s.mapEach(Interval.Negate)
}

func (s Set) Subtract(o Set) Set {
	return s.Add(o.Negate())
}

func (s Set) Multiply(o Set) Set {
	return s.cross(o, Interval.Multiply)
}

// Invert unions the inverse of every member.
func (s Set) Invert() Set {
	parts := make([]Set, 0, len(s.ivs))
	for _, iv := range s.ivs {
		parts = append(parts, iv.Invert())
	}
	return NewSet(nil, parts...)
}

// Divide returns s * o.Invert().
func (s Set) Divide(o Set) Set {
	return s.Multiply(o.Invert())
}

// Power raises every base interval to every exponent interval.
// The first failing pair aborts the whole operation.
func (s Set) Power(exp Set) (Set, error) {
	parts := make([]Set, 0, len(s.ivs)*len(exp.ivs))
	for _, base := range s.ivs {
		for _, e := range exp.ivs {
			p, err := base.Power(e)
			if err != nil {
				return Set{}, err
			}
			parts = append(parts, p)
		}
	}
	return NewSet(nil, parts...), nil
}

func (s Set) Round(ndigits int) Set {
	return s.mapEach(func(iv Interval) Interval { return iv.Round(ndigits) })
}

func (s Set) Abs() Set {
	return s.mapEach(Interval.Abs)
}

func (s Set) Sin() Set {
	return s.mapEach(Interval.Sin)
}

func (s Set) Log() (Set, error) {
	out := make([]Interval, 0, len(s.ivs))
	for _, iv := range s.ivs {
		l, err := iv.Log()
		if err != nil {
			return Set{}, err
		}
		out = append(out, l)
	}
	return NewSet(out), nil
}
