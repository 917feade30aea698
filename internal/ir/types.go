package ir

import (
	"fmt"
	"math"

	"github.com/roach88/paramset/internal/numeric"
)

// Bounds is the wire form of one interval. A nil bound is infinite:
// Min nil means -Inf, Max nil means +Inf.
type Bounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// SetRecord is the wire form of a numeric set: its intervals in order.
type SetRecord struct {
	Intervals []Bounds `json:"intervals"`
}

// FromSet converts a set to its wire form.
func FromSet(s numeric.Set) SetRecord {
	ivs := s.Intervals()
	rec := SetRecord{Intervals: make([]Bounds, len(ivs))}
	for i, iv := range ivs {
		rec.Intervals[i] = Bounds{Min: bound(iv.Min(), -1), Max: bound(iv.Max(), 1)}
	}
	return rec
}

// bound drops an infinite endpoint only when it points outward. A point at
// infinity such as [+Inf, +Inf] keeps its value and is rejected by
// MarshalCanonical.
func bound(v float64, outward int) *float64 {
	if math.IsInf(v, outward) {
		return nil
	}
	return &v
}

// ToSet rebuilds the set, validating every interval.
func (r SetRecord) ToSet() (numeric.Set, error) {
	ivs := make([]numeric.Interval, 0, len(r.Intervals))
	for i, b := range r.Intervals {
		lo, hi := math.Inf(-1), math.Inf(1)
		if b.Min != nil {
			lo = *b.Min
		}
		if b.Max != nil {
			hi = *b.Max
		}
		iv, err := numeric.NewInterval(lo, hi)
		if err != nil {
			return numeric.Set{}, fmt.Errorf("interval %d: %w", i, err)
		}
		ivs = append(ivs, iv)
	}
	return numeric.NewSet(ivs), nil
}

// IRValue returns the record as a canonical-JSON-ready object.
func (r SetRecord) IRValue() IRObject {
	arr := make(IRArray, len(r.Intervals))
	for i, b := range r.Intervals {
		arr[i] = IRObject{"min": boundValue(b.Min), "max": boundValue(b.Max)}
	}
	return IRObject{"intervals": arr}
}

func boundValue(p *float64) IRValue {
	if p == nil {
		return IRNull{}
	}
	return IRFloat(*p)
}

// ParamSpec declares one named parameter. Exactly one of Value and Derive
// is set: Value for a literal range, Derive for a computed one.
type ParamSpec struct {
	Name    string      `json:"name"`
	Unit    string      `json:"unit,omitempty"`
	Literal string      `json:"literal,omitempty"` // source text of a literal, for diagnostics
	Value   *SetRecord  `json:"value,omitempty"`
	Derive  *DeriveSpec `json:"derive,omitempty"`
	Line    int         `json:"line,omitempty"`
}

// DeriveSpec computes a parameter by applying Op to the named arguments.
// Digits is only read by "round".
type DeriveSpec struct {
	Op     string   `json:"op"`
	Args   []string `json:"args"`
	Digits int      `json:"digits,omitempty"`
}

// IRValue returns the declaration as a canonical-JSON-ready object. Line is a
// source position and does not take part in identity.
func (p ParamSpec) IRValue() IRObject {
	obj := IRObject{"name": IRString(p.Name)}
	if p.Unit != "" {
		obj["unit"] = IRString(p.Unit)
	}
	if p.Value != nil {
		obj["value"] = p.Value.IRValue()
	}
	if p.Derive != nil {
		d := IRObject{
			"op":   IRString(p.Derive.Op),
			"args": Strings(p.Derive.Args),
		}
		if p.Derive.Digits != 0 {
			d["digits"] = IRInt(p.Derive.Digits)
		}
		obj["derive"] = d
	}
	return obj
}
