package numeric

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// BoolSet is a set over {true, false}. It carries the outcome of an order
// relation: {true} or {false} when resolved, {true, false} when the outcome
// depends on which elements are chosen, and {} when an operand was empty.
//
// The zero value is the empty BoolSet.
type BoolSet struct {
	s *set.Set[bool]
}

// NewBoolSet returns the set of the given values.
func NewBoolSet(values ...bool) BoolSet {
	s := set.New[bool](2)
	for _, v := range values {
		s.Insert(v)
	}
	return BoolSet{s: s}
}

func (b BoolSet) Contains(v bool) bool {
	return b.s != nil && b.s.Contains(v)
}

func (b BoolSet) Len() int {
	if b.s == nil {
		return 0
	}
	return b.s.Size()
}

func (b BoolSet) IsEmpty() bool {
	return b.Len() == 0
}

// IsTrue reports whether the set is exactly {true}.
func (b BoolSet) IsTrue() bool {
	return b.Len() == 1 && b.Contains(true)
}

// IsFalse reports whether the set is exactly {false}.
func (b BoolSet) IsFalse() bool {
	return b.Len() == 1 && b.Contains(false)
}

// IsIndeterminate reports whether both outcomes are possible.
func (b BoolSet) IsIndeterminate() bool {
	return b.Len() == 2
}

// Values returns the members with false first.
func (b BoolSet) Values() []bool {
	out := make([]bool, 0, 2)
	for _, v := range []bool{false, true} {
		if b.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func (b BoolSet) Equal(o BoolSet) bool {
	return b.Contains(true) == o.Contains(true) && b.Contains(false) == o.Contains(false)
}

// Not negates every member.
func (b BoolSet) Not() BoolSet {
	out := NewBoolSet()
	for _, v := range b.Values() {
		out.s.Insert(!v)
	}
	return out
}

// And combines every pair of members with logical and.
func (b BoolSet) And(o BoolSet) BoolSet {
	return b.combine(o, func(x, y bool) bool { return x && y })
}

// Or combines every pair of members with logical or.
func (b BoolSet) Or(o BoolSet) BoolSet {
	return b.combine(o, func(x, y bool) bool { return x || y })
}

func (b BoolSet) combine(o BoolSet, f func(x, y bool) bool) BoolSet {
	out := NewBoolSet()
	for _, x := range b.Values() {
		for _, y := range o.Values() {
			out.s.Insert(f(x, y))
		}
	}
	return out
}

func (b BoolSet) String() string {
	vals := b.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v {
			parts[i] = "true"
		} else {
			parts[i] = "false"
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
