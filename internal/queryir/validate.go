package queryir

import (
	"fmt"
	"math"
)

// ValidationResult lists the problems found in a query.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	Problems []string
}

// Validate checks a query before compilation: range bounds must not be NaN,
// ranges must not be inverted, and names and units must not be empty.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addProblem("nil query")
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.Limit < 0 {
		v.addProblem("negative limit %d", sel.Limit)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.addProblem("nil predicate")
	case NameEquals:
		if pred.Name == "" {
			v.addProblem("NameEquals: empty name")
		}
	case UnitEquals:
		if pred.Unit == "" {
			v.addProblem("UnitEquals: empty unit")
		}
	case Contains:
		if math.IsNaN(pred.Value) {
			v.addProblem("Contains: value is NaN")
		}
	case Overlaps:
		v.validateRange("Overlaps", pred.Min, pred.Max)
	case Within:
		v.validateRange("Within", pred.Min, pred.Max)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		v.validatePredicate(*pred)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateRange(name string, min, max float64) {
	switch {
	case math.IsNaN(min):
		v.addProblem("%s: min is NaN", name)
	case math.IsNaN(max):
		v.addProblem("%s: max is NaN", name)
	case min > max:
		v.addProblem("%s: inverted range [%g, %g]", name, min, max)
	}
}
