package engine

import (
	"fmt"

	"github.com/roach88/paramset/internal/ir"
)

// evaluationOrder checks specs and returns the indexes in the order they
// must be resolved: literals in declaration order, then derived parameters
// once all of their arguments are available. Among ready derived
// parameters the earliest declared goes first.
func evaluationOrder(specs []ir.ParamSpec) ([]int, error) {
	declared := make(map[string]int, len(specs))
	for i, s := range specs {
		if prev, dup := declared[s.Name]; dup {
			return nil, &RuntimeError{
				Code:    ErrCodeInvalidSpec,
				Message: fmt.Sprintf("parameter declared twice (entries %d and %d)", prev, i),
				Param:   s.Name,
			}
		}
		declared[s.Name] = i
	}

	order := make([]int, 0, len(specs))
	var pending []int
	for i, s := range specs {
		if err := checkSpec(s, declared); err != nil {
			return nil, err
		}
		if s.Derive == nil {
			order = append(order, i)
		} else {
			pending = append(pending, i)
		}
	}

	ready := make(map[string]bool, len(specs))
	for _, i := range order {
		ready[specs[i].Name] = true
	}

	for len(pending) > 0 {
		next := -1
		for pos, i := range pending {
			if argsReady(specs[i].Derive.Args, ready) {
				next = pos
				break
			}
		}
		if next < 0 {
			members := make([]string, len(pending))
			for k, i := range pending {
				members[k] = specs[i].Name
			}
			return nil, NewCycleError("", members)
		}
		i := pending[next]
		pending = append(pending[:next], pending[next+1:]...)
		order = append(order, i)
		ready[specs[i].Name] = true
	}
	return order, nil
}

func argsReady(args []string, ready map[string]bool) bool {
	for _, a := range args {
		if !ready[a] {
			return false
		}
	}
	return true
}

func checkSpec(s ir.ParamSpec, declared map[string]int) error {
	switch {
	case s.Value == nil && s.Derive == nil:
		return &RuntimeError{Code: ErrCodeInvalidSpec, Message: "parameter has neither a value nor a derive", Param: s.Name}
	case s.Value != nil && s.Derive != nil:
		return &RuntimeError{Code: ErrCodeInvalidSpec, Message: "parameter has both a value and a derive", Param: s.Name}
	case s.Value != nil:
		return nil
	}

	d := s.Derive
	want, ok := ir.Ops[d.Op]
	if !ok {
		return &RuntimeError{Code: ErrCodeUnknownOp, Message: fmt.Sprintf("unknown op %q", d.Op), Param: s.Name}
	}
	if len(d.Args) != want {
		return &RuntimeError{
			Code:    ErrCodeInvalidSpec,
			Message: fmt.Sprintf("op %s takes %d argument(s), got %d", d.Op, want, len(d.Args)),
			Param:   s.Name,
		}
	}
	for _, a := range d.Args {
		if _, ok := declared[a]; !ok {
			return &RuntimeError{
				Code:    ErrCodeUnknownParam,
				Message: fmt.Sprintf("argument %q is not declared", a),
				Param:   s.Name,
			}
		}
	}
	return nil
}
