package engine

import (
	"fmt"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

type opFunc func(args []numeric.Set, digits int) (numeric.Set, error)

func binary(f func(a, b numeric.Set) numeric.Set) opFunc {
	return func(args []numeric.Set, _ int) (numeric.Set, error) {
		return f(args[0], args[1]), nil
	}
}

func unary(f func(a numeric.Set) numeric.Set) opFunc {
	return func(args []numeric.Set, _ int) (numeric.Set, error) {
		return f(args[0]), nil
	}
}

// opTable has one entry per operator in ir.Ops.
var opTable = map[string]opFunc{
	"add":        binary(numeric.Set.Add),
	"sub":        binary(numeric.Set.Subtract),
	"mul":        binary(numeric.Set.Multiply),
	"div":        binary(numeric.Set.Divide),
	"union":      binary(numeric.Set.Union),
	"intersect":  binary(numeric.Set.Intersect),
	"difference": binary(numeric.Set.Difference),
	"symdiff":    binary(numeric.Set.SymmetricDifference),
	"pow": func(args []numeric.Set, _ int) (numeric.Set, error) {
		return args[0].Power(args[1])
	},
	"neg": unary(numeric.Set.Negate),
	"inv": unary(numeric.Set.Invert),
	"abs": unary(numeric.Set.Abs),
	"sin": unary(numeric.Set.Sin),
	"log": func(args []numeric.Set, _ int) (numeric.Set, error) {
		return args[0].Log()
	},
	"round": func(args []numeric.Set, digits int) (numeric.Set, error) {
		return args[0].Round(digits), nil
	},
}

// Apply evaluates op over args. digits is only read by "round".
//
// An unknown op or a wrong argument count is a *RuntimeError; numeric
// failures are returned as the numeric package reports them.
func Apply(op string, args []numeric.Set, digits int) (numeric.Set, error) {
	f, ok := opTable[op]
	if !ok {
		return numeric.Set{}, &RuntimeError{
			Code:    ErrCodeUnknownOp,
			Message: fmt.Sprintf("unknown op %q", op),
		}
	}
	if want := ir.Ops[op]; len(args) != want {
		return numeric.Set{}, &RuntimeError{
			Code:    ErrCodeInvalidSpec,
			Message: fmt.Sprintf("op %s takes %d argument(s), got %d", op, want, len(args)),
		}
	}
	return f(args, digits)
}
