package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/paramset/internal/engine"
	"github.com/roach88/paramset/internal/graph"
	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Digits int
	Graph  bool
}

// EvalResult is the outcome of one eval invocation.
type EvalResult struct {
	Op     string   `json:"op"`
	Args   []string `json:"args"`
	Kind   string   `json:"kind"`   // "set", "bool" or "number"
	Result string   `json:"result"` // exact set form, bool set, or number

	// GraphNodes is the node count of the result threaded through a node
	// store. Only set with --graph.
	GraphNodes int `json:"graph_nodes,omitempty"`
}

// relations answer a question about their operands instead of building a set.
var relations = map[string]func(a, b string) (EvalResult, error){
	"ge":       compareOp(numeric.Set.GE),
	"gt":       compareOp(numeric.Set.GT),
	"le":       compareOp(numeric.Set.LE),
	"lt":       compareOp(numeric.Set.LT),
	"subset":   predicateOp(numeric.Set.IsSubsetOf),
	"superset": predicateOp(numeric.Set.IsSupersetOf),
	"contains": pointOp(func(s numeric.Set, x float64) (EvalResult, error) {
		return EvalResult{Kind: "bool", Result: strconv.FormatBool(s.Contains(x))}, nil
	}),
	"closest": pointOp(func(s numeric.Set, x float64) (EvalResult, error) {
		v, err := s.ClosestElem(x)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{Kind: "number", Result: numeric.FormatNumber(v)}, nil
	}),
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <op> <operand> [operand]",
		Short: "Apply one operation to literal sets",
		Long: `Apply one operation to set literals and print the result.

Set operations: ` + fmt.Sprint(ir.OpNames()) + `
Relations: ge gt le lt subset superset, and contains/closest with a number
as the second operand.

Examples:
  paramset eval add "[1, 2]" "[10, 20]"
  paramset eval round --digits 1 "[1.04, 2.06]"
  paramset eval ge "[2, 4]" "[1, 3]"
  paramset eval closest "{[0, 1], [3, 4]}" 2
  paramset eval --graph union "[0, 1]" "[3, 4]"`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Digits, "digits", 0, "decimal digits kept by round")
	cmd.Flags().BoolVar(&opts.Graph, "graph", false, "store the result in a node graph and read it back")

	return cmd
}

func runEval(opts *EvalOptions, op string, operands []string, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg)

	result, out, err := evaluate(op, operands, cfg.RoundDigits)
	if err != nil {
		return outputEvalError(formatter, err)
	}
	result.Op = op
	result.Args = operands

	if opts.Graph && result.Kind == "set" {
		loaded, nodes, err := throughGraph(out)
		if err != nil {
			return outputEvalError(formatter, err)
		}
		formatter.VerboseLog("Result threaded through %d graph node(s)", nodes)
		result.Result = loaded.Exact()
		result.GraphNodes = nodes
	}

	return formatter.Emit(result, "", func(w io.Writer) {
		fmt.Fprintln(w, result.Result)
		if result.GraphNodes > 0 {
			fmt.Fprintf(w, "graph: %d node(s)\n", result.GraphNodes)
		}
	})
}

// throughGraph materializes s into a fresh node graph and loads it back.
func throughGraph(s numeric.Set) (numeric.Set, int, error) {
	g := graph.New()
	root, err := numeric.Materialize(g, s)
	if err != nil {
		return numeric.Set{}, 0, fmt.Errorf("materialize result: %w", err)
	}
	loaded, err := numeric.Load(g, root)
	if err != nil {
		return numeric.Set{}, 0, fmt.Errorf("load result: %w", err)
	}
	return loaded, g.Len(), nil
}

// errBadOperand marks an operand that is not a valid literal.
var errBadOperand = errors.New("bad operand")

// evaluate runs op. The set is only meaningful for set-valued results.
func evaluate(op string, operands []string, digits int) (EvalResult, numeric.Set, error) {
	if rel, ok := relations[op]; ok {
		if len(operands) != 2 {
			return EvalResult{}, numeric.Set{}, &engine.RuntimeError{
				Code:    engine.ErrCodeInvalidSpec,
				Message: fmt.Sprintf("%s takes 2 operand(s), got %d", op, len(operands)),
			}
		}
		res, err := rel(operands[0], operands[1])
		return res, numeric.Set{}, err
	}

	sets := make([]numeric.Set, len(operands))
	for i, text := range operands {
		s, err := parseOperand(text)
		if err != nil {
			return EvalResult{}, numeric.Set{}, err
		}
		sets[i] = s
	}

	out, err := engine.Apply(op, sets, digits)
	if err != nil {
		return EvalResult{}, numeric.Set{}, err
	}
	return EvalResult{Kind: "set", Result: out.Exact()}, out, nil
}

func parseOperand(text string) (numeric.Set, error) {
	s, err := numeric.Parse(text)
	if err != nil {
		return numeric.Set{}, fmt.Errorf("%w %q: %w", errBadOperand, text, err)
	}
	return s, nil
}

func compareOp(f func(a, b numeric.Set) numeric.BoolSet) func(a, b string) (EvalResult, error) {
	return func(a, b string) (EvalResult, error) {
		lhs, err := parseOperand(a)
		if err != nil {
			return EvalResult{}, err
		}
		rhs, err := parseOperand(b)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{Kind: "bool", Result: f(lhs, rhs).String()}, nil
	}
}

func predicateOp(f func(a, b numeric.Set) bool) func(a, b string) (EvalResult, error) {
	return func(a, b string) (EvalResult, error) {
		lhs, err := parseOperand(a)
		if err != nil {
			return EvalResult{}, err
		}
		rhs, err := parseOperand(b)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{Kind: "bool", Result: strconv.FormatBool(f(lhs, rhs))}, nil
	}
}

func pointOp(f func(s numeric.Set, x float64) (EvalResult, error)) func(a, b string) (EvalResult, error) {
	return func(a, b string) (EvalResult, error) {
		s, err := parseOperand(a)
		if err != nil {
			return EvalResult{}, err
		}
		x, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return EvalResult{}, fmt.Errorf("%w %q: not a number", errBadOperand, b)
		}
		return f(s, x)
	}
}

// outputEvalError reports numeric failures with their kind. A bad operand
// or an unknown op is a usage problem (exit 2); a domain error is exit 1.
func outputEvalError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, errBadOperand) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		_ = formatter.Error(string(rtErr.Code), rtErr.Message, nil)
		return NewExitError(ExitCommandError, rtErr.Error())
	}

	kind := numeric.Kind(err)
	_ = formatter.Error(ErrCodeEvalFailed, err.Error(), map[string]string{"kind": kind})
	return WrapExitError(ExitFailure, kind, err)
}
