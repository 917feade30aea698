package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/go-multierror"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

// CompileParam parses one CUE parameter declaration into a ParamSpec.
// The parameter name is the last path label.
//
// Exactly one value form is allowed:
//
//	param: R1: {range: "[95, 105]", unit: "ohm"}   // any set literal
//	param: R2: {range: [95, 105]}                   // two-element list
//	param: G:  {value: 9.81}                        // single point
//	param: V:  {center: 5, tol: 0.05}               // relative tolerance
//	param: I:  {center: 2, abs: 0.1}                // absolute tolerance
//	param: P:  {derive: {op: "mul", args: ["V", "I"]}, unit: "W"}
//
// round takes an optional digits field: {op: "round", args: ["P"], digits: 1}.
func CompileParam(v cue.Value) (*ir.ParamSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ParamSpec{
		Name: labelName(v),
		Line: v.Pos().Line(),
	}

	if unitVal := v.LookupPath(cue.ParsePath("unit")); unitVal.Exists() {
		unit, err := unitVal.String()
		if err != nil {
			return nil, &CompileError{Field: "unit", Message: "unit must be a string", Pos: unitVal.Pos()}
		}
		spec.Unit = unit
	}

	var forms []string
	for _, f := range []string{"range", "value", "center", "derive"} {
		if v.LookupPath(cue.ParsePath(f)).Exists() {
			forms = append(forms, f)
		}
	}
	switch len(forms) {
	case 0:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("parameter %q needs one of range, value, center or derive", spec.Name),
			Pos:     v.Pos(),
		}
	case 1:
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("parameter %q declares both %s and %s", spec.Name, forms[0], forms[1]),
			Pos:     v.Pos(),
		}
	}

	if forms[0] == "derive" {
		derive, err := parseDerive(v.LookupPath(cue.ParsePath("derive")))
		if err != nil {
			return nil, err
		}
		spec.Derive = derive
		return spec, nil
	}

	set, literal, err := parseLiteral(v, forms[0])
	if err != nil {
		return nil, err
	}
	rec := ir.FromSet(set)
	spec.Value = &rec
	spec.Literal = literal
	return spec, nil
}

// CompileParams compiles every field of a `param` struct in declaration
// order. All failures are collected into one *multierror.Error.
func CompileParams(v cue.Value) ([]ir.ParamSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	specs := []ir.ParamSpec{}
	var result *multierror.Error
	for iter.Next() {
		spec, err := CompileParam(iter.Value())
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		specs = append(specs, *spec)
	}
	return specs, result.ErrorOrNil()
}

func labelName(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	name := sels[len(sels)-1].String()
	if unq, err := strconv.Unquote(name); err == nil {
		return unq
	}
	return name
}

// parseLiteral reads the single literal form named by form.
// Returns the set and a source text for diagnostics.
func parseLiteral(v cue.Value, form string) (numeric.Set, string, error) {
	fv := v.LookupPath(cue.ParsePath(form))

	switch form {
	case "range":
		if fv.Kind() == cue.ListKind {
			lo, hi, err := parsePair(fv)
			if err != nil {
				return numeric.Set{}, "", err
			}
			iv, err := numeric.NewInterval(lo, hi)
			if err != nil {
				return numeric.Set{}, "", literalError("range", err, fv.Pos())
			}
			return numeric.Of(iv), iv.String(), nil
		}
		text, err := fv.String()
		if err != nil {
			return numeric.Set{}, "", &CompileError{Field: "range", Message: "range must be a string literal or [min, max]", Pos: fv.Pos()}
		}
		set, err := numeric.Parse(text)
		if err != nil {
			return numeric.Set{}, "", literalError("range", err, fv.Pos())
		}
		return set, text, nil

	case "value":
		x, err := number(fv, "value")
		if err != nil {
			return numeric.Set{}, "", err
		}
		iv, err := numeric.Point(x)
		if err != nil {
			return numeric.Set{}, "", literalError("value", err, fv.Pos())
		}
		return numeric.Of(iv), iv.String(), nil

	case "center":
		center, err := number(fv, "center")
		if err != nil {
			return numeric.Set{}, "", err
		}
		tolVal := v.LookupPath(cue.ParsePath("tol"))
		absVal := v.LookupPath(cue.ParsePath("abs"))
		var iv numeric.Interval
		switch {
		case tolVal.Exists() && absVal.Exists():
			return numeric.Set{}, "", &CompileError{Field: "center", Message: "tol and abs are mutually exclusive", Pos: fv.Pos()}
		case tolVal.Exists():
			rel, err := number(tolVal, "tol")
			if err != nil {
				return numeric.Set{}, "", err
			}
			iv, err = numeric.FromCenterRel(center, rel)
			if err != nil {
				return numeric.Set{}, "", literalError("tol", err, tolVal.Pos())
			}
		case absVal.Exists():
			d, err := number(absVal, "abs")
			if err != nil {
				return numeric.Set{}, "", err
			}
			iv, err = numeric.FromCenter(center, d)
			if err != nil {
				return numeric.Set{}, "", literalError("abs", err, absVal.Pos())
			}
		default:
			return numeric.Set{}, "", &CompileError{Field: "center", Message: "center requires tol or abs", Pos: fv.Pos()}
		}
		return numeric.Of(iv), iv.String(), nil
	}

	return numeric.Set{}, "", &CompileError{Field: form, Message: "unknown literal form", Pos: fv.Pos()}
}

func parsePair(v cue.Value) (float64, float64, error) {
	iter, err := v.List()
	if err != nil {
		return 0, 0, formatCUEError(err)
	}
	var bounds []float64
	for iter.Next() {
		x, err := number(iter.Value(), "range")
		if err != nil {
			return 0, 0, err
		}
		bounds = append(bounds, x)
	}
	if len(bounds) != 2 {
		return 0, 0, &CompileError{
			Field:   "range",
			Message: fmt.Sprintf("range list needs exactly 2 bounds, got %d", len(bounds)),
			Pos:     v.Pos(),
		}
	}
	return bounds[0], bounds[1], nil
}

func number(v cue.Value, field string) (float64, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
	default:
		return 0, &CompileError{Field: field, Message: fmt.Sprintf("%s must be a number", field), Pos: v.Pos()}
	}
	x, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return x, nil
}

func literalError(field string, err error, pos token.Pos) *CompileError {
	return &CompileError{Field: field, Message: err.Error(), Pos: pos, Err: err}
}

// parseDerive reads {op: string, args: [...string], digits?: int}.
// Operator names and arity are checked by Validate, not here.
func parseDerive(v cue.Value) (*ir.DeriveSpec, error) {
	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return nil, &CompileError{Field: "derive.op", Message: "op is required", Pos: v.Pos()}
	}
	op, err := opVal.String()
	if err != nil {
		return nil, &CompileError{Field: "derive.op", Message: "op must be a string", Pos: opVal.Pos()}
	}

	derive := &ir.DeriveSpec{Op: op, Args: []string{}}

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if !argsVal.Exists() {
		return nil, &CompileError{Field: "derive.args", Message: "args is required", Pos: v.Pos()}
	}
	iter, err := argsVal.List()
	if err != nil {
		return nil, &CompileError{Field: "derive.args", Message: "args must be a list of parameter names", Pos: argsVal.Pos()}
	}
	for iter.Next() {
		arg, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{Field: "derive.args", Message: "args must be a list of parameter names", Pos: iter.Value().Pos()}
		}
		derive.Args = append(derive.Args, arg)
	}

	if digitsVal := v.LookupPath(cue.ParsePath("digits")); digitsVal.Exists() {
		digits, err := digitsVal.Int64()
		if err != nil {
			return nil, &CompileError{Field: "derive.digits", Message: "digits must be an integer", Pos: digitsVal.Pos()}
		}
		derive.Digits = int(digits)
	}

	return derive, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Err     error // underlying numeric error, if any
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
