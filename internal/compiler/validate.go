package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/paramset/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// ParamSpec errors (E101-E109)
	ErrInvalidParamName = "E101" // name empty or not an identifier
	ErrParamNoValue     = "E102" // neither value nor derive
	ErrParamBothForms   = "E103" // both value and derive
	ErrUnknownOp        = "E104" // derive op not in ir.Ops
	ErrDuplicateName    = "E105" // parameter declared twice
	ErrWrongArity       = "E106" // wrong number of derive args
	ErrInvalidValue     = "E107" // literal does not decode to a valid set
	ErrDigitsNotAllowed = "E108" // digits on an op other than round

	// Spec list errors (E110-E119)
	ErrUndefinedArg  = "E110" // derive arg names no parameter
	ErrSelfReference = "E111" // parameter derives from itself
	ErrCycle         = "E112" // dependency cycle between parameters
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
//
// A single ParamSpec is checked in isolation. A []ir.ParamSpec is also
// checked as a whole: duplicate names, undefined arguments and cycles.
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.ParamSpec:
		return validateParamSpec(spec)
	case ir.ParamSpec:
		return validateParamSpec(&spec)
	case []ir.ParamSpec:
		return validateSpecList(spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateParamSpec(spec *ir.ParamSpec) []ValidationError {
	var errs []ValidationError
	field := "param." + spec.Name

	// E101
	if !identPattern.MatchString(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid parameter name %q: must be an identifier", spec.Name),
			Code:    ErrInvalidParamName,
			Line:    spec.Line,
		})
	}

	switch {
	case spec.Value == nil && spec.Derive == nil:
		// E102
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "parameter has neither a value nor a derivation",
			Code:    ErrParamNoValue,
			Line:    spec.Line,
		})
	case spec.Value != nil && spec.Derive != nil:
		// E103
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "parameter has both a value and a derivation",
			Code:    ErrParamBothForms,
			Line:    spec.Line,
		})
	}

	if spec.Value != nil {
		// E107
		if _, err := spec.Value.ToSet(); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: err.Error(),
				Code:    ErrInvalidValue,
				Line:    spec.Line,
			})
		}
	}

	if spec.Derive != nil {
		errs = append(errs, validateDerive(spec, field+".derive")...)
	}

	return errs
}

func validateDerive(spec *ir.ParamSpec, field string) []ValidationError {
	var errs []ValidationError
	d := spec.Derive

	arity, known := ir.Ops[d.Op]
	if !known {
		// E104
		errs = append(errs, ValidationError{
			Field:   field + ".op",
			Message: fmt.Sprintf("unknown op %q (known: %v)", d.Op, ir.OpNames()),
			Code:    ErrUnknownOp,
			Line:    spec.Line,
		})
	} else if len(d.Args) != arity {
		// E106
		errs = append(errs, ValidationError{
			Field:   field + ".args",
			Message: fmt.Sprintf("op %q takes %d argument(s), got %d", d.Op, arity, len(d.Args)),
			Code:    ErrWrongArity,
			Line:    spec.Line,
		})
	}

	// E108
	if d.Digits != 0 && d.Op != "round" {
		errs = append(errs, ValidationError{
			Field:   field + ".digits",
			Message: fmt.Sprintf("digits only applies to round, not %q", d.Op),
			Code:    ErrDigitsNotAllowed,
			Line:    spec.Line,
		})
	}

	for i, arg := range d.Args {
		// E111
		if arg == spec.Name {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.args[%d]", field, i),
				Message: fmt.Sprintf("parameter %q derives from itself", spec.Name),
				Code:    ErrSelfReference,
				Line:    spec.Line,
			})
		}
	}

	return errs
}

func validateSpecList(specs []ir.ParamSpec) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool, len(specs))
	for i := range specs {
		spec := &specs[i]
		errs = append(errs, validateParamSpec(spec)...)

		// E105
		if declared[spec.Name] {
			errs = append(errs, ValidationError{
				Field:   "param." + spec.Name,
				Message: fmt.Sprintf("duplicate parameter name: %q", spec.Name),
				Code:    ErrDuplicateName,
				Line:    spec.Line,
			})
		}
		declared[spec.Name] = true
	}

	// E110
	for i := range specs {
		spec := &specs[i]
		if spec.Derive == nil {
			continue
		}
		for j, arg := range spec.Derive.Args {
			if !declared[arg] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("param.%s.derive.args[%d]", spec.Name, j),
					Message: fmt.Sprintf("undefined parameter %q", arg),
					Code:    ErrUndefinedArg,
					Line:    spec.Line,
				})
			}
		}
	}

	// E112: self-loops are already E111.
	for _, w := range AnalyzeCycles(specs) {
		if len(w.Path) == 2 && w.Path[0] == w.Path[1] {
			continue
		}
		errs = append(errs, ValidationError{
			Field:   "param." + w.Path[0],
			Message: w.Message,
			Code:    ErrCycle,
		})
	}

	return errs
}
