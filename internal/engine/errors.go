package engine

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeError is an error detected while evaluating a run.
//
// Code identifies the category. Err, when set, is the underlying cause and
// is reachable through errors.Is/As; numeric domain failures keep their
// sentinel this way.
type RuntimeError struct {
	Code     RuntimeErrorCode
	Message  string
	RunToken string

	// Param names the parameter being resolved, if any.
	Param string

	// Details carries extra context such as the cycle members.
	Details map[string]string

	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownParam means a derive names an argument that is not declared.
	ErrCodeUnknownParam RuntimeErrorCode = "UNKNOWN_PARAM"

	// ErrCodeCycleDetected means derived parameters depend on each other.
	ErrCodeCycleDetected RuntimeErrorCode = "CYCLE_DETECTED"

	// ErrCodeQuotaExceeded means the run resolved more parameters than allowed.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeDomainError means an operation is undefined for its operands,
	// for example log of a range that reaches zero.
	ErrCodeDomainError RuntimeErrorCode = "DOMAIN_ERROR"

	// ErrCodeUnknownOp means a derive names an operator the engine lacks.
	ErrCodeUnknownOp RuntimeErrorCode = "UNKNOWN_OP"

	// ErrCodeInvalidSpec covers malformed declarations: duplicate names,
	// wrong argument counts, missing or invalid literal values.
	ErrCodeInvalidSpec RuntimeErrorCode = "INVALID_SPEC"
)

func (e *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	switch {
	case e.RunToken != "" && e.Param != "":
		fmt.Fprintf(&b, " (run=%s, param=%s)", e.RunToken, e.Param)
	case e.RunToken != "":
		fmt.Fprintf(&b, " (run=%s)", e.RunToken)
	case e.Param != "":
		fmt.Fprintf(&b, " (param=%s)", e.Param)
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err wraps a RuntimeError with the given code.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsCycleError reports whether err is a cycle detection error.
func IsCycleError(err error) bool {
	return HasCode(err, ErrCodeCycleDetected)
}

// IsQuotaError reports whether err is a quota error. Matches both a
// RuntimeError with ErrCodeQuotaExceeded and a bare StepsExceededError.
func IsQuotaError(err error) bool {
	return HasCode(err, ErrCodeQuotaExceeded) || IsStepsExceededError(err)
}

// IsDomainError reports whether err is a numeric domain error.
func IsDomainError(err error) bool {
	return HasCode(err, ErrCodeDomainError)
}

// NewCycleError creates a RuntimeError for parameters that could not be
// ordered because they depend on each other.
func NewCycleError(runToken string, members []string) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeCycleDetected,
		Message:  fmt.Sprintf("derived parameters depend on each other: %s", strings.Join(members, ", ")),
		RunToken: runToken,
		Details:  map[string]string{"members": strings.Join(members, ",")},
	}
}

// NewQuotaError creates a RuntimeError for an exceeded step quota.
func NewQuotaError(runToken, param string, cause *StepsExceededError) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeQuotaExceeded,
		Message:  fmt.Sprintf("run exceeded max steps (%d > %d)", cause.Steps, cause.Limit),
		RunToken: runToken,
		Param:    param,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", cause.Steps),
			"max_steps": fmt.Sprintf("%d", cause.Limit),
		},
		Err: cause,
	}
}

// NewDomainError wraps a numeric failure of op while resolving param.
func NewDomainError(runToken, param, op string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeDomainError,
		Message:  fmt.Sprintf("%s failed", op),
		RunToken: runToken,
		Param:    param,
		Err:      cause,
	}
}
