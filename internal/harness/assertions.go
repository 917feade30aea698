package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/testutil"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the values in result
// and returns one message per failure. tol is the relative tolerance for
// closest.
func EvaluateAssertions(result *Result, assertions []Assertion, tol float64) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, tol); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, tol float64) error {
	lhs, err := operand(result, a.A)
	if err != nil {
		return err
	}

	switch a.Type {
	case AssertSubset, AssertSuperset:
		rhs, err := operand(result, a.B)
		if err != nil {
			return err
		}
		return assertRelation(a, lhs, rhs)
	case AssertContains:
		return assertContains(a, lhs)
	case AssertClosest:
		return assertClosest(a, lhs, tol)
	case AssertCompare:
		rhs, err := operand(result, a.B)
		if err != nil {
			return err
		}
		return assertCompare(a, lhs, rhs)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func want(a Assertion) bool {
	return a.Want == nil || *a.Want
}

func assertRelation(a Assertion, lhs, rhs numeric.Set) error {
	var got bool
	if a.Type == AssertSubset {
		got = lhs.IsSubsetOf(rhs)
	} else {
		got = lhs.IsSupersetOf(rhs)
	}
	if got == want(a) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s %s %s is %t", a.A, a.Type, a.B, want(a)),
		Actual:   fmt.Sprintf("%s %s %s is %t", lhs.Exact(), a.Type, rhs.Exact(), got),
	}
}

func assertContains(a Assertion, s numeric.Set) error {
	v := *a.Value
	if got := s.Contains(v); got != want(a) {
		return &AssertionError{
			Type:     AssertContains,
			Expected: fmt.Sprintf("%s contains %s is %t", a.A, numeric.FormatNumber(v), want(a)),
			Actual:   fmt.Sprintf("%s contains %s is %t", s.Exact(), numeric.FormatNumber(v), got),
		}
	}
	return nil
}

func assertClosest(a Assertion, s numeric.Set, tol float64) error {
	got, err := s.ClosestElem(*a.Value)
	if a.ExpectError != "" {
		if kind := numeric.Kind(err); kind != a.ExpectError {
			actual := "no error"
			if err != nil {
				actual = err.Error()
			}
			return &AssertionError{
				Type:     AssertClosest,
				Expected: "error " + a.ExpectError,
				Actual:   actual,
			}
		}
		return nil
	}
	if err != nil {
		return &AssertionError{Type: AssertClosest, Expected: a.Expect, Actual: err.Error()}
	}

	expected, err := numeric.ParseInterval(a.Expect)
	if err != nil {
		return fmt.Errorf("expect: %w", err)
	}
	gotSet, err := numeric.Singleton(got)
	if err != nil {
		return err
	}
	if !testutil.SetsEqual(numeric.Of(expected), gotSet, tol) {
		return &AssertionError{
			Type:     AssertClosest,
			Expected: fmt.Sprintf("closest to %s in %s is %s", numeric.FormatNumber(*a.Value), a.A, a.Expect),
			Actual:   numeric.FormatNumber(got),
		}
	}
	return nil
}

func assertCompare(a Assertion, lhs, rhs numeric.Set) error {
	var got numeric.BoolSet
	switch a.Op {
	case "lt":
		got = lhs.LT(rhs)
	case "le":
		got = lhs.LE(rhs)
	case "gt":
		got = lhs.GT(rhs)
	case "ge":
		got = lhs.GE(rhs)
	default:
		return fmt.Errorf("unknown compare op %q", a.Op)
	}

	if name := truthName(got); name != a.Expect {
		return &AssertionError{
			Type:     AssertCompare,
			Expected: fmt.Sprintf("%s %s %s is %s", a.A, a.Op, a.B, a.Expect),
			Actual:   fmt.Sprintf("%s %s %s is %s", lhs.Exact(), a.Op, rhs.Exact(), name),
		}
	}
	return nil
}

func truthName(b numeric.BoolSet) string {
	switch {
	case b.IsEmpty():
		return "empty"
	case b.IsTrue():
		return "true"
	case b.IsFalse():
		return "false"
	default:
		return "indeterminate"
	}
}
