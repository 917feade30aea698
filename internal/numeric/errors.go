package numeric

import (
	"errors"
	"fmt"
)

// Construction errors. Returned before any result is built.
var (
	ErrNaNMin        = errors.New("min bound is NaN")
	ErrNaNMax        = errors.New("max bound is NaN")
	ErrInvalidBounds = errors.New("min bound exceeds max bound")
)

// Domain errors.
var (
	ErrNonPositiveLog                            = errors.New("log of non-positive value")
	ErrNegativeExponentUnsupported               = errors.New("negative exponent unsupported")
	ErrExponentCrossesZero                       = errors.New("exponent range crosses zero")
	ErrFractionalExponentRequiresIntegerExponent = errors.New("negative base requires a single integer exponent")
	ErrEmpty                                     = errors.New("empty set")
	ErrNaNTarget                                 = errors.New("target is NaN")
)

// OpError records the operation that failed and the underlying sentinel.
// errors.Is matches the sentinel through Unwrap.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrNaNMin, "NaNMin"},
	{ErrNaNMax, "NaNMax"},
	{ErrInvalidBounds, "InvalidBounds"},
	{ErrNonPositiveLog, "NonPositiveLog"},
	{ErrNegativeExponentUnsupported, "NegativeExponentUnsupported"},
	{ErrExponentCrossesZero, "ExponentCrossesZero"},
	{ErrFractionalExponentRequiresIntegerExponent, "FractionalExponentRequiresIntegerExponent"},
	{ErrEmpty, "Empty"},
	{ErrNaNTarget, "NaNTarget"},
}

// Kind returns the stable name of the numeric error wrapped by err,
// or "" when err is not one of this package's sentinels.
// Names are used in scenario files and JSON output.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// KindError returns the sentinel registered under name.
func KindError(name string) (error, bool) {
	for _, k := range kinds {
		if k.name == name {
			return k.err, true
		}
	}
	return nil, false
}
