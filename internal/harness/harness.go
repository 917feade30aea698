package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/paramset/internal/engine"
	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/store"
	"github.com/roach88/paramset/internal/testutil"
)

// Harness executes one scenario against a private store and engine.
type Harness struct {
	store    *store.Store
	engine   *engine.Engine
	scenario *Scenario
	tol      float64
}

// Run executes a scenario and returns its result.
//
// Each scenario runs in a fresh in-memory database with a fresh logical
// clock and a fixed run token, so repeated runs produce identical traces.
// The returned error reports infrastructure failures only; failed
// expectations are recorded in Result.Errors.
//
// Execution:
//  1. evaluate params and derive through the engine, persisting the run
//  2. re-derive the stored run and flag any drift
//  3. execute steps in order
//  4. evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	tol := scenario.Tolerance
	if tol == 0 {
		tol = testutil.DefaultTolerance
	}

	h := &Harness{
		store: st,
		engine: engine.New(
			testutil.NewFixedRunToken(scenario.RunToken),
			engine.WithStore(st),
			engine.WithClock(engine.NewClock()),
		),
		scenario: scenario,
		tol:      tol,
	}

	result := NewResult()
	if err := h.evaluateParams(ctx, result); err != nil {
		return nil, err
	}
	if !result.Pass {
		return result, nil
	}

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.executeStep(i, step, result)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h.tol) {
		result.AddError(msg)
	}

	slog.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (h *Harness) evaluateParams(ctx context.Context, result *Result) error {
	specs, err := h.scenario.Specs()
	if err != nil {
		return fmt.Errorf("build specs: %w", err)
	}

	res, err := h.engine.Evaluate(ctx, specs)
	if err != nil {
		var re *engine.RuntimeError
		if errors.As(err, &re) {
			result.AddError(fmt.Sprintf("evaluate params: %v", err))
			return nil
		}
		return fmt.Errorf("evaluate params: %w", err)
	}
	result.RunToken = res.Run.Token

	for _, p := range res.Params {
		result.values[p.Name] = p.Set
		result.Trace = append(result.Trace, TraceEvent{
			Kind:  EventParam,
			Name:  p.Name,
			Op:    p.Op,
			Args:  p.Args,
			Value: p.Set.Exact(),
			Seq:   p.Seq,
		})
	}

	report, err := h.engine.Verify(ctx, res.Run.Token)
	if err != nil {
		return fmt.Errorf("verify stored run: %w", err)
	}
	for _, m := range report.Mismatches {
		result.AddError(fmt.Sprintf("stored %s drifted: %s recomputes to %s", m.Param, m.Stored, m.Recomputed))
	}
	for _, name := range report.Corrupt {
		result.AddError(fmt.Sprintf("stored %s no longer matches its set id", name))
	}
	return nil
}

// executeStep applies one operation and checks its expectation. Failures
// are recorded on result; a failed step does not stop later steps.
func (h *Harness) executeStep(i int, step Step, result *Result) {
	event := TraceEvent{
		Kind: EventStep,
		Name: step.Name,
		Op:   step.Op,
		Args: step.Args,
		Seq:  h.engine.Clock().Next(),
	}
	defer func() { result.Trace = append(result.Trace, event) }()

	args := make([]numeric.Set, len(step.Args))
	for k, ref := range step.Args {
		s, err := operand(result, ref)
		if err != nil {
			event.Error = "BadOperand"
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			return
		}
		args[k] = s
	}

	got, err := engine.Apply(step.Op, args, step.Digits)
	if err != nil {
		event.Error = errorName(err)
		switch {
		case step.ExpectError == "":
			result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Op, err))
		case step.ExpectError != event.Error:
			result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Op, step.ExpectError, event.Error))
		}
		return
	}

	event.Value = got.Exact()
	if step.Name != "" {
		result.values[step.Name] = got
	}

	if step.ExpectError != "" {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Op, step.ExpectError, got.Exact()))
		return
	}
	if step.Expect != "" {
		want, err := numeric.Parse(step.Expect)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d].expect: %v", i, err))
			return
		}
		if diff := testutil.SetDiff(want, got, h.tol); diff != "" {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %s (-want +got):\n%s", i, step.Op, want.Exact(), got.Exact(), diff))
		}
	}
}

// operand resolves a reference to a named value or, failing that, parses
// it as a literal.
func operand(result *Result, ref string) (numeric.Set, error) {
	if s, ok := result.values[ref]; ok {
		return s, nil
	}
	s, err := numeric.Parse(ref)
	if err != nil {
		return numeric.Set{}, fmt.Errorf("%q is neither a known name nor a literal: %w", ref, err)
	}
	return s, nil
}

// errorName is the name scenarios use for err: the numeric kind when
// there is one, otherwise the engine error code.
func errorName(err error) string {
	if kind := numeric.Kind(err); kind != "" {
		return kind
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return "Unknown"
}
