package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/store"
)

// DefaultMaxSteps is the default number of parameters one run may resolve.
const DefaultMaxSteps = 10000

// Engine evaluates parameter declarations into numeric sets.
//
// Evaluate calls are serialized. With a store attached every successful run
// is written in one transaction and seqs continue from the highest seq
// already in the database.
type Engine struct {
	mu       sync.Mutex
	tokens   RunTokenGenerator
	clock    *Clock
	store    *store.Store
	maxSteps int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps sets the per-run step quota.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithStore attaches a store that receives every completed run.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock replaces the engine's logical clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an engine that names its runs with tokens.
func New(tokens RunTokenGenerator, opts ...Option) *Engine {
	e := &Engine{
		tokens:   tokens,
		clock:    NewClock(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the per-run step quota.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Resolved is one evaluated parameter.
type Resolved struct {
	ir.Parameter
	Set numeric.Set
}

// Result is a completed run: its record and every parameter in the order
// it was resolved.
type Result struct {
	Run    ir.Run
	Params []Resolved

	index map[string]int
}

// Lookup returns the resolved parameter called name.
func (r *Result) Lookup(name string) (Resolved, bool) {
	i, ok := r.index[name]
	if !ok {
		return Resolved{}, false
	}
	return r.Params[i], true
}

// Set returns the set of the parameter called name.
func (r *Result) Set(name string) (numeric.Set, bool) {
	p, ok := r.Lookup(name)
	return p.Set, ok
}

// Parameters returns the store records of the run in resolution order.
func (r *Result) Parameters() []ir.Parameter {
	params := make([]ir.Parameter, len(r.Params))
	for i, p := range r.Params {
		params[i] = p.Parameter
	}
	return params
}

func (r *Result) add(p Resolved) {
	r.index[p.Name] = len(r.Params)
	r.Params = append(r.Params, p)
}

// Evaluate resolves specs in one run.
//
// Literal parameters are resolved first in declaration order, then derived
// parameters as soon as all of their arguments are known. The run fails as
// a whole on the first error; nothing is stored for a failed run.
func (e *Engine) Evaluate(ctx context.Context, specs []ir.ParamSpec) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store != nil {
		last, err := e.store.GetLastSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume clock: %w", err)
		}
		e.clock.advanceTo(last)
	}

	specHash, err := ir.SpecHash(specs)
	if err != nil {
		return nil, fmt.Errorf("hash specs: %w", err)
	}

	run := ir.Run{
		Token:         e.tokens.Generate(),
		SpecHash:      specHash,
		Seq:           e.clock.Next(),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}

	slog.Debug("evaluation started",
		"run", run.Token,
		"params", len(specs),
		"seq", run.Seq,
	)

	order, err := evaluationOrder(specs)
	if err != nil {
		return nil, withRunToken(err, run.Token)
	}

	quota := NewQuotaEnforcer(e.maxSteps)
	res := &Result{
		Run:    run,
		Params: make([]Resolved, 0, len(specs)),
		index:  make(map[string]int, len(specs)),
	}

	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spec := specs[i]

		if err := quota.Check(run.Token); err != nil {
			var se *StepsExceededError
			errors.As(err, &se)
			slog.Error("max steps quota exceeded",
				"run", run.Token,
				"param", spec.Name,
				"steps", quota.Current(),
				"limit", e.maxSteps,
			)
			return nil, NewQuotaError(run.Token, spec.Name, se)
		}

		set, err := e.resolve(spec, res)
		if err != nil {
			return nil, withRunToken(err, run.Token)
		}

		p := ir.Parameter{
			RunToken: run.Token,
			Name:     spec.Name,
			Value:    ir.FromSet(set),
			Seq:      e.clock.Next(),
			Unit:     spec.Unit,
		}
		if spec.Derive != nil {
			p.Op = spec.Derive.Op
			p.Args = slices.Clone(spec.Derive.Args)
			p.Digits = spec.Derive.Digits
		}
		if id, err := ir.SetID(p.Value); err == nil {
			p.SetID = id
		} else {
			slog.Debug("set has no content address", "param", spec.Name, "error", err)
		}

		slog.Debug("parameter resolved",
			"run", run.Token,
			"param", p.Name,
			"seq", p.Seq,
			"set", set.String(),
		)
		res.add(Resolved{Parameter: p, Set: set})
	}

	if e.store != nil {
		inserted, err := e.store.WriteRunAtomic(ctx, run, res.Parameters())
		if err != nil {
			return nil, fmt.Errorf("persist run %s: %w", run.Token, err)
		}
		if !inserted {
			return nil, fmt.Errorf("persist run %s: token already stored", run.Token)
		}
	}

	slog.Info("evaluation finished",
		"run", run.Token,
		"params", len(res.Params),
		"stored", e.store != nil,
	)
	return res, nil
}

// resolve computes the set of one parameter. Derived arguments are always
// in res because of the evaluation order.
func (e *Engine) resolve(spec ir.ParamSpec, res *Result) (numeric.Set, error) {
	if spec.Value != nil {
		set, err := spec.Value.ToSet()
		if err != nil {
			return numeric.Set{}, &RuntimeError{
				Code:    ErrCodeInvalidSpec,
				Message: "invalid literal value",
				Param:   spec.Name,
				Err:     err,
			}
		}
		return set, nil
	}

	d := spec.Derive
	args := make([]numeric.Set, len(d.Args))
	for i, name := range d.Args {
		args[i], _ = res.Set(name)
	}

	set, err := Apply(d.Op, args, d.Digits)
	if err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			re.Param = spec.Name
			return numeric.Set{}, re
		}
		return numeric.Set{}, NewDomainError("", spec.Name, d.Op, err)
	}
	return set, nil
}

func withRunToken(err error, token string) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.RunToken == "" {
		re.RunToken = token
	}
	return err
}
