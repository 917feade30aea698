package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

// Mismatch is a stored derived parameter whose set differs from what its
// operation yields over the stored arguments.
type Mismatch struct {
	Param      string
	Op         string
	Stored     string
	Recomputed string
}

// VerifyReport is the outcome of re-deriving a stored run.
type VerifyReport struct {
	RunToken   string
	Checked    int
	Mismatches []Mismatch

	// Corrupt lists parameters whose intervals no longer hash to their
	// recorded set ID.
	Corrupt []string
}

// OK reports whether the run re-derived cleanly.
func (r *VerifyReport) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Corrupt) == 0
}

// Verify reloads a stored run and recomputes every derived parameter from
// the stored sets of its arguments. Evaluation is deterministic, so a
// healthy run reproduces every set exactly.
//
// Requires a store.
func (e *Engine) Verify(ctx context.Context, token string) (*VerifyReport, error) {
	if e.store == nil {
		return nil, fmt.Errorf("verify run %s: engine has no store", token)
	}

	state, err := e.store.GetRunState(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify run %s: %w", token, err)
	}

	report := &VerifyReport{
		RunToken:   token,
		Mismatches: []Mismatch{},
		Corrupt:    state.Corrupt,
	}

	sets := make(map[string]numeric.Set, len(state.Parameters))
	for _, p := range state.Parameters {
		s, err := p.Value.ToSet()
		if err != nil {
			return nil, fmt.Errorf("verify run %s: parameter %q: %w", token, p.Name, err)
		}
		sets[p.Name] = s
	}

	for _, p := range state.Parameters {
		if p.Op == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++

		recomputed, err := rederive(p, sets)
		if err != nil {
			return nil, withRunToken(err, token)
		}
		if stored := sets[p.Name]; !stored.Equal(recomputed) {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Param:      p.Name,
				Op:         p.Op,
				Stored:     stored.String(),
				Recomputed: recomputed.String(),
			})
		}
	}

	slog.Info("run verified",
		"run", token,
		"checked", report.Checked,
		"mismatches", len(report.Mismatches),
		"corrupt", len(report.Corrupt),
	)
	return report, nil
}

func rederive(p ir.Parameter, sets map[string]numeric.Set) (numeric.Set, error) {
	args := make([]numeric.Set, len(p.Args))
	for i, name := range p.Args {
		s, ok := sets[name]
		if !ok {
			return numeric.Set{}, &RuntimeError{
				Code:    ErrCodeUnknownParam,
				Message: fmt.Sprintf("argument %q is not stored", name),
				Param:   p.Name,
			}
		}
		args[i] = s
	}
	set, err := Apply(p.Op, args, p.Digits)
	if err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			return numeric.Set{}, err
		}
		return numeric.Set{}, NewDomainError("", p.Name, p.Op, err)
	}
	return set, nil
}
