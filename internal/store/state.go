package store

import (
	"context"
	"fmt"

	"github.com/roach88/paramset/internal/ir"
)

// RunState summarizes a stored run for inspection and integrity checks.
type RunState struct {
	Run        ir.Run
	Parameters []ir.Parameter
	LastSeq    int64

	// Corrupt lists parameters whose stored intervals no longer hash to
	// their recorded set ID.
	Corrupt []string
}

// GetRunState loads a run with all of its parameters and verifies that
// every stored set still matches its content address.
func (s *Store) GetRunState(ctx context.Context, token string) (RunState, error) {
	run, err := s.ReadRun(ctx, token)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}

	params, err := s.ListParameters(ctx, token)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}

	state := RunState{
		Run:        run,
		Parameters: params,
		LastSeq:    run.Seq,
		Corrupt:    []string{},
	}
	for _, p := range params {
		if p.Seq > state.LastSeq {
			state.LastSeq = p.Seq
		}
		id, err := ir.SetID(p.Value)
		if err != nil || id != p.SetID {
			state.Corrupt = append(state.Corrupt, p.Name)
		}
	}
	return state, nil
}

// GetLastSeq returns the highest seq used anywhere in the store, or 0 for
// an empty store. The engine resumes its logical clock from here so seqs
// keep increasing across runs that share a database.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(
			(SELECT COALESCE(MAX(seq), 0) FROM runs),
			(SELECT COALESCE(MAX(seq), 0) FROM parameters)
		)
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return maxSeq, nil
}

// ListRunTokens returns all run tokens ordered by seq, then token.
func (s *Store) ListRunTokens(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token FROM runs
		ORDER BY seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list run tokens: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan run token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run tokens: %w", err)
	}
	return tokens, nil
}
