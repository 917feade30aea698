package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/queryir"
	"github.com/roach88/paramset/internal/querysql"
)

// ReadSet returns the stored set with the given ID.
// Returns sql.ErrNoRows if no such set exists.
func (s *Store) ReadSet(ctx context.Context, id string) (ir.SetRecord, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT interval_count FROM sets WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return ir.SetRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT lo, hi FROM intervals
		WHERE set_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return ir.SetRecord{}, fmt.Errorf("query intervals: %w", err)
	}
	defer rows.Close()

	rec := ir.SetRecord{Intervals: make([]ir.Bounds, 0, count)}
	for rows.Next() {
		var lo, hi sql.NullFloat64
		if err := rows.Scan(&lo, &hi); err != nil {
			return ir.SetRecord{}, fmt.Errorf("scan interval: %w", err)
		}
		rec.Intervals = append(rec.Intervals, ir.Bounds{Min: boundFromColumn(lo), Max: boundFromColumn(hi)})
	}
	if err := rows.Err(); err != nil {
		return ir.SetRecord{}, fmt.Errorf("iterate intervals: %w", err)
	}

	if len(rec.Intervals) != count {
		return ir.SetRecord{}, fmt.Errorf("set %s: expected %d intervals, found %d", id, count, len(rec.Intervals))
	}
	return rec, nil
}

// ReadRun retrieves a run by token.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, token string) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, spec_hash, seq, engine_version, ir_version
		FROM runs
		WHERE token = ?
	`, token)
	return scanRun(row)
}

// LatestRun returns the run with the highest seq.
// Returns sql.ErrNoRows if the store holds no runs.
func (s *Store) LatestRun(ctx context.Context) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, spec_hash, seq, engine_version, ir_version
		FROM runs
		ORDER BY seq DESC, token COLLATE BINARY DESC
		LIMIT 1
	`)
	return scanRun(row)
}

// ListRuns returns every run ordered by seq, then token.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, spec_hash, seq, engine_version, ir_version
		FROM runs
		ORDER BY seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadParameter retrieves one parameter of a run, with its value loaded.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadParameter(ctx context.Context, runToken, name string) (ir.Parameter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+querysql.Columns+`
		FROM parameters p
		WHERE p.run_token = ? AND p.name = ?
	`, runToken, name)

	p, err := scanParameter(row)
	if err != nil {
		return ir.Parameter{}, err
	}
	p.Value, err = s.ReadSet(ctx, p.SetID)
	if err != nil {
		return ir.Parameter{}, fmt.Errorf("read parameter %q: %w", name, err)
	}
	return p, nil
}

// ListParameters returns all parameters of a run in evaluation order.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ListParameters(ctx context.Context, runToken string) ([]ir.Parameter, error) {
	return s.QueryParameters(ctx, queryir.Select{Run: runToken})
}

// QueryParameters runs a range query and returns matching parameters with
// their values loaded, ordered by seq ASC, name ASC.
func (s *Store) QueryParameters(ctx context.Context, q queryir.Query) ([]ir.Parameter, error) {
	if result := queryir.Validate(q); !result.IsValid {
		return nil, fmt.Errorf("invalid query: %s", strings.Join(result.Problems, "; "))
	}

	query, args, err := querysql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}

	params := []ir.Parameter{}
	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		params = append(params, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate parameters: %w", err)
	}
	// Release the only connection before loading sets.
	rows.Close()

	sets := make(map[string]ir.SetRecord)
	for i := range params {
		rec, ok := sets[params[i].SetID]
		if !ok {
			rec, err = s.ReadSet(ctx, params[i].SetID)
			if err != nil {
				return nil, fmt.Errorf("load set for %q: %w", params[i].Name, err)
			}
			sets[params[i].SetID] = rec
		}
		params[i].Value = rec
	}
	return params, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.Run, error) {
	var run ir.Run
	err := row.Scan(&run.Token, &run.SpecHash, &run.Seq, &run.EngineVersion, &run.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Run{}, err
	}
	if err != nil {
		return ir.Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

// scanParameter reads the querysql.Columns projection. Value is left empty.
func scanParameter(row scanner) (ir.Parameter, error) {
	var p ir.Parameter
	var op sql.NullString
	var argsJSON string

	err := row.Scan(&p.RunToken, &p.Name, &p.SetID, &p.Seq, &op, &argsJSON, &p.Digits, &p.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Parameter{}, err
	}
	if err != nil {
		return ir.Parameter{}, fmt.Errorf("scan parameter: %w", err)
	}

	p.Op = op.String
	p.Args, err = unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Parameter{}, err
	}
	return p, nil
}
