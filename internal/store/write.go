package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/paramset/internal/ir"
)

// WriteSet stores a set and returns its content-addressed ID.
// Writing a set that is already stored is a no-op.
func (s *Store) WriteSet(ctx context.Context, rec ir.SetRecord) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write set: begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := writeSetTx(ctx, tx, rec)
	if err != nil {
		return "", fmt.Errorf("write set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write set: commit: %w", err)
	}
	return id, nil
}

// writeSetTx claims the set row via its primary key. Interval rows are only
// written by the caller that inserted the set row.
func writeSetTx(ctx context.Context, tx *sql.Tx, rec ir.SetRecord) (string, error) {
	id, err := ir.SetID(rec)
	if err != nil {
		return "", err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sets (id, interval_count)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, len(rec.Intervals))
	if err != nil {
		return "", fmt.Errorf("insert set: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected: %w", err)
	}
	if inserted == 0 {
		return id, nil
	}

	for idx, b := range rec.Intervals {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO intervals (set_id, idx, lo, hi)
			VALUES (?, ?, ?, ?)
		`, id, idx, boundParam(b.Min), boundParam(b.Max))
		if err != nil {
			return "", fmt.Errorf("insert interval %d: %w", idx, err)
		}
	}
	return id, nil
}

// WriteRun inserts a run record. Duplicate tokens are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, spec_hash, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.SpecHash,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteParameter stores a resolved parameter together with its set.
// The run must already exist (foreign key). A parameter name is written
// once per run; later writes for the same (run, name) are ignored.
//
// If p.SetID is set it must match the ID of p.Value.
func (s *Store) WriteParameter(ctx context.Context, p ir.Parameter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write parameter: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeParameterTx(ctx, tx, p); err != nil {
		return fmt.Errorf("write parameter %q: %w", p.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write parameter: commit: %w", err)
	}
	return nil
}

func writeParameterTx(ctx context.Context, tx *sql.Tx, p ir.Parameter) error {
	id, err := writeSetTx(ctx, tx, p.Value)
	if err != nil {
		return err
	}
	if p.SetID != "" && p.SetID != id {
		return fmt.Errorf("set id mismatch: record hashes to %s, parameter carries %s", id, p.SetID)
	}

	argsJSON, err := marshalArgs(p.Args)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO parameters (run_token, name, set_id, seq, op, args, digits, unit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, name) DO NOTHING
	`,
		p.RunToken,
		p.Name,
		id,
		p.Seq,
		nullableOp(p.Op),
		argsJSON,
		p.Digits,
		p.Unit,
	)
	if err != nil {
		return fmt.Errorf("insert parameter: %w", err)
	}
	return nil
}

// WriteRunAtomic writes a run and all of its parameters in one transaction.
//
// Returns inserted=false, without touching parameters, when a run with the
// same token is already stored. A crash leaves either the whole run or
// nothing.
func (s *Store) WriteRunAtomic(ctx context.Context, run ir.Run, params []ir.Parameter) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("atomic run: begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, spec_hash, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.SpecHash,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return false, fmt.Errorf("atomic run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("atomic run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	for _, p := range params {
		if p.RunToken != run.Token {
			return false, fmt.Errorf("atomic run: parameter %q belongs to run %q", p.Name, p.RunToken)
		}
		if err := writeParameterTx(ctx, tx, p); err != nil {
			return false, fmt.Errorf("atomic run: parameter %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("atomic run: commit: %w", err)
	}
	return true, nil
}
