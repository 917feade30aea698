package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestRun(token string, seq int64) ir.Run {
	return ir.Run{
		Token:         token,
		SpecHash:      "test-hash",
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

// createTestParameter builds a literal parameter from set notation.
func createTestParameter(run, name, literal string, seq int64) ir.Parameter {
	rec := ir.FromSet(numeric.MustParse(literal))
	return ir.Parameter{
		RunToken: run,
		Name:     name,
		SetID:    ir.MustSetID(rec),
		Value:    rec,
		Seq:      seq,
	}
}
