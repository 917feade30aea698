package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/paramset/internal/ir"
)

// marshalArgs converts argument names to canonical JSON TEXT for storage.
// Literal parameters have no args and store "[]".
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses the stored args column. Empty arrays decode to nil
// so literal parameters round-trip with Args == nil.
func unmarshalArgs(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var args []string
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}

// nullableOp stores literal parameters with a NULL op.
func nullableOp(op string) any {
	if op == "" {
		return nil
	}
	return op
}

func boundParam(b *float64) any {
	if b == nil {
		return nil
	}
	return *b
}

func boundFromColumn(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
