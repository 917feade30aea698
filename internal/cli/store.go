package cli

import (
	"fmt"
	"os"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/store"
)

// openStore opens the database at path. Read-only commands pass mustExist
// so that a typo in --db is reported instead of creating an empty file.
func openStore(path string, mustExist bool) (*store.Store, error) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "no database given (use --db or PARAMSET_DB)"}
	}
	if mustExist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", path)}
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	return st, nil
}

// ParamRow is the display form of one stored parameter.
type ParamRow struct {
	RunToken string   `json:"run_token,omitempty"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit,omitempty"`
	Value    string   `json:"value"` // exact bracket form
	SetID    string   `json:"set_id"`
	Seq      int64    `json:"seq"`
	Op       string   `json:"op,omitempty"`
	Args     []string `json:"args,omitempty"`
	Digits   int      `json:"digits,omitempty"`
}

func toRow(p ir.Parameter) ParamRow {
	row := ParamRow{
		RunToken: p.RunToken,
		Name:     p.Name,
		Unit:     p.Unit,
		SetID:    p.SetID,
		Seq:      p.Seq,
		Op:       p.Op,
		Args:     p.Args,
		Digits:   p.Digits,
	}
	if set, err := p.Value.ToSet(); err == nil {
		row.Value = set.Exact()
	} else {
		row.Value = "<corrupt>"
	}
	return row
}

func (r ParamRow) label() string {
	if r.Unit == "" {
		return r.Name
	}
	return fmt.Sprintf("%s [%s]", r.Name, r.Unit)
}
