package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/store"
)

func TestSaveStoresRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewSaveCommand(&RootOptions{Format: "json"}), "--db", db, writeSpecs(t, circuitSpec))
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.RunToken)
	assert.Equal(t, int64(1), resp.Data.Seq)

	rows := resp.Data.Params
	require.Len(t, rows, 4)
	assert.Equal(t, "V", rows[0].Name)
	assert.Equal(t, "{[2, 10]}", rows[2].Value)
	assert.Equal(t, "A", rows[2].Unit)
	assert.Equal(t, []string{"V", "R"}, rows[2].Args)
	assert.Equal(t, "{[20, 200]}", rows[3].Value)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	params, err := st.ListParameters(ctx(t), resp.Data.RunToken)
	require.NoError(t, err)
	assert.Len(t, params, 4)
}

func TestSaveSeqsContinueAcrossRuns(t *testing.T) {
	db := saveCircuit(t)

	out, err := execute(t, NewSaveCommand(&RootOptions{Format: "json"}), "--db", db, writeSpecs(t, circuitSpec))
	require.NoError(t, err)

	var resp struct {
		Data SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(6), resp.Data.Seq, "first run used seqs 1..5")
}

func TestSaveDomainErrorStoresNothing(t *testing.T) {
	spec := `package test

param: {
	x: {range: [-1, 1]}
	y: {derive: {op: "log", args: ["x"]}}
}
`
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, NewSaveCommand(&RootOptions{Format: "json"}), "--db", db, writeSpecs(t, spec))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "DOMAIN_ERROR", resp.Error.Code)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(ctx(t))
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSaveQuotaFromFlag(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, NewSaveCommand(&RootOptions{Format: "text"}), "--db", db, "--max-steps", "2", writeSpecs(t, circuitSpec))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "QUOTA_EXCEEDED")
}

func TestSaveInvalidSpecs(t *testing.T) {
	_, err := execute(t, NewSaveCommand(&RootOptions{Format: "text"}), "--db", filepath.Join(t.TempDir(), "x.db"), "/nonexistent")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestQueryByUnitAndRange(t *testing.T) {
	db := saveCircuit(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"all", nil, []string{"V", "R", "I", "P"}},
		{"name", []string{"--name", "I"}, []string{"I"}},
		{"unit", []string{"--unit", "ohm"}, []string{"R"}},
		{"contains", []string{"--contains", "15"}, []string{"V"}},
		{"overlaps", []string{"--overlaps", "[4, 9]"}, []string{"R", "I"}},
		{"within", []string{"--within", "[0, 20]"}, []string{"V", "R", "I"}},
		{"and", []string{"--within", "[0, 20]", "--unit", "A"}, []string{"I"}},
		{"limit", []string{"--limit", "2"}, []string{"V", "R"}},
		{"latest", []string{"--latest", "--name", "P"}, []string{"P"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", db}, tt.args...)
			out, err := execute(t, NewQueryCommand(&RootOptions{Format: "json"}), args...)
			require.NoError(t, err)

			var resp struct {
				Data QueryResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			names := make([]string, len(resp.Data.Params))
			for i, p := range resp.Data.Params {
				names[i] = p.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestQueryText(t *testing.T) {
	db := saveCircuit(t)

	out, err := execute(t, NewQueryCommand(&RootOptions{Format: "text"}), "--db", db, "--name", "P")
	require.NoError(t, err)
	assert.Contains(t, out, "P [W] = {[20, 200]}")

	out, err = execute(t, NewQueryCommand(&RootOptions{Format: "text"}), "--db", db, "--name", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching parameters.")
}

func TestQueryListRuns(t *testing.T) {
	db := saveCircuit(t)

	out, err := execute(t, NewQueryCommand(&RootOptions{Format: "json"}), "--db", db, "--runs")
	require.NoError(t, err)

	var resp struct {
		Data []RunRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
}

func TestQueryErrors(t *testing.T) {
	db := saveCircuit(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing db", []string{"--db", filepath.Join(t.TempDir(), "none.db")}, "database not found"},
		{"inverted range", []string{"--db", db, "--within", "[5, 1]"}, "--within"},
		{"bad number", []string{"--db", db, "--contains", "x"}, "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, NewQueryCommand(&RootOptions{Format: "text"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerifyLatestRun(t *testing.T) {
	db := saveCircuit(t)

	out, err := execute(t, NewVerifyCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "verified (2 derived param(s))")
}

func TestVerifyDetectsTampering(t *testing.T) {
	db := saveCircuit(t)

	st, err := store.Open(db)
	require.NoError(t, err)
	run, err := st.LatestRun(ctx(t))
	require.NoError(t, err)
	// V now points at R's set: still a valid set, but I and P no longer follow.
	_, err = st.DB().Exec(`UPDATE parameters SET set_id = (SELECT set_id FROM parameters WHERE run_token = ? AND name = 'R') WHERE run_token = ? AND name = 'V'`, run.Token, run.Token)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewVerifyCommand(&RootOptions{Format: "json"}), "--db", db, "--run", run.Token)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data VerifyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.OK)
	assert.Equal(t, 2, resp.Data.Checked)
	require.NotEmpty(t, resp.Data.Mismatches)
	assert.Equal(t, "I", resp.Data.Mismatches[0].Param)
}

func TestVerifyUnknownRun(t *testing.T) {
	db := saveCircuit(t)

	_, err := execute(t, NewVerifyCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}
