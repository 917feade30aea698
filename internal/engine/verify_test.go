package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/numeric"
)

func TestVerify_CleanRun(t *testing.T) {
	s := setupTestStore(t)
	e := New(NewFixedGenerator("run-1"), WithStore(s))

	_, err := e.Evaluate(ctx(t), circuit())
	require.NoError(t, err)

	report, err := e.Verify(ctx(t), "run-1")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Checked)
	assert.Empty(t, report.Mismatches)
	assert.Empty(t, report.Corrupt)
}

func TestVerify_DetectsSwappedSet(t *testing.T) {
	s := setupTestStore(t)
	e := New(NewFixedGenerator("run-1"), WithStore(s))

	_, err := e.Evaluate(ctx(t), circuit())
	require.NoError(t, err)

	// Point I at V's set. The hashes stay consistent, the derivation does not.
	_, err = s.DB().Exec(`
		UPDATE parameters
		SET set_id = (SELECT set_id FROM parameters WHERE run_token = 'run-1' AND name = 'V')
		WHERE run_token = 'run-1' AND name = 'I'
	`)
	require.NoError(t, err)

	report, err := e.Verify(ctx(t), "run-1")
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Empty(t, report.Corrupt)

	// P = V * I is recomputed from the swapped I as well.
	require.Len(t, report.Mismatches, 2)
	assert.Equal(t, "I", report.Mismatches[0].Param)
	assert.Equal(t, "div", report.Mismatches[0].Op)
	assert.Equal(t, numeric.MustParse("[10, 20]").String(), report.Mismatches[0].Stored)
	assert.Equal(t, numeric.MustParse("[2, 10]").String(), report.Mismatches[0].Recomputed)
	assert.Equal(t, "P", report.Mismatches[1].Param)
}

func TestVerify_DetectsTamperedIntervals(t *testing.T) {
	s := setupTestStore(t)
	e := New(NewFixedGenerator("run-1"), WithStore(s))

	_, err := e.Evaluate(ctx(t), circuit())
	require.NoError(t, err)

	_, err = s.DB().Exec(`
		UPDATE intervals SET hi = 21
		WHERE set_id = (SELECT set_id FROM parameters WHERE run_token = 'run-1' AND name = 'V')
	`)
	require.NoError(t, err)

	report, err := e.Verify(ctx(t), "run-1")
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"V"}, report.Corrupt)
}

func TestVerify_RequiresStore(t *testing.T) {
	e := New(NewFixedGenerator())

	_, err := e.Verify(ctx(t), "run-1")
	assert.ErrorContains(t, err, "no store")
}

func TestVerify_UnknownRun(t *testing.T) {
	e := New(NewFixedGenerator(), WithStore(setupTestStore(t)))

	_, err := e.Verify(ctx(t), "missing")
	assert.Error(t, err)
}
