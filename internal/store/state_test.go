package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRunState(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)

	state, err := s.GetRunState(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", state.Run.Token)
	assert.Len(t, state.Parameters, 5)
	assert.Equal(t, int64(5), state.LastSeq)
	assert.Empty(t, state.Corrupt)
}

func TestGetRunState_DetectsTamperedSet(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)
	ctx := context.Background()

	r1, err := s.ReadParameter(ctx, "run-1", "R1")
	require.NoError(t, err)
	_, err = s.db.Exec("UPDATE intervals SET hi = 999 WHERE set_id = ?", r1.SetID)
	require.NoError(t, err)

	state, err := s.GetRunState(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, state.Corrupt)
}

func TestGetRunState_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetRunState(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.GetLastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	seedRun(t, s)
	seq, err = s.GetLastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), seq)
}

func TestListRunTokens(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tokens, err := s.ListRunTokens(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)

	require.NoError(t, s.WriteRun(ctx, createTestRun("z", 1)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("a", 2)))

	tokens, err = s.ListRunTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, tokens)
}
