package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/store"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func lit(name, text string) ir.ParamSpec {
	rec := ir.FromSet(numeric.MustParse(text))
	return ir.ParamSpec{Name: name, Literal: text, Value: &rec}
}

func derived(name, op string, args ...string) ir.ParamSpec {
	return ir.ParamSpec{Name: name, Derive: &ir.DeriveSpec{Op: op, Args: args}}
}

func requireSet(t *testing.T, want string, got numeric.Set) {
	t.Helper()
	w := numeric.MustParse(want)
	require.True(t, w.Equal(got), "want %s, got %s", w, got)
}

func names(res *Result) []string {
	out := make([]string, len(res.Params))
	for i, p := range res.Params {
		out[i] = p.Name
	}
	return out
}
