package store

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/queryir"
)

// seedRun stores run-1 with a fixed set of resistor/voltage parameters.
func seedRun(t *testing.T, s *Store) {
	t.Helper()
	params := []ir.Parameter{
		createTestParameter("run-1", "R1", "[95, 105]", 2),
		createTestParameter("run-1", "R2", "{[1, 2], [8, 9]}", 3),
		createTestParameter("run-1", "Vmax", "[5, inf]", 4),
		createTestParameter("run-1", "none", "{}", 5),
		createTestParameter("run-1", "Vmin", "[-inf, -5]", 5),
	}
	params[0].Unit = "ohm"
	params[1].Unit = "ohm"
	_, err := s.WriteRunAtomic(context.Background(), createTestRun("run-1", 1), params)
	require.NoError(t, err)
}

func names(params []ir.Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func TestReadSet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSet(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReadSet_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := numeric.MustParse("{[-inf, -1], 0.5, [2, 3], [10, inf]}")
	id, err := s.WriteSet(ctx, ir.FromSet(want))
	require.NoError(t, err)

	rec, err := s.ReadSet(ctx, id)
	require.NoError(t, err)
	got, err := rec.ToSet()
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestReadRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", 7)
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = s.ReadRun(ctx, "run-2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLatestRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.WriteRun(ctx, createTestRun("b", 10)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("a", 20)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("c", 5)))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", latest.Token)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].Token)
	assert.Equal(t, "a", runs[2].Token)
}

func TestReadParameter_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadParameter(context.Background(), "run-1", "R1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListParameters_OrderedBySeqThenName(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)

	params, err := s.ListParameters(context.Background(), "run-1")
	require.NoError(t, err)

	// "Vmin" and "none" share seq 5; binary collation puts "V" before "n".
	assert.Equal(t, []string{"R1", "R2", "Vmax", "Vmin", "none"}, names(params))
	assert.Equal(t, "ohm", params[0].Unit)
	assert.Len(t, params[1].Value.Intervals, 2)
}

func TestListParameters_EmptyRun(t *testing.T) {
	s := createTestStore(t)

	params, err := s.ListParameters(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, params)
	assert.Empty(t, params)
}

func TestQueryParameters(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)

	tests := []struct {
		name   string
		filter queryir.Predicate
		want   []string
	}{
		{"name", queryir.NameEquals{Name: "R2"}, []string{"R2"}},
		{"unit", queryir.UnitEquals{Unit: "ohm"}, []string{"R1", "R2"}},
		{"contains inside", queryir.Contains{Value: 100}, []string{"R1", "Vmax"}},
		{"contains in gap", queryir.Contains{Value: 5}, []string{"Vmax"}},
		{"contains +inf", queryir.Contains{Value: math.Inf(1)}, []string{"Vmax"}},
		{"contains -inf", queryir.Contains{Value: math.Inf(-1)}, []string{"Vmin"}},
		{"overlaps gap", queryir.Overlaps{Min: 3, Max: 7}, []string{"Vmax"}},
		{"overlaps edge", queryir.Overlaps{Min: 105, Max: 200}, []string{"R1", "Vmax"}},
		{"overlaps below", queryir.Overlaps{Min: math.Inf(-1), Max: 0}, []string{"Vmin"}},
		{"within", queryir.Within{Min: 0, Max: 10}, []string{"R2", "none"}},
		{"within upper unbounded", queryir.Within{Min: 1, Max: math.Inf(1)}, []string{"R1", "R2", "Vmax", "none"}},
		{"and", queryir.And{Predicates: []queryir.Predicate{
			queryir.UnitEquals{Unit: "ohm"},
			queryir.Overlaps{Min: 0, Max: 50},
		}}, []string{"R2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := s.QueryParameters(context.Background(), queryir.Select{Run: "run-1", Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(params))
		})
	}
}

func TestQueryParameters_Limit(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)

	params, err := s.QueryParameters(context.Background(), queryir.Select{Run: "run-1", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, names(params))
}

func TestQueryParameters_Invalid(t *testing.T) {
	s := createTestStore(t)

	_, err := s.QueryParameters(context.Background(), queryir.Select{Filter: queryir.Overlaps{Min: 2, Max: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}

func TestQueryParameters_MatchesNumericSemantics(t *testing.T) {
	s := createTestStore(t)
	seedRun(t, s)
	ctx := context.Background()

	all, err := s.ListParameters(ctx, "run-1")
	require.NoError(t, err)

	for _, v := range []float64{-10, -5, 0, 1.5, 2, 5, 8.5, 95, 105, 106} {
		got, err := s.QueryParameters(ctx, queryir.Select{Run: "run-1", Filter: queryir.Contains{Value: v}})
		require.NoError(t, err)

		var want []string
		for _, p := range all {
			set, err := p.Value.ToSet()
			require.NoError(t, err)
			if set.Contains(v) {
				want = append(want, p.Name)
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, names(got), "Contains(%v)", v)
	}
}
