package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/testutil"
)

func TestRun_ScenarioFilesPass(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			s, err := LoadScenario(f)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_TraceOrderAndSeq(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/ohms_law.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	assert.Equal(t, "run-ohm", result.RunToken)
	require.Len(t, result.Trace, 5)

	kinds := make([]string, len(result.Trace))
	for i, e := range result.Trace {
		kinds[i] = e.Kind
		assert.Equal(t, int64(i+2), e.Seq, "seq 1 belongs to the run itself")
	}
	assert.Equal(t, []string{EventParam, EventParam, EventParam, EventStep, EventStep}, kinds)

	p, ok := result.Value("P")
	require.True(t, ok)
	assert.True(t, testutil.SetsEqual(numeric.MustParse("[20, 200]"), p, testutil.DefaultTolerance))
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/set_algebra.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := SnapshotJSON(s.Name, first)
	require.NoError(t, err)
	b, err := SnapshotJSON(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, testutil.DefaultRunToken, first.RunToken)
}

func TestRun_FailedStepExpectations(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: failing
description: "every step misses its expectation"
params:
  a: "[1, 2]"
steps:
  - op: neg
    args: [a]
    expect: "[1, 2]"
  - op: neg
    args: [a]
    expect_error: Empty
  - op: log
    args: ["[-1, 1]"]
    expect_error: Empty
  - op: log
    args: ["[-1, 1]"]
  - op: add
    args: [missing, a]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)

	assert.Contains(t, result.Errors[0], "expected {[1, 2]}, got {[-2, -1]}")
	assert.Contains(t, result.Errors[1], "expected error Empty, got {[-2, -1]}")
	assert.Contains(t, result.Errors[2], "expected error Empty, got NonPositiveLog")
	assert.Contains(t, result.Errors[3], "unexpected error")
	assert.Contains(t, result.Errors[4], `"missing" is neither a known name nor a literal`)

	assert.Equal(t, "BadOperand", result.Trace[len(result.Trace)-1].Error)
}

func TestRun_DeriveFailureIsRecorded(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad_derive
description: "log over a range that reaches zero"
params:
  x: "[0, 1]"
derive:
  - name: y
    op: log
    args: [x]
steps:
  - op: neg
    args: [x]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "DOMAIN_ERROR")
	assert.Empty(t, result.Trace, "steps do not run when params fail")
}

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/ohms_law.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}
