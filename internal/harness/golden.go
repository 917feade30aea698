package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/paramset/internal/ir"
)

// GoldenDir is where golden traces live, relative to the test's package.
const GoldenDir = "testdata/golden"

// TraceSnapshot is the golden form of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	RunToken     string
	Trace        []TraceEvent
}

// irValue builds the canonical JSON object of the snapshot. Empty fields
// are omitted so snapshots only show what a step actually carries.
func (s *TraceSnapshot) irValue() ir.IRObject {
	trace := make(ir.IRArray, len(s.Trace))
	for i, e := range s.Trace {
		obj := ir.IRObject{
			"kind": ir.IRString(e.Kind),
			"seq":  ir.IRInt(e.Seq),
		}
		if e.Name != "" {
			obj["name"] = ir.IRString(e.Name)
		}
		if e.Op != "" {
			obj["op"] = ir.IRString(e.Op)
		}
		if len(e.Args) > 0 {
			obj["args"] = ir.Strings(e.Args)
		}
		if e.Value != "" {
			obj["value"] = ir.IRString(e.Value)
		}
		if e.Error != "" {
			obj["error"] = ir.IRString(e.Error)
		}
		trace[i] = obj
	}

	return ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"run_token":     ir.IRString(s.RunToken),
		"trace":         trace,
	}
}

// SnapshotJSON renders the canonical JSON golden content for a result.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunToken:     result.RunToken,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.irValue())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/<scenario.Name>.golden.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
