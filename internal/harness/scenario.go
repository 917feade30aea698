package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/paramset/internal/ir"
	"github.com/roach88/paramset/internal/numeric"
)

// Scenario is a conformance test for the set algebra: literal parameters,
// optional derived parameters evaluated by the engine, direct operation
// steps with expected outcomes, and assertions over the final values.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunToken fixes the run token. Defaults to testutil.DefaultRunToken.
	RunToken string `yaml:"run_token,omitempty"`

	// Tolerance is the relative tolerance for expected sets. Zero means
	// testutil.DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Params maps parameter names to literals, in file order.
	Params Params `yaml:"params"`

	// Derive declares parameters computed by the engine.
	Derive []DeriveStep `yaml:"derive,omitempty"`

	// Steps apply one operation each and check the outcome.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions check relations between the final values.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Param is one literal parameter.
type Param struct {
	Name    string
	Literal string
}

// Params keeps the declaration order of the YAML mapping.
type Params []Param

// UnmarshalYAML reads a mapping of name to literal. Numbers are accepted
// as single-point literals.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
	out := make(Params, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: param %q must be a literal", val.Line, key.Value)
		}
		out = append(out, Param{Name: key.Value, Literal: val.Value})
	}
	*p = out
	return nil
}

// DeriveStep declares a derived parameter.
type DeriveStep struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"`
	Args   []string `yaml:"args"`
	Digits int      `yaml:"digits,omitempty"`
}

// Step applies Op to Args and checks the result. Args are parameter or
// step names, or inline literals.
type Step struct {
	// Name, when set, makes the result available to later steps and
	// assertions.
	Name   string   `yaml:"name,omitempty"`
	Op     string   `yaml:"op"`
	Args   []string `yaml:"args"`
	Digits int      `yaml:"digits,omitempty"`

	// Expect is the literal the result must equal.
	Expect string `yaml:"expect,omitempty"`

	// ExpectError names the failure the step must produce: a numeric
	// error kind such as NonPositiveLog, or an engine code such as
	// UNKNOWN_OP.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion checks a relation between values.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// A and B are operands: names or inline literals.
	A string `yaml:"a"`
	B string `yaml:"b,omitempty"`

	// Op is the order relation for compare: lt, le, gt or ge.
	Op string `yaml:"op,omitempty"`

	// Value is the probe for contains and closest.
	Value *float64 `yaml:"value,omitempty"`

	// Want is the expected truth of subset, superset and contains.
	// Defaults to true.
	Want *bool `yaml:"want,omitempty"`

	// Expect is the expected BoolSet of compare (true, false,
	// indeterminate or empty), or the expected number of closest.
	Expect string `yaml:"expect,omitempty"`

	// ExpectError is the error kind closest must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion type constants.
const (
	AssertSubset   = "subset"
	AssertSuperset = "superset"
	AssertContains = "contains"
	AssertClosest  = "closest"
	AssertCompare  = "compare"
)

var compareOps = map[string]bool{"lt": true, "le": true, "gt": true, "ge": true}

var truthValues = map[string]bool{"true": true, "false": true, "indeterminate": true, "empty": true}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos surface immediately.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Params) == 0 {
		return fmt.Errorf("params mapping is required and must be non-empty")
	}
	if len(s.Steps) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one step or assertion is required")
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}

	names := make(map[string]bool)
	declare := func(where, name string) error {
		if names[name] {
			return fmt.Errorf("%s: name %q is already used", where, name)
		}
		names[name] = true
		return nil
	}

	for _, p := range s.Params {
		if err := declare("params", p.Name); err != nil {
			return err
		}
		if _, err := numeric.Parse(p.Literal); err != nil {
			return fmt.Errorf("params[%s]: %w", p.Name, err)
		}
	}

	for i, d := range s.Derive {
		if d.Name == "" {
			return fmt.Errorf("derive[%d]: name is required", i)
		}
		if err := declare(fmt.Sprintf("derive[%d]", i), d.Name); err != nil {
			return err
		}
		if d.Op == "" {
			return fmt.Errorf("derive[%d]: op is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if step.Expect != "" && step.ExpectError != "" {
			return fmt.Errorf("steps[%d]: expect and expect_error are mutually exclusive", i)
		}
		if step.Expect != "" {
			if _, err := numeric.Parse(step.Expect); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
		if step.Name != "" {
			if err := declare(fmt.Sprintf("steps[%d]", i), step.Name); err != nil {
				return err
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.A == "" {
		return fmt.Errorf("assertions[%d]: a is required", index)
	}

	switch a.Type {
	case AssertSubset, AssertSuperset:
		if a.B == "" {
			return fmt.Errorf("assertions[%d]: b is required for %s", index, a.Type)
		}
	case AssertContains:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for contains", index)
		}
	case AssertClosest:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for closest", index)
		}
		if (a.Expect == "") == (a.ExpectError == "") {
			return fmt.Errorf("assertions[%d]: closest needs exactly one of expect and expect_error", index)
		}
		if a.Expect != "" {
			if _, err := numeric.ParseInterval(a.Expect); err != nil {
				return fmt.Errorf("assertions[%d].expect: %w", index, err)
			}
		}
	case AssertCompare:
		if a.B == "" {
			return fmt.Errorf("assertions[%d]: b is required for compare", index)
		}
		if !compareOps[a.Op] {
			return fmt.Errorf("assertions[%d]: op must be one of lt, le, gt, ge, got %q", index, a.Op)
		}
		if !truthValues[a.Expect] {
			return fmt.Errorf("assertions[%d]: expect must be one of true, false, indeterminate, empty, got %q", index, a.Expect)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// Specs converts the literal params and derive steps into engine input.
func (s *Scenario) Specs() ([]ir.ParamSpec, error) {
	specs := make([]ir.ParamSpec, 0, len(s.Params)+len(s.Derive))
	for _, p := range s.Params {
		set, err := numeric.Parse(p.Literal)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		rec := ir.FromSet(set)
		specs = append(specs, ir.ParamSpec{Name: p.Name, Literal: p.Literal, Value: &rec})
	}
	for _, d := range s.Derive {
		specs = append(specs, ir.ParamSpec{
			Name:   d.Name,
			Derive: &ir.DeriveSpec{Op: d.Op, Args: d.Args, Digits: d.Digits},
		})
	}
	return specs, nil
}
