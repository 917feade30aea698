package harness

import "github.com/roach88/paramset/internal/numeric"

// Trace event kinds.
const (
	EventParam = "param"
	EventStep  = "step"
)

// TraceEvent records one resolved parameter or one executed step.
type TraceEvent struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Op    string   `json:"op,omitempty"`
	Args  []string `json:"args,omitempty"`
	Value string   `json:"value,omitempty"` // exact bracket form
	Error string   `json:"error,omitempty"` // error kind or code
	Seq   int64    `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// RunToken identifies the engine run that resolved the parameters.
	RunToken string `json:"run_token"`

	// Trace lists parameters in resolution order followed by steps.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`

	values map[string]numeric.Set
}

// NewResult creates a passing result with no events.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		values: make(map[string]numeric.Set),
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Value returns the set bound to name by a parameter or a named step.
func (r *Result) Value(name string) (numeric.Set, bool) {
	s, ok := r.values[name]
	return s, ok
}

