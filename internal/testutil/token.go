package testutil

// DefaultRunToken is used when a scenario does not name its run.
const DefaultRunToken = "test-run-default"

// FixedRunToken returns the same run token every time, so a scenario
// produces byte-identical traces across executions.
//
// Unlike engine.FixedGenerator, which walks a list and panics when it runs
// out, FixedRunToken never runs dry.
type FixedRunToken struct {
	token string
}

// NewFixedRunToken creates a generator for token, or DefaultRunToken when
// token is empty.
func NewFixedRunToken(token string) *FixedRunToken {
	if token == "" {
		token = DefaultRunToken
	}
	return &FixedRunToken{token: token}
}

// Generate returns the fixed token.
func (g *FixedRunToken) Generate() string {
	return g.token
}
