package ir

// NOTE: These are store-layer records, not part of the canonical IR.

// Run is one evaluation of a spec set.
type Run struct {
	Token         string `json:"token"`
	SpecHash      string `json:"spec_hash"`
	Seq           int64  `json:"seq"` // Logical clock at run start
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// Parameter is one resolved parameter of a run.
// Op is empty and Args nil for literal parameters.
type Parameter struct {
	RunToken string    `json:"run_token"`
	Name     string    `json:"name"`
	SetID    string    `json:"set_id"` // Content-addressed
	Value    SetRecord `json:"value"`
	Seq      int64     `json:"seq"`
	Op       string    `json:"op,omitempty"`
	Args     []string  `json:"args,omitempty"`
	Digits   int       `json:"digits,omitempty"` // round only
	Unit     string    `json:"unit,omitempty"`
}
