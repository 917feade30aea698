// Package harness runs YAML conformance scenarios against the set algebra
// and the evaluation engine.
//
// # Scenario Format
//
//	name: ohms_law
//	description: "Current through a resistor with tolerance"
//	run_token: run-ohm            # optional
//	tolerance: 1e-9               # optional relative tolerance
//	params:
//	  V: "[10, 20]"
//	  R: "[2, 5]"
//	derive:
//	  - name: I
//	    op: div
//	    args: [V, R]
//	steps:
//	  - op: log
//	    args: ["[-1, 1]"]
//	    expect_error: NonPositiveLog
//	  - name: P
//	    op: mul
//	    args: [V, I]
//	    expect: "[20, 200]"
//	assertions:
//	  - type: subset
//	    a: I
//	    b: "[0, 10]"
//	  - type: compare
//	    op: lt
//	    a: R
//	    b: V
//	    expect: "true"
//
// Params and derive are evaluated by the engine in one run and persisted
// to a private in-memory store; the stored run is then re-derived to catch
// storage drift. Steps apply one operation each with engine.Apply.
// Operands are names of params, derived params or named steps, or inline
// literals.
//
// # Assertion Types
//
//   - subset, superset: a ⊆ b or a ⊇ b; want defaults to true
//   - contains: value ∈ a; want defaults to true
//   - closest: the element of a nearest value, or expect_error Empty
//   - compare: the BoolSet of a op b is true, false, indeterminate or empty
//
// # Deterministic Testing
//
// Every scenario runs with a fresh logical clock, a fixed run token and
// its own database, so traces are byte-identical across runs and can be
// compared against golden files with RunWithGolden.
package harness
