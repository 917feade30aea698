// Package ir provides the canonical intermediate representation for
// paramset: wire forms of numeric sets, parameter declarations, and the
// content-addressed identities computed over them.
//
// ir imports only internal/numeric, so every layer above (compiler,
// engine, store) can share these types without cycles.
//
// Key design constraints:
//   - Infinite bounds are encoded as JSON null, never as a float
//   - NaN never reaches the wire; canonical marshalling rejects it
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
