// Package store provides SQLite-backed storage for evaluated parameters.
//
// Tables:
//   - sets / intervals: content-addressed numeric sets, one row per
//     disjoint interval. Equal sets are stored once.
//   - runs: one row per evaluation of a spec list.
//   - parameters: the resolved value of each named parameter in a run.
//
// # Determinism
//
// Ordering uses the logical seq column, never wall time. Every read that
// returns more than one row ends in
//
//	ORDER BY seq ASC, name COLLATE BINARY ASC
//
// so repeated reads and replays see identical results.
//
// # Infinite bounds
//
// Infinite interval bounds are stored as NULL: lo NULL is -Inf and hi NULL
// is +Inf. Set identity (ir.SetID) uses the same convention.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
