// Package numeric implements sets of real numbers represented as finite
// unions of closed intervals.
//
// Interval is a validated [min, max] pair of float64 bounds, possibly
// infinite. Set is a normalised list of intervals: sorted by min, pairwise
// disjoint and never touching. NewSet is the single constructor path and
// every operator routes its result back through it.
//
// Operators never mutate their receivers. Failures are returned as errors
// wrapping one of the package sentinels (ErrNaNMin, ErrEmpty, ...), so
// callers test them with errors.Is and name them with Kind.
//
// Degenerate cases handled explicitly:
//   - 0 * ±Inf is 0 in Multiply
//   - Invert and Divide split across a zero-crossing into two unbounded pieces
//   - Power rejects fractional exponents on negative bases
//   - Sin returns [-1, 1] for any interval wider than one period
//
// Sets can be threaded through a graph.Graph with Materialize and read back
// with Load.
package numeric
