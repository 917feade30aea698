// Package engine evaluates parameter declarations into numeric sets.
//
// A run takes a list of ir.ParamSpec, orders it so that every derived
// parameter comes after its arguments, and resolves each parameter through
// the operator table in Apply. Literals resolve first in declaration order;
// among derived parameters whose arguments are ready, the earliest declared
// wins. The resulting order is deterministic.
//
// Every run gets a token from a RunTokenGenerator and a seq from the
// logical Clock; each resolved parameter takes the next seq. When a store
// is attached the run is written in a single transaction, and Verify can
// later recompute its derived parameters to detect drift.
//
// Errors are *RuntimeError values with a code. Numeric failures such as a
// logarithm reaching zero carry ErrCodeDomainError and still match the
// numeric sentinel through errors.Is.
package engine
