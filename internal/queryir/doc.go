// Package queryir is the abstract query representation for searching
// stored parameters by name, unit and value range.
//
// The IR is the boundary between callers (CLI flags, scenario assertions)
// and the storage backend. Callers build a Select with a Predicate tree;
// querysql turns it into parameterized SQL for SQLite.
//
//	[CLI / harness] → [Query IR] → [SQL backend]
//
// # Range semantics
//
// A stored parameter is a union of closed intervals. Range predicates test
// that union against a closed query range:
//
//	Contains{v}        some interval holds v
//	Overlaps{a, b}     some interval meets [a, b]
//	Within{a, b}       every interval lies inside [a, b] (true for the empty set)
//
// Query bounds may be ±Inf. Infinite stored bounds are NULL in SQL and the
// backend reads them as the matching infinity.
//
// # Sealed interfaces
//
// Query and Predicate are sealed with marker methods, so backends can
// switch exhaustively over the types declared here:
//
//	switch p := pred.(type) {
//	case NameEquals:
//	case Contains:
//	// ...
//	}
//
// There is no Or. Run two queries and merge the results instead.
package queryir
