package querysql

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/paramset/internal/queryir"
)

// Columns is the fixed projection of every compiled query. Scanners in the
// store package read rows in this order.
const Columns = "p.run_token, p.name, p.set_id, p.seq, p.op, p.args, p.digits, p.unit"

// orderBy is the deterministic ordering shared with store reads.
const orderBy = "p.seq ASC, p.name COLLATE BINARY ASC, p.run_token COLLATE BINARY ASC"

// Compile converts a query to parameterized SQL for SQLite.
// Returns (sql, params, error).
//
// CRITICAL: every query ends with ORDER BY so results are reproducible.
// CRITICAL: values are always bound as ? parameters, never interpolated.
//
// Stored interval bounds are NULL when infinite (lo NULL is -Inf, hi NULL
// is +Inf). Infinite query bounds are never bound; the comparison they
// would produce is folded into the generated SQL instead.
func Compile(q queryir.Query) (string, []any, error) {
	switch query := q.(type) {
	case queryir.Select:
		return compileSelect(query)
	case *queryir.Select:
		if query == nil {
			return "", nil, fmt.Errorf("cannot compile nil query")
		}
		return compileSelect(*query)
	case nil:
		return "", nil, fmt.Errorf("cannot compile nil query")
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func compileSelect(q queryir.Select) (string, []any, error) {
	var where []string
	var params []any

	if q.Run != "" {
		where = append(where, "p.run_token = ?")
		params = append(params, q.Run)
	}
	if q.Filter != nil {
		filterSQL, filterParams, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		where = append(where, filterSQL)
		params = append(params, filterParams...)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(Columns)
	sb.WriteString(" FROM parameters p")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}

	return sb.String(), params, nil
}

func compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case queryir.NameEquals:
		return "p.name = ?", []any{pred.Name}, nil
	case queryir.UnitEquals:
		return "p.unit = ?", []any{pred.Unit}, nil
	case queryir.Contains:
		return compileContains(pred)
	case queryir.Overlaps:
		return compileOverlaps(pred)
	case queryir.Within:
		return compileWithin(pred)
	case queryir.And:
		return compileAnd(pred)
	case *queryir.And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, predParams...)
	}

	return strings.Join(parts, " AND "), params, nil
}

// compileContains: some interval has lo <= v <= hi.
func compileContains(c queryir.Contains) (string, []any, error) {
	if math.IsNaN(c.Value) {
		return "", nil, fmt.Errorf("Contains: value is NaN")
	}
	conds := newConds()
	conds.loAtMost(c.Value)
	conds.hiAtLeast(c.Value)
	return conds.exists()
}

// compileOverlaps: some interval has hi >= min and lo <= max.
func compileOverlaps(o queryir.Overlaps) (string, []any, error) {
	if err := checkRange("Overlaps", o.Min, o.Max); err != nil {
		return "", nil, err
	}
	conds := newConds()
	conds.hiAtLeast(o.Min)
	conds.loAtMost(o.Max)
	return conds.exists()
}

// compileWithin: no interval has lo < min or hi > max.
func compileWithin(w queryir.Within) (string, []any, error) {
	if err := checkRange("Within", w.Min, w.Max); err != nil {
		return "", nil, err
	}
	conds := newConds()
	conds.loBelow(w.Min)
	conds.hiAbove(w.Max)
	if len(conds.parts) == 0 {
		return "1 = 1", nil, nil
	}
	sql := "NOT EXISTS (SELECT 1 FROM intervals i WHERE i.set_id = p.set_id AND (" +
		strings.Join(conds.parts, " OR ") + "))"
	return sql, conds.params, nil
}

func checkRange(name string, min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) {
		return fmt.Errorf("%s: bound is NaN", name)
	}
	if min > max {
		return fmt.Errorf("%s: inverted range [%g, %g]", name, min, max)
	}
	return nil
}

// conds collects per-interval conditions. Infinite query bounds become
// IS NULL tests or constants so they are never bound as parameters.
type conds struct {
	parts  []string
	params []any
}

func newConds() *conds {
	return &conds{parts: []string{}}
}

func (c *conds) add(sql string, params ...any) {
	c.parts = append(c.parts, sql)
	c.params = append(c.params, params...)
}

// loAtMost: lo <= v.
func (c *conds) loAtMost(v float64) {
	switch {
	case math.IsInf(v, 1):
	case math.IsInf(v, -1):
		c.add("i.lo IS NULL")
	default:
		c.add("(i.lo IS NULL OR i.lo <= ?)", v)
	}
}

// hiAtLeast: hi >= v.
func (c *conds) hiAtLeast(v float64) {
	switch {
	case math.IsInf(v, -1):
	case math.IsInf(v, 1):
		c.add("i.hi IS NULL")
	default:
		c.add("(i.hi IS NULL OR i.hi >= ?)", v)
	}
}

// loBelow: lo < v.
func (c *conds) loBelow(v float64) {
	switch {
	case math.IsInf(v, -1):
	case math.IsInf(v, 1):
		c.add("1 = 1")
	default:
		c.add("i.lo IS NULL OR i.lo < ?", v)
	}
}

// hiAbove: hi > v.
func (c *conds) hiAbove(v float64) {
	switch {
	case math.IsInf(v, 1):
	case math.IsInf(v, -1):
		c.add("1 = 1")
	default:
		c.add("i.hi IS NULL OR i.hi > ?", v)
	}
}

func (c *conds) exists() (string, []any, error) {
	sql := "EXISTS (SELECT 1 FROM intervals i WHERE i.set_id = p.set_id"
	for _, part := range c.parts {
		sql += " AND " + part
	}
	return sql + ")", c.params, nil
}
