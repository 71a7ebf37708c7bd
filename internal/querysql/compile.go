// Package querysql compiles QueryIR to parameterized SQL for SQLite.
//
// Every compiled query ends with an ORDER BY over all output columns, so
// result order is deterministic. Literal values are always parameters,
// never interpolated; identifiers are checked against a strict pattern.
package querysql

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/queryir"
)

var (
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*$`)
)

// Compile converts a query to SQL. Returns (sql, params, error).
//
// Joins must be left-deep: the right side of every Join is a Select.
func Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	c := &compiler{}
	from, err := c.compileFrom(q)
	if err != nil {
		return "", nil, err
	}
	if len(c.columns) == 0 {
		return "", nil, fmt.Errorf("query binds no columns")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(c.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(from)
	if len(c.filters) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(c.filters, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(c.orderBy, ", "))
	return sb.String(), append(c.onParams, c.filterParams...), nil
}

type compiler struct {
	columns      []string
	orderBy      []string
	filters      []string
	filterParams []any
	onParams     []any
}

func (c *compiler) compileFrom(q queryir.Query) (string, error) {
	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	case queryir.Join:
		return c.compileJoin(query)
	case *queryir.Join:
		return c.compileJoin(*query)
	default:
		return "", fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *compiler) compileSelect(sel queryir.Select) (string, error) {
	if !identPattern.MatchString(sel.From) {
		return "", fmt.Errorf("invalid relation name %q", sel.From)
	}
	if !identPattern.MatchString(sel.Alias) {
		return "", fmt.Errorf("invalid alias %q for %s", sel.Alias, sel.From)
	}
	// Sorted for deterministic output.
	for _, src := range slices.Sorted(maps.Keys(sel.Bindings)) {
		out := sel.Bindings[src]
		if !identPattern.MatchString(src) || !identPattern.MatchString(out) {
			return "", fmt.Errorf("invalid binding %q -> %q", src, out)
		}
		c.columns = append(c.columns, fmt.Sprintf("%s.%s AS %s", sel.Alias, src, out))
		c.orderBy = append(c.orderBy, out+" ASC")
	}
	if sel.Filter != nil {
		sql, params, err := compilePredicate(sel.Filter)
		if err != nil {
			return "", fmt.Errorf("compile filter: %w", err)
		}
		c.filters = append(c.filters, sql)
		c.filterParams = append(c.filterParams, params...)
	}
	return fmt.Sprintf("%s AS %s", sel.From, sel.Alias), nil
}

func (c *compiler) compileJoin(j queryir.Join) (string, error) {
	left, err := c.compileFrom(j.Left)
	if err != nil {
		return "", err
	}
	var right string
	switch r := j.Right.(type) {
	case queryir.Select:
		right, err = c.compileSelect(r)
	case *queryir.Select:
		right, err = c.compileSelect(*r)
	default:
		return "", fmt.Errorf("join right side must be a select, got %T", j.Right)
	}
	if err != nil {
		return "", err
	}
	on := "1 = 1"
	if j.On != nil {
		sql, params, err := compilePredicate(j.On)
		if err != nil {
			return "", fmt.Errorf("compile join ON: %w", err)
		}
		on = sql
		c.onParams = append(c.onParams, params...)
	}
	return fmt.Sprintf("%s INNER JOIN %s ON %s", left, right, on), nil
}

// compilePredicate returns (sql, params, error).
func compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case queryir.Equals:
		return compileEquals(pred)
	case *queryir.Equals:
		return compileEquals(*pred)
	case queryir.ColumnEquals:
		return compileColumnEquals(pred)
	case *queryir.ColumnEquals:
		return compileColumnEquals(*pred)
	case queryir.And:
		return compileAnd(pred)
	case *queryir.And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq queryir.Equals) (string, []any, error) {
	if !columnPattern.MatchString(eq.Field) {
		return "", nil, fmt.Errorf("invalid column %q", eq.Field)
	}
	param, err := irValueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("convert value: %w", err)
	}
	return eq.Field + " = ?", []any{param}, nil
}

func compileColumnEquals(eq queryir.ColumnEquals) (string, []any, error) {
	for _, col := range []string{eq.Left, eq.Right} {
		if !columnPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column %q", col)
		}
	}
	return eq.Left + " = " + eq.Right, nil, nil
}

func compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}
	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, ps, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// irValueToParam converts a scalar ir.IRValue to a SQL parameter.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return bool(val), nil
	case ir.IRNull, nil:
		return nil, fmt.Errorf("NULL cannot be compared with =")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
