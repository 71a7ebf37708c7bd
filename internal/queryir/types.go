package queryir

import (
	"fmt"

	"github.com/roach88/finrel/internal/ir"
)

// Query is a node of the query tree. Only Select and Join implement it.
type Query interface {
	queryNode()
}

// Predicate is a filter or join condition. Only Equals, ColumnEquals and
// And implement it.
type Predicate interface {
	predicateNode()
}

// Select accesses one relation.
//
//	SELECT <bindings> FROM <from> AS <alias> WHERE <filter>
//
// Bindings maps a source column to an output column name. Columns in Filter
// and in enclosing Join predicates are qualified with Alias ("r1.value").
type Select struct {
	From     string
	Alias    string
	Filter   Predicate
	Bindings map[string]string
}

func (Select) queryNode() {}

// Join is an inner join of two queries.
//
//	<left> INNER JOIN <right> ON <on>
//
// Output columns are the left bindings followed by the right bindings.
type Join struct {
	Left  Query
	Right Query
	On    Predicate
}

func (Join) queryNode() {}

// Equals compares a qualified column to a literal.
type Equals struct {
	Field string
	Value ir.IRValue
}

func (Equals) predicateNode() {}

// ColumnEquals compares two qualified columns. It is the equi-join condition.
type ColumnEquals struct {
	Left  string
	Right string
}

func (ColumnEquals) predicateNode() {}

// And is a conjunction. An empty And is true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Column names of a function relation.
const (
	ElemColumn  = "elem"
	ValueColumn = "value"
)

// Alias returns the alias of the i-th (0-based) relation of a limit query.
func Alias(i int) string { return fmt.Sprintf("r%d", i+1) }

// OutputColumn returns the output column of the i-th (0-based) relation of
// a limit query.
func OutputColumn(i int) string { return fmt.Sprintf("x%d", i+1) }

// LimitQuery builds the left-deep join computing the limit of the function
// relations stored in tables. Every relation after the first is joined on
// value equality with the first. Output columns are x1..xk.
func LimitQuery(tables []string) Query {
	if len(tables) == 0 {
		return nil
	}
	sel := func(i int) Select {
		return Select{
			From:     tables[i],
			Alias:    Alias(i),
			Bindings: map[string]string{ElemColumn: OutputColumn(i)},
		}
	}
	var q Query = sel(0)
	for i := 1; i < len(tables); i++ {
		q = Join{
			Left:  q,
			Right: sel(i),
			On: ColumnEquals{
				Left:  Alias(0) + "." + ValueColumn,
				Right: Alias(i) + "." + ValueColumn,
			},
		}
	}
	return q
}

// Selects returns the Select leaves of q in left-to-right order.
func Selects(q Query) []Select {
	switch n := q.(type) {
	case Select:
		return []Select{n}
	case *Select:
		return []Select{*n}
	case Join:
		return append(Selects(n.Left), Selects(n.Right)...)
	case *Join:
		return append(Selects(n.Left), Selects(n.Right)...)
	}
	return nil
}
