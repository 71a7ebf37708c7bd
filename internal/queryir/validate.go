package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/finrel/internal/ir"
)

// ValidationResult reports whether a query stays in the equi-join fragment.
type ValidationResult struct {
	// InFragment is true when every node is supported by all backends.
	InFragment bool

	// Warnings lists each feature outside the fragment.
	Warnings []string
}

// Validate checks q against the equi-join fragment:
//  1. No NULL literals
//  2. Join conditions are column equalities (or conjunctions of them)
//  3. Explicit bindings
//  4. Qualified column references naming an alias in scope
//  5. Distinct aliases
//
// Validate is a pure function.
func Validate(q Query) ValidationResult {
	v := &validator{warnings: []string{}, aliases: map[string]bool{}}
	v.validateQuery(q)
	return ValidationResult{
		InFragment: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

type validator struct {
	warnings []string
	aliases  map[string]bool
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	case Join:
		v.validateJoin(query)
	case *Join:
		v.validateJoin(*query)
	default:
		v.addWarning("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addWarning("select without a relation")
	}
	if sel.Alias == "" {
		v.addWarning("select from %q without an alias", sel.From)
	} else if v.aliases[sel.Alias] {
		v.addWarning("alias %q used twice", sel.Alias)
	}
	v.aliases[sel.Alias] = true
	if len(sel.Bindings) == 0 {
		v.addWarning("select from %q has no bindings (SELECT *)", sel.From)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter, false)
	}
}

func (v *validator) validateJoin(join Join) {
	v.validateQuery(join.Left)
	v.validateQuery(join.Right)
	if join.On == nil {
		v.addWarning("join without a condition (cross join)")
		return
	}
	v.validatePredicate(join.On, true)
}

// validatePredicate walks p. In join position only column equalities are
// allowed.
func (v *validator) validatePredicate(p Predicate, onJoin bool) {
	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred, onJoin)
	case *Equals:
		v.validateEquals(*pred, onJoin)
	case ColumnEquals:
		v.checkColumn(pred.Left)
		v.checkColumn(pred.Right)
	case *ColumnEquals:
		v.checkColumn(pred.Left)
		v.checkColumn(pred.Right)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, onJoin)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, onJoin)
		}
	default:
		v.addWarning("unknown predicate type %T", p)
	}
}

func (v *validator) validateEquals(eq Equals, onJoin bool) {
	if onJoin {
		v.addWarning("literal comparison on %q in join condition; equi-joins compare columns", eq.Field)
	}
	if _, isNull := eq.Value.(ir.IRNull); isNull || eq.Value == nil {
		v.addWarning("column %q compared to NULL", eq.Field)
	}
	v.checkColumn(eq.Field)
}

func (v *validator) checkColumn(col string) {
	alias, _, ok := strings.Cut(col, ".")
	if !ok {
		v.addWarning("column %q is not qualified with an alias", col)
		return
	}
	if !v.aliases[alias] {
		v.addWarning("column %q references alias %q not in scope", col, alias)
	}
}
