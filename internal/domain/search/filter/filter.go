// Package filter models the boolean filter restricting a catalog search: a
// conjunction of clauses, each clause a disjunction of "field is one of" predicates.
package filter

import (
	"fmt"
	"strings"
)

// MaxClauses is the maximum number of clauses in one expression.
const MaxClauses = 32

// Expression is a conjunction of clauses.
type Expression struct {
	clauses []Clause
}

// NewExpression validates and creates an Expression.
func NewExpression(clauses ...Clause) (Expression, error) {
	if len(clauses) > MaxClauses {
		return Expression{}, fmt.Errorf("too many filter clauses (max %d)", MaxClauses)
	}
	for i, c := range clauses {
		if len(c.anyOf) == 0 {
			return Expression{}, fmt.Errorf("clause %d has no predicates", i)
		}
	}
	return Expression{clauses: clauses}, nil
}

// Clauses returns the clauses in evaluation order.
func (e Expression) Clauses() []Clause { return e.clauses }

// IsEmpty reports whether the expression has no clauses.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }

// String renders the expression in its canonical text form, for example
// "search.in(topCategory, 'ADULT', '|') and search.in(materials, 'Oak|Teak', '|')".
func (e Expression) String() string {
	parts := make([]string, len(e.clauses))
	for i, c := range e.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

// Clause is satisfied when any of its predicates is.
type Clause struct {
	anyOf []In
}

// AnyOf creates a clause from one or more predicates.
func AnyOf(preds ...In) Clause { return Clause{anyOf: preds} }

// Predicates returns the disjuncts.
func (c Clause) Predicates() []In { return c.anyOf }

// String renders a single predicate bare and several predicates parenthesized.
func (c Clause) String() string {
	if len(c.anyOf) == 1 {
		return c.anyOf[0].String()
	}
	parts := make([]string, len(c.anyOf))
	for i, p := range c.anyOf {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// In matches documents whose field value is one of a literal set.
type In struct {
	field  string
	values []string
}

// NewIn creates an "is one of" predicate. Values are trimmed; blanks are dropped.
func NewIn(field string, values ...string) (In, error) {
	if field == "" {
		return In{}, fmt.Errorf("filter field is required")
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return In{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	return In{field: field, values: kept}, nil
}

// Field returns the field name.
func (p In) Field() string { return p.field }

// Values returns the literal set.
func (p In) Values() []string { return p.values }

// String renders search.in(field, 'a|b', '|') with single quotes doubled.
func (p In) String() string {
	escaped := make([]string, len(p.values))
	for i, v := range p.values {
		escaped[i] = strings.ReplaceAll(v, "'", "''")
	}
	return fmt.Sprintf("search.in(%s, '%s', '|')", p.field, strings.Join(escaped, "|"))
}
