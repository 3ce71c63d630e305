// Package query provides the typed query description passed uniformly to
// every member set during a routed find.
//
// A Query is an immutable value: builder methods return modified copies and
// accessors return defensive copies, so one member's execution can never
// mutate the description observed by the next member. Callers build queries
// with the convenience constructors (Eq, Gt, ...) instead of any runtime
// name parsing.
//
// The empty Query matches every record (a conjunction of zero predicates is
// vacuously true). Materialization relies on this.
package query

// Op is a comparison operator for a predicate.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Predicate is a single field comparison.
//
// Value is constrained to strings, booleans, and integer/float numbers;
// comparison semantics are defined by Matches.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Eq returns a field = value predicate.
func Eq(field string, value any) Predicate { return Predicate{Field: field, Op: OpEq, Value: value} }

// Neq returns a field != value predicate.
func Neq(field string, value any) Predicate { return Predicate{Field: field, Op: OpNeq, Value: value} }

// Gt returns a field > value predicate.
func Gt(field string, value any) Predicate { return Predicate{Field: field, Op: OpGt, Value: value} }

// Gte returns a field >= value predicate.
func Gte(field string, value any) Predicate { return Predicate{Field: field, Op: OpGte, Value: value} }

// Lt returns a field < value predicate.
func Lt(field string, value any) Predicate { return Predicate{Field: field, Op: OpLt, Value: value} }

// Lte returns a field <= value predicate.
func Lte(field string, value any) Predicate { return Predicate{Field: field, Op: OpLte, Value: value} }

// Query is an immutable conjunction of predicates with an optional
// per-member result limit.
//
// The zero value matches all records with no limit.
type Query struct {
	preds []Predicate
	limit int
}

// New creates a query from the given predicates (all must match).
func New(preds ...Predicate) Query {
	q := Query{}
	if len(preds) > 0 {
		q.preds = make([]Predicate, len(preds))
		copy(q.preds, preds)
	}
	return q
}

// Where returns a copy of the query with additional predicates appended.
func (q Query) Where(preds ...Predicate) Query {
	combined := make([]Predicate, 0, len(q.preds)+len(preds))
	combined = append(combined, q.preds...)
	combined = append(combined, preds...)
	return Query{preds: combined, limit: q.limit}
}

// WithLimit returns a copy of the query with a per-member result limit.
// A limit of 0 means no limit.
func (q Query) WithLimit(n int) Query {
	preds := make([]Predicate, len(q.preds))
	copy(preds, q.preds)
	return Query{preds: preds, limit: n}
}

// Predicates returns a copy of the predicate list.
func (q Query) Predicates() []Predicate {
	out := make([]Predicate, len(q.preds))
	copy(out, q.preds)
	return out
}

// Limit returns the per-member result limit (0 = no limit).
func (q Query) Limit() int { return q.limit }

// IsEmpty reports whether the query has no predicates and no limit,
// i.e. it matches every record in full.
func (q Query) IsEmpty() bool { return len(q.preds) == 0 && q.limit == 0 }
