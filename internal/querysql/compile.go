// Package querysql compiles typed query descriptions to parameterized SQL
// fragments for the SQLite-backed member sets.
//
// Record fields are stored as a JSON document, so predicates compile to
// json_extract(fields, '$.field') comparisons. Values and field paths are
// always parameterized, never interpolated.
package querysql

import (
	"fmt"
	"strings"

	"github.com/metaphiz/acts-as-union/query"
)

// CompileWhere converts a query's predicates to a SQL WHERE fragment plus
// its parameters. The fragment never includes the "WHERE" keyword; callers
// append it together with their own deterministic ORDER BY.
//
// The empty query compiles to "1 = 1" (always true), matching the
// match-everything semantics of the empty query in memory evaluation.
func CompileWhere(q query.Query) (string, []any, error) {
	preds := q.Predicates()
	if len(preds) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(preds))
	params := make([]any, 0, len(preds)*2)
	for _, p := range preds {
		frag, args, err := compilePredicate(p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, frag)
		params = append(params, args...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// compilePredicate compiles one predicate to a SQL fragment.
// The field path goes through json_extract with a parameterized path.
func compilePredicate(p query.Predicate) (string, []any, error) {
	op, err := sqlOperator(p.Op)
	if err != nil {
		return "", nil, err
	}
	if p.Field == "" {
		return "", nil, fmt.Errorf("predicate field must not be empty")
	}
	if strings.ContainsAny(p.Field, ".[]$\"'") {
		return "", nil, fmt.Errorf("unsupported field name %q: nested paths are not compiled", p.Field)
	}

	frag := fmt.Sprintf("json_extract(fields, ?) %s ?", op)
	return frag, []any{"$." + p.Field, p.Value}, nil
}

// sqlOperator maps a query operator to its SQL form.
func sqlOperator(op query.Op) (string, error) {
	switch op {
	case query.OpEq:
		return "=", nil
	case query.OpNeq:
		return "!=", nil
	case query.OpGt:
		return ">", nil
	case query.OpGte:
		return ">=", nil
	case query.OpLt:
		return "<", nil
	case query.OpLte:
		return "<=", nil
	default:
		return "", fmt.Errorf("unsupported operator: %q", op)
	}
}
