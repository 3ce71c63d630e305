package query

import "github.com/metaphiz/acts-as-union/record"

// Matches reports whether a record satisfies every predicate of the query.
//
// Comparison semantics:
//   - Numbers compare numerically across int/int64/float64 (JSON-decoded
//     fields arrive as float64).
//   - Strings compare lexicographically by byte order.
//   - Booleans support eq/neq only; ordering operators never match them.
//   - A missing field, or operands of incomparable types, fail the
//     predicate (and therefore the record).
//
// Matches is a pure function: neither the query nor the record is mutated.
func Matches(q Query, rec *record.Record) bool {
	if rec == nil {
		return false
	}
	for _, p := range q.preds {
		if !matchPredicate(p, rec) {
			return false
		}
	}
	return true
}

func matchPredicate(p Predicate, rec *record.Record) bool {
	v, ok := rec.Field(p.Field)
	if !ok {
		return false
	}

	// Booleans are unordered: only eq/neq can ever match them.
	if bv, ok := v.(bool); ok {
		bq, ok := p.Value.(bool)
		if !ok {
			return false
		}
		switch p.Op {
		case OpEq:
			return bv == bq
		case OpNeq:
			return bv != bq
		default:
			return false
		}
	}

	cmp, comparable := compareValues(v, p.Value)
	if !comparable {
		return false
	}

	switch p.Op {
	case OpEq:
		return cmp == 0
	case OpNeq:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	default:
		return false
	}
}

// compareValues compares two field values.
// Returns (-1|0|1, true) when the values are comparable, (0, false) otherwise.
func compareValues(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
