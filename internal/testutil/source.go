// Package testutil provides shared helpers for union view tests: a record
// builder and a fault-injecting member set.
package testutil

import (
	"context"
	"fmt"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

// Rec builds a record with the given id and alternating key/value field
// pairs, e.g. Rec("a1", "status", "active", "total", 10).
//
// Panics on an odd number of pairs or a non-string key; these are test
// programming errors, not runtime conditions.
func Rec(id string, pairs ...any) *record.Record {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("Rec(%q): odd number of field pairs", id))
	}
	fields := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("Rec(%q): field key %v is not a string", id, pairs[i]))
		}
		fields[key] = pairs[i+1]
	}
	return record.New(record.ID(id), fields)
}

// FaultySource is a member set whose every query operation fails with a
// configured error. Used to verify that hard member errors propagate
// through union routing instead of being swallowed.
//
// IsEmpty reports non-empty so routed operations actually reach the
// failing calls.
type FaultySource struct {
	Err error
}

var _ source.Source = (*FaultySource)(nil)

// IsEmpty implements source.Source.
func (f *FaultySource) IsEmpty(ctx context.Context) bool { return false }

// FindSingle implements source.Source.
func (f *FaultySource) FindSingle(ctx context.Context, q query.Query) (*record.Record, error) {
	return nil, f.Err
}

// FindMany implements source.Source.
func (f *FaultySource) FindMany(ctx context.Context, q query.Query) ([]*record.Record, error) {
	return nil, f.Err
}

// FindByID implements source.Source.
func (f *FaultySource) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	return nil, f.Err
}
