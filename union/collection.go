package union

import (
	"context"
	"fmt"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

// Read-only ordered-collection surface.
//
// A View is polymorphic over "ordered sequence of records" for operations
// it does not route itself: counting, indexed access, and iteration all
// operate on a fresh materialization. Nothing is cached between calls.

// Count returns the number of records in the materialized union.
func (v *View) Count(ctx context.Context) (int, error) {
	recs, err := v.Materialize(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// At returns the record at index i of the materialized union.
func (v *View) At(ctx context.Context, i int) (*record.Record, error) {
	recs, err := v.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(recs) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(recs))
	}
	return recs[i], nil
}

// Each calls fn for every record of the materialized union in order.
// Iteration stops early when fn returns false.
func (v *View) Each(ctx context.Context, fn func(*record.Record) bool) error {
	recs, err := v.Materialize(ctx)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if !fn(r) {
			return nil
		}
	}
	return nil
}

// A View is itself a source.Source, so unions nest: an inner View can be a
// member of an outer one and keeps its own member precedence.
var _ source.Source = (*View)(nil)

// IsEmpty reports whether every member is empty.
func (v *View) IsEmpty(ctx context.Context) bool {
	for _, m := range v.members {
		if !m.IsEmpty(ctx) {
			return false
		}
	}
	return true
}

// FindSingle adapts FindFirst to the source capability: a miss is the soft
// source.ErrNotFound signal instead of a nil record.
func (v *View) FindSingle(ctx context.Context, q query.Query) (*record.Record, error) {
	rec, err := v.FindFirst(ctx, q)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, source.ErrNotFound
	}
	return rec, nil
}

// FindMany returns the materialized results of FindAll.
func (v *View) FindMany(ctx context.Context, q query.Query) ([]*record.Record, error) {
	sub, err := v.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return sub.Materialize(ctx)
}
