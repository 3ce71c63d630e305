// Package union implements virtual union views over ordered member sets.
//
// A View aggregates N member sets (each a source.Source) and answers three
// query shapes by delegating to members in declared order and recombining
// results:
//
//   - FindFirst: first match from the lowest-indexed non-empty member
//   - FindAll: per-member result partitions, wrapped in a new chainable View
//   - FindByIDs: first-member-wins identifier probes with an
//     all-or-nothing success criterion
//
// plus Materialize, which flattens and deduplicates all members into one
// ordered sequence.
//
// Member order is fixed at construction and is the sole tie-break for every
// routed operation. A View is stateless: nothing is cached between calls,
// so results track the current contents of the underlying members. Views
// make no snapshot-isolation guarantee across members; each member is
// queried independently.
//
// Error routing: the soft source.ErrNotFound signal from a single-item
// lookup means "try the next member"; every other member error aborts the
// enclosing operation and propagates with its identity intact (errors.Is
// and errors.As still see the original).
package union

import (
	"context"
	"errors"
	"fmt"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

// View is an ordered union of member sets.
//
// The zero value is an empty view: every find yields "not found" and
// Materialize yields an empty sequence. Views hold member references only;
// they never mutate or write back to a member.
type View struct {
	members []source.Source
}

// New creates a view over the given members.
//
// Nil members are dropped; the declared order of the rest determines
// precedence for every routed operation. Zero members is legal.
func New(members ...source.Source) *View {
	kept := make([]source.Source, 0, len(members))
	for _, m := range members {
		if m != nil {
			kept = append(kept, m)
		}
	}
	return &View{members: kept}
}

// Members returns the member sets in declared order.
// The returned slice is a copy.
func (v *View) Members() []source.Source {
	out := make([]source.Source, len(v.members))
	copy(out, v.members)
	return out
}

// Materialize flattens every member's full contents, in declared member
// order, into one sequence deduplicated by reference identity with
// first-occurrence order preserved.
//
// Absence is an empty slice, never an error; only a genuine member fault
// produces an error. Nothing is cached: if a member's backing storage
// changes between calls, results change accordingly.
func (v *View) Materialize(ctx context.Context) ([]*record.Record, error) {
	all := []*record.Record{}
	for i, m := range v.members {
		recs, err := m.FindMany(ctx, query.Query{})
		if err != nil {
			return nil, fmt.Errorf("materialize member %d: %w", i, err)
		}
		all = append(all, recs...)
	}
	return dedupe(all), nil
}

// FindFirst returns the match from the lowest-indexed non-empty member,
// or (nil, nil) if no member matches.
//
// The same immutable query value is reissued verbatim to each member.
// A member's soft not-found signal means "try the next member"; any other
// member error aborts immediately.
func (v *View) FindFirst(ctx context.Context, q query.Query) (*record.Record, error) {
	for i, m := range v.members {
		if m.IsEmpty(ctx) {
			continue
		}
		rec, err := m.FindSingle(ctx, q)
		if err != nil {
			if errors.Is(err, source.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("find first in member %d: %w", i, err)
		}
		return rec, nil
	}
	return nil, nil
}

// FindAll issues the query against every member and returns a NEW View
// whose members are exactly the per-member result partitions, in the
// original member order.
//
// Empty members are not queried; they contribute an empty partition, not an
// error, so the returned view always has one member per original member.
// Chaining further FindFirst/FindAll calls on the result honors the same
// per-member precedence.
func (v *View) FindAll(ctx context.Context, q query.Query) (*View, error) {
	parts := make([]source.Source, 0, len(v.members))
	for i, m := range v.members {
		if m.IsEmpty(ctx) {
			parts = append(parts, source.NewMemory())
			continue
		}
		recs, err := m.FindMany(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("find all in member %d: %w", i, err)
		}
		parts = append(parts, source.NewMemory(recs...))
	}
	return &View{members: parts}, nil
}

// FindByIDs probes members in declared order for each requested identifier
// in request order. The first member containing an identifier wins; later
// members are not probed for it, so an identifier present in several
// members resolves to the lowest-indexed member's record, and a duplicate
// requested identifier is looked up once.
//
// The call succeeds only if every unique requested identifier (after
// normalization) was found in some member; otherwise it fails with a
// *NotFoundError carrying the originally requested identifier list (the
// error does not enumerate which identifiers were missing). The returned
// sequence holds one record per unique identifier, in request order. A
// member's soft not-found signal is caught per probe; any other member
// error aborts the whole call immediately.
func (v *View) FindByIDs(ctx context.Context, ids ...record.ID) ([]*record.Record, error) {
	found := make(map[record.ID]*record.Record, len(ids))
	order := make([]record.ID, 0, len(ids))
	for _, id := range ids {
		key := record.NormalizeID(id)
		if _, done := found[key]; done {
			continue
		}
		for i, m := range v.members {
			rec, err := m.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, source.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("find id %q in member %d: %w", id, i, err)
			}
			found[key] = rec
			order = append(order, key)
			break
		}
	}

	if len(found) != uniqueIDCount(ids) {
		return nil, &NotFoundError{IDs: ids}
	}
	recs := make([]*record.Record, 0, len(order))
	for _, key := range order {
		recs = append(recs, found[key])
	}
	return recs, nil
}

// FindByID is the single-identifier form of FindByIDs: it returns the
// matched record directly rather than a one-element sequence. It fails with
// the same *NotFoundError when the identifier is in no member.
func (v *View) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	recs, err := v.FindByIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// dedupe removes duplicate records by reference identity, preserving
// first-occurrence order.
func dedupe(recs []*record.Record) []*record.Record {
	seen := make(map[*record.Record]struct{}, len(recs))
	out := []*record.Record{}
	for _, r := range recs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// uniqueIDCount counts distinct identifiers after normalization.
func uniqueIDCount(ids []record.ID) int {
	seen := make(map[record.ID]struct{}, len(ids))
	for _, id := range ids {
		seen[record.NormalizeID(id)] = struct{}{}
	}
	return len(seen)
}
