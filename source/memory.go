package source

import (
	"context"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
)

// Memory is an ordered in-memory member set.
//
// It is the primary member type for unions built from already-loaded
// records, and the wrapper the union layer uses for per-member result
// partitions. A Memory never mutates its records; the record slice is
// shared by reference with the caller.
type Memory struct {
	records []*record.Record
}

// NewMemory creates an in-memory member set over the given records.
// Nil records are dropped; order is preserved.
func NewMemory(records ...*record.Record) *Memory {
	kept := make([]*record.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &Memory{records: kept}
}

// Records returns the member's records in order.
// The returned slice is a copy; the records themselves are shared.
func (m *Memory) Records() []*record.Record {
	out := make([]*record.Record, len(m.records))
	copy(out, m.records)
	return out
}

// IsEmpty reports whether the member set has no records.
func (m *Memory) IsEmpty(ctx context.Context) bool {
	return len(m.records) == 0
}

// FindSingle returns the first record matching q, or ErrNotFound.
func (m *Memory) FindSingle(ctx context.Context, q query.Query) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range m.records {
		if query.Matches(q, r) {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// FindMany returns all records matching q in member order.
// Returns an empty slice, not nil, when nothing matches.
func (m *Memory) FindMany(ctx context.Context, q query.Query) ([]*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := []*record.Record{}
	for _, r := range m.records {
		if query.Matches(q, r) {
			matches = append(matches, r)
		}
		if q.Limit() > 0 && len(matches) >= q.Limit() {
			break
		}
	}
	return matches, nil
}

// FindByID returns the record with the given identifier, or ErrNotFound.
func (m *Memory) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := record.NormalizeID(id)
	for _, r := range m.records {
		if record.NormalizeID(r.ID) == want {
			return r, nil
		}
	}
	return nil, ErrNotFound
}
