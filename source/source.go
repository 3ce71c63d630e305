// Package source defines the uniform query capability every member set of a
// union view must provide, plus the in-memory member set implementation.
//
// The capability deliberately distinguishes one soft signal, ErrNotFound,
// from all hard errors: the union routing layer converts the soft signal
// into "try the next member" and propagates everything else unchanged.
package source

import (
	"context"
	"errors"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
)

// ErrNotFound is the distinguished soft signal for single-item lookups
// (FindSingle, FindByID) that have no match.
//
// Implementations must return an error satisfying
// errors.Is(err, ErrNotFound) for absence, and must NOT use it for genuine
// failures (malformed query, storage faults).
var ErrNotFound = errors.New("record not found")

// Source is the query capability required of every member set.
//
// FindMany must be deterministic for repeated invocations of the same query
// description, and must return an empty (non-nil) slice, never an error,
// when nothing matches. Implementations never mutate the query value.
type Source interface {
	// IsEmpty reports whether the member set currently has no records.
	IsEmpty(ctx context.Context) bool

	// FindSingle returns the first record matching q, or ErrNotFound.
	FindSingle(ctx context.Context, q query.Query) (*record.Record, error)

	// FindMany returns all records matching q in member order.
	FindMany(ctx context.Context, q query.Query) ([]*record.Record, error)

	// FindByID returns the record with the given identifier, or ErrNotFound.
	// Identifier comparison uses record.NormalizeID.
	FindByID(ctx context.Context, id record.ID) (*record.Record, error)
}
