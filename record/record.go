// Package record defines the opaque record values that union views route
// between member sets.
//
// A record carries exactly what the union layer needs: a domain identifier
// and a bag of predicate-visible fields. The union layer itself never
// interprets fields; only query evaluation does.
//
// Identity model:
//   - Reference identity (*Record pointer equality) is the deduplication
//     identity used by materialization and find-by-identifier accumulation.
//   - The domain identifier (ID) is only used by identifier lookups, and is
//     compared in NFC-normalized form so that composed and decomposed
//     spellings of the same identifier match.
package record

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID is a domain identifier for a record.
//
// IDs are opaque strings. Comparison must go through NormalizeID so that
// Unicode normalization differences never cause spurious lookup misses.
type ID string

// NormalizeID returns the NFC-normalized form of an identifier.
//
// All identifier comparisons in this module use the normalized form.
// Storage layers should normalize before persisting.
func NormalizeID(id ID) ID {
	return ID(norm.NFC.String(string(id)))
}

// Record is one opaque value in a member set.
//
// Fields holds whatever predicate-visible attributes the record has.
// The zero value is a valid (empty) record.
type Record struct {
	ID     ID
	Fields map[string]any
}

// New creates a record with the given identifier and fields.
// The fields map is used as-is (not copied); callers must not mutate it
// after construction.
func New(id ID, fields map[string]any) *Record {
	return &Record{ID: id, Fields: fields}
}

// Field returns the named field value and whether it exists.
func (r *Record) Field(name string) (any, bool) {
	if r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// String renders the record for diagnostics and CLI text output.
// Field keys are sorted for deterministic output.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(string(r.ID))

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, r.Fields[k])
	}
	return b.String()
}
