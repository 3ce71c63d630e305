package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
	"github.com/metaphiz/acts-as-union/union"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustInsert(t *testing.T, s *Store, collection, id string, fields map[string]any) {
	t.Helper()
	ctx := context.Background()
	if err := s.EnsureCollection(ctx, collection); err != nil {
		t.Fatalf("EnsureCollection(%q) failed: %v", collection, err)
	}
	if err := s.Insert(ctx, collection, record.New(record.ID(id), fields)); err != nil {
		t.Fatalf("Insert(%q, %q) failed: %v", collection, id, err)
	}
}

func TestCollection_InsertAndFindByID(t *testing.T) {
	s := openTestStore(t)
	mustInsert(t, s, "orders", "o1", map[string]any{"status": "open", "total": 12})

	rec, err := s.Collection("orders").FindByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if rec.ID != "o1" {
		t.Errorf("id = %q, want %q", rec.ID, "o1")
	}
	// JSON roundtrip decodes numbers as float64
	if got, _ := rec.Field("total"); got != float64(12) {
		t.Errorf("total = %v, want 12", got)
	}
	if got, _ := rec.Field("status"); got != "open" {
		t.Errorf("status = %v, want open", got)
	}
}

func TestCollection_FindByID_NotFound(t *testing.T) {
	s := openTestStore(t)
	mustInsert(t, s, "orders", "o1", nil)

	_, err := s.Collection("orders").FindByID(context.Background(), "ghost")
	if err != source.ErrNotFound {
		t.Errorf("err = %v, want source.ErrNotFound", err)
	}
}

func TestCollection_FindByID_NormalizesIdentifier(t *testing.T) {
	s := openTestStore(t)
	// Stored with a decomposed identifier; looked up with the precomposed one.
	mustInsert(t, s, "orders", "cafe\u0301", nil)

	rec, err := s.Collection("orders").FindByID(context.Background(), "caf\u00e9")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if rec.ID != record.ID("caf\u00e9") {
		t.Errorf("id = %q, not NFC-normalized", rec.ID)
	}
}

func TestCollection_MemberOrderIsInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	// Insert out of lexicographic order; pos must win.
	mustInsert(t, s, "orders", "z", nil)
	mustInsert(t, s, "orders", "a", nil)
	mustInsert(t, s, "orders", "m", nil)

	recs, err := s.Collection("orders").FindMany(context.Background(), query.Query{})
	if err != nil {
		t.Fatalf("FindMany() failed: %v", err)
	}
	want := []record.ID{"z", "a", "m"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("recs[%d].ID = %q, want %q", i, recs[i].ID, id)
		}
	}
}

func TestCollection_InsertReplacesKeepingPosition(t *testing.T) {
	s := openTestStore(t)
	mustInsert(t, s, "orders", "o1", map[string]any{"status": "open"})
	mustInsert(t, s, "orders", "o2", nil)
	mustInsert(t, s, "orders", "o1", map[string]any{"status": "closed"})

	recs, err := s.Collection("orders").FindMany(context.Background(), query.Query{})
	if err != nil {
		t.Fatalf("FindMany() failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != "o1" {
		t.Errorf("recs[0].ID = %q, want o1 (position kept on replace)", recs[0].ID)
	}
	if got, _ := recs[0].Field("status"); got != "closed" {
		t.Errorf("status = %v, want closed (fields replaced)", got)
	}
}

func TestCollection_FindSingleAndMany(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, "orders", "o1", map[string]any{"status": "open", "total": 5})
	mustInsert(t, s, "orders", "o2", map[string]any{"status": "open", "total": 20})
	mustInsert(t, s, "orders", "o3", map[string]any{"status": "closed", "total": 30})

	c := s.Collection("orders")

	rec, err := c.FindSingle(ctx, query.New(query.Eq("status", "open")))
	if err != nil {
		t.Fatalf("FindSingle() failed: %v", err)
	}
	if rec.ID != "o1" {
		t.Errorf("FindSingle id = %q, want o1", rec.ID)
	}

	_, err = c.FindSingle(ctx, query.New(query.Eq("status", "pending")))
	if err != source.ErrNotFound {
		t.Errorf("FindSingle miss err = %v, want source.ErrNotFound", err)
	}

	recs, err := c.FindMany(ctx, query.New(query.Gte("total", 10)))
	if err != nil {
		t.Fatalf("FindMany() failed: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "o2" || recs[1].ID != "o3" {
		t.Errorf("FindMany = %v, want [o2 o3]", recs)
	}

	// No match is an empty non-nil slice
	recs, err = c.FindMany(ctx, query.New(query.Gt("total", 99)))
	if err != nil {
		t.Fatalf("FindMany() failed: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("FindMany no-match = %v, want empty slice", recs)
	}
}

func TestCollection_FindManyLimit(t *testing.T) {
	s := openTestStore(t)
	mustInsert(t, s, "orders", "o1", nil)
	mustInsert(t, s, "orders", "o2", nil)
	mustInsert(t, s, "orders", "o3", nil)

	recs, err := s.Collection("orders").FindMany(context.Background(), query.New().WithLimit(2))
	if err != nil {
		t.Fatalf("FindMany() failed: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "o1" || recs[1].ID != "o2" {
		t.Errorf("FindMany limit = %v, want [o1 o2]", recs)
	}
}

func TestCollection_IsEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if !s.Collection("missing").IsEmpty(ctx) {
		t.Error("missing collection should be empty")
	}

	mustInsert(t, s, "orders", "o1", nil)
	if s.Collection("orders").IsEmpty(ctx) {
		t.Error("populated collection should not be empty")
	}
}

func TestListCollections(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	names, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections() failed: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("ListCollections = %v, want empty slice", names)
	}

	mustInsert(t, s, "zeta", "z1", nil)
	mustInsert(t, s, "alpha", "a1", nil)

	names, err = s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections() failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("ListCollections = %v, want [alpha zeta]", names)
	}
}

func TestCollections_AsUnionMembers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, "call_backs", "cb1", map[string]any{"due": 5})
	mustInsert(t, s, "call_back_recurrences", "cbr1", map[string]any{"due": 20})
	mustInsert(t, s, "call_back_recurrences", "cbr2", map[string]any{"due": 22})

	v := union.New(
		s.Collection("call_backs"),
		s.Collection("empty_set"),
		s.Collection("call_back_recurrences"),
	)

	all, err := v.Materialize(ctx)
	if err != nil {
		t.Fatalf("Materialize() failed: %v", err)
	}
	wantIDs := []record.ID{"cb1", "cbr1", "cbr2"}
	if len(all) != len(wantIDs) {
		t.Fatalf("got %d records, want %d", len(all), len(wantIDs))
	}
	for i, id := range wantIDs {
		if all[i].ID != id {
			t.Errorf("all[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}

	first, err := v.FindFirst(ctx, query.New(query.Gte("due", 1)))
	if err != nil {
		t.Fatalf("FindFirst() failed: %v", err)
	}
	if first.ID != "cb1" {
		t.Errorf("FindFirst id = %q, want cb1 (member precedence)", first.ID)
	}

	sub, err := v.FindAll(ctx, query.New(query.Gte("due", 10)))
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	recs, err := sub.Materialize(ctx)
	if err != nil {
		t.Fatalf("Materialize() of sub-view failed: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "cbr1" || recs[1].ID != "cbr2" {
		t.Errorf("sub-view = %v, want [cbr1 cbr2]", recs)
	}

	hits, err := v.FindByIDs(ctx, "cb1", "cbr2")
	if err != nil {
		t.Fatalf("FindByIDs() failed: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "cb1" || hits[1].ID != "cbr2" {
		t.Errorf("FindByIDs = %v, want [cb1 cbr2]", hits)
	}

	_, err = v.FindByIDs(ctx, "cb1", "ghost")
	if !union.IsNotFound(err) {
		t.Errorf("FindByIDs miss err = %v, want aggregate not-found", err)
	}
}

func TestFindByID_IdentifierInMultipleCollections(t *testing.T) {
	// Every SQL scan allocates a fresh record object, so an id present in
	// two member collections yields distinct objects per probe. The lookup
	// must succeed and resolve to the first collection in declared order.
	s := openTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, "call_backs", "shared", map[string]any{"origin": "call_backs"})
	mustInsert(t, s, "call_back_recurrences", "shared", map[string]any{"origin": "recurrences"})

	v := union.New(
		s.Collection("call_backs"),
		s.Collection("call_back_recurrences"),
	)

	rec, err := v.FindByID(ctx, "shared")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got, _ := rec.Field("origin"); got != "call_backs" {
		t.Errorf("origin = %v, want call_backs (first member wins)", got)
	}

	// Duplicate requested ids against SQL-backed members succeed too.
	hits, err := v.FindByIDs(ctx, "shared", "shared")
	if err != nil {
		t.Fatalf("FindByIDs() failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "shared" {
		t.Errorf("FindByIDs = %v, want one shared record", hits)
	}
}
