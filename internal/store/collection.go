package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metaphiz/acts-as-union/internal/querysql"
	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

// Collection is one SQLite-backed member set, usable directly as a union
// view member.
//
// Every read is ordered by pos ASC, id ASC COLLATE BINARY so the collection
// presents a stable member order. Each query observes the store at its own
// instant; no snapshot is held across calls.
type Collection struct {
	store *Store
	name  string
}

var _ source.Source = (*Collection)(nil)

// Collection returns the named collection as a query source.
// The collection does not need to exist yet; a missing collection behaves
// as an empty member set.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// IsEmpty reports whether the collection currently has no records.
// A query failure reports non-empty so the subsequent find surfaces the
// real error instead of silently skipping the member.
func (c *Collection) IsEmpty(ctx context.Context) bool {
	var count int
	err := c.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM records WHERE collection = ?
	`, c.name).Scan(&count)
	if err != nil {
		return false
	}
	return count == 0
}

// FindSingle returns the first record matching q in member order,
// or source.ErrNotFound.
func (c *Collection) FindSingle(ctx context.Context, q query.Query) (*record.Record, error) {
	where, params, err := querysql.CompileWhere(q)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, err)
	}

	args := append([]any{c.name}, params...)
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, fields FROM records
		WHERE collection = ? AND `+where+`
		ORDER BY pos ASC, id COLLATE BINARY ASC
		LIMIT 1
	`, args...)

	rec, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, source.ErrNotFound
		}
		return nil, fmt.Errorf("collection %q: find single: %w", c.name, err)
	}
	return rec, nil
}

// FindMany returns all records matching q in member order.
// Returns an empty slice, not nil, when nothing matches.
func (c *Collection) FindMany(ctx context.Context, q query.Query) ([]*record.Record, error) {
	where, params, err := querysql.CompileWhere(q)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, err)
	}

	sqlText := `
		SELECT id, fields FROM records
		WHERE collection = ? AND ` + where + `
		ORDER BY pos ASC, id COLLATE BINARY ASC
	`
	args := append([]any{c.name}, params...)
	if q.Limit() > 0 {
		sqlText += " LIMIT ?"
		args = append(args, q.Limit())
	}

	rows, err := c.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("collection %q: find many: %w", c.name, err)
	}
	defer rows.Close()

	var recs []*record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", c.name, err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collection %q: iterate records: %w", c.name, err)
	}

	// Return empty slice instead of nil
	if recs == nil {
		recs = []*record.Record{}
	}

	return recs, nil
}

// FindByID returns the record with the given identifier, or
// source.ErrNotFound. The identifier is NFC-normalized before lookup.
func (c *Collection) FindByID(ctx context.Context, id record.ID) (*record.Record, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, fields FROM records
		WHERE collection = ? AND id = ?
	`, c.name, string(record.NormalizeID(id)))

	rec, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, source.ErrNotFound
		}
		return nil, fmt.Errorf("collection %q: find by id: %w", c.name, err)
	}
	return rec, nil
}

// scanRecord scans a rows cursor into a record.
func scanRecord(rows *sql.Rows) (*record.Record, error) {
	var id, fieldsJSON string
	if err := rows.Scan(&id, &fieldsJSON); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	return decodeRecord(id, fieldsJSON)
}

// scanRecordRow scans a single row into a record.
func scanRecordRow(row *sql.Row) (*record.Record, error) {
	var id, fieldsJSON string
	if err := row.Scan(&id, &fieldsJSON); err != nil {
		return nil, err
	}
	return decodeRecord(id, fieldsJSON)
}

func decodeRecord(id, fieldsJSON string) (*record.Record, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("decode record %q fields: %w", id, err)
	}
	return record.New(record.ID(id), fields), nil
}
