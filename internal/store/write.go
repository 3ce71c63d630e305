package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/metaphiz/acts-as-union/record"
)

// EnsureCollection registers a collection name.
// Uses ON CONFLICT DO NOTHING for idempotency - re-registering is a no-op.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("ensure collection: name must not be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name) VALUES (?)
		ON CONFLICT(name) DO NOTHING
	`, name)
	if err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

// Insert appends a record to a collection.
//
// The record's identifier is NFC-normalized before storage. Position is
// assigned as max(pos)+1 within the collection, so insertion order is the
// collection's member order. Inserting an identifier that already exists in
// the collection replaces that record's fields in place, keeping its
// original position.
func (s *Store) Insert(ctx context.Context, collection string, rec *record.Record) error {
	if rec == nil {
		return fmt.Errorf("insert: record must not be nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("insert: record id must not be empty")
	}

	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("insert: marshal fields: %w", err)
	}

	// Use a transaction to make the position assignment atomic with the
	// insert under the single-writer connection.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (collection, id, fields, pos)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(pos), 0) + 1 FROM records WHERE collection = ?))
		ON CONFLICT(collection, id) DO UPDATE SET fields = excluded.fields
	`,
		collection,
		string(record.NormalizeID(rec.ID)),
		string(fieldsJSON),
		collection,
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert: commit: %w", err)
	}
	return nil
}

// ListCollections returns all registered collection names.
// Results ordered by name ASC COLLATE BINARY for deterministic output.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM collections
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	// Return empty slice instead of nil
	if names == nil {
		names = []string{}
	}

	return names, nil
}
