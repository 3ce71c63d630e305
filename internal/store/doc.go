// Package store provides SQLite-backed member sets for union views.
//
// Each named collection is an ordered record set:
//   - Collections: registered collection names
//   - Records: (collection, id, fields JSON, pos) rows
//
// Ordering discipline: every read includes
// ORDER BY pos ASC, id ASC COLLATE BINARY, so a collection presents the
// same record order on every query. Positions are assigned at insert time
// by a per-collection counter.
//
// Identifiers are NFC-normalized before storage and lookup, so composed and
// decomposed spellings of the same identifier address the same record.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
