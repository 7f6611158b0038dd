// Package store is the Record Store: the only gateway to durable storage of
// novel records.
//
// # Overview
//
// Store lists, creates, deletes and updates novels. Four backends implement
// it:
//
//   - SQLite (modernc.org/sqlite), the default local library file;
//   - PostgreSQL through pgx's database/sql driver;
//   - MongoDB (go.mongodb.org/mongo-driver), document per novel;
//   - an in-memory map for tests and throwaway sessions.
//
// The SQL backends share one implementation (sqlStore) parameterized by a
// query set, and bootstrap their schema with embedded goose migrations.
//
// # Ordering
//
// ListAll returns records by UpdatedAt descending. Records with the same
// UpdatedAt come back in insertion order: rowid for SQLite, a BIGSERIAL
// column for PostgreSQL, the ObjectID for MongoDB and an insertion counter
// for the memory store.
//
// # Errors
//
// Connection and query failures wrap common.ErrStoreUnavailable.
// UpdateCoverPath on a missing id returns common.ErrNotFound; Delete of a
// missing id succeeds. Create rejects drafts that already have an id with
// common.ErrValidation.
//
// Typical Usage
//
//	s, err := store.Open(ctx, cfg)
//	defer s.Close(ctx)
//	n, _ := s.Create(ctx, models.Novel{Title: "Draft A"})
//	all, _ := s.ListAll(ctx)
//	n, _ = s.UpdateCoverPath(ctx, n.ID, "/covers/abc.png")
//	_ = s.Delete(ctx, n.ID)
package store
