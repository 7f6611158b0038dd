package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/novelshelf/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// Rows with equal updated_at keep insertion order through rowid.
var sqliteQueries = queries{
	list: `SELECT ` + novelColumns + ` FROM novels
		ORDER BY updated_at DESC, rowid ASC`,
	insert: `INSERT INTO novels (` + novelColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	delete:      `DELETE FROM novels WHERE id = ?`,
	getForWrite: `SELECT ` + novelColumns + ` FROM novels WHERE id = ?`,
	updateCover: `UPDATE novels SET cover_image_path = ?, updated_at = ? WHERE id = ?`,
}

var sqlitePragmas = []string{
	`PRAGMA journal_mode = WAL`,
	`PRAGMA busy_timeout = 5000`,
	`PRAGMA foreign_keys = ON`,
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates it.
// dsn is anything the modernc.org/sqlite driver accepts, including ":memory:".
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	// One connection: keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := initSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, unavailable("init sqlite", err)
	}
	return newSQLStore(db, sqliteQueries, opts), nil
}

func initSQLite(ctx context.Context, db *sql.DB) error {
	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
