package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/novelshelf/internal/store/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Timestamps are compared as text under the "C" collation; seq keeps
// insertion order among equal updated_at values.
var postgresQueries = queries{
	list: `SELECT ` + novelColumns + ` FROM novels
		ORDER BY updated_at DESC, seq ASC`,
	insert: `INSERT INTO novels (` + novelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	delete:      `DELETE FROM novels WHERE id = $1`,
	getForWrite: `SELECT ` + novelColumns + ` FROM novels WHERE id = $1 FOR UPDATE`,
	updateCover: `UPDATE novels SET cover_image_path = $1, updated_at = $2 WHERE id = $3`,
}

// OpenPostgres connects to PostgreSQL through the pgx stdlib driver and
// applies pending migrations.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, unavailable("open postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("ping postgres", err)
	}
	if err := runMigrations(ctx, db, "pgx", migrations.PostgresDir); err != nil {
		_ = db.Close()
		return nil, unavailable("migrate postgres", err)
	}
	return newPostgres(db, opts...), nil
}

func newPostgres(db *sql.DB, opts ...Option) *sqlStore {
	return newSQLStore(db, postgresQueries, opts)
}
