// Package migrations embeds the goose migrations of the SQL record stores,
// one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Directories inside FS.
const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)
