// Package migrations embeds the goose SQL migrations for each SQL backend.
package migrations

import "embed"

// FS holds the migrations under postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	DirPostgres = "postgres"
	DirSQLite   = "sqlite"
)
