// Package migrations embeds the database schema migrations.
package migrations

import "embed"

// Dir is the directory within FS holding the migration files.
const Dir = "sql"

//go:embed sql/*.sql
var FS embed.FS
