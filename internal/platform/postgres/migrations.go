package postgres

import "embed"

// MigrationsFS embeds the SQL migrations so the binary can apply them at
// startup without a migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
