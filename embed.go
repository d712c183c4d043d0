// Package modifit holds assets embedded into the binaries.
package modifit

import "embed"

// MigrationsFS contains the SQL migrations for every supported database driver,
// under migrations/postgres and migrations/sqlite.
//
//go:embed migrations
var MigrationsFS embed.FS
