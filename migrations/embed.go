// Package migrations embeds the versioned schema files for every supported
// SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql mysql/*.sql postgres/*.sql
var FS embed.FS
