// Package migrations embeds the numbered schema files for each supported
// database. Files are named NNN_description.sql.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
