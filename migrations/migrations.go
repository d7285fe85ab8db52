// Package migrations embeds the goose migrations for the workspace
// database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
