// Package migrations embeds the goose migrations of the development
// backend's SQLite schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
