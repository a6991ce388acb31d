// Package migrations embeds the Postgres schema applied by goose.
package migrations

import "embed"

// FS holds the goose migration files.
//
//go:embed *.sql
var FS embed.FS
