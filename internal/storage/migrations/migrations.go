// Package migrations embeds the SQL migration files for the kv store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
