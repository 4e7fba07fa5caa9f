// Package migrations embeds the postgres schema migrations so the server
// and the migrate command can apply them without a migrations directory.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory.
//
//go:embed *.sql
var FS embed.FS
