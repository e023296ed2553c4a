// Package migrations embeds the contractor passport schema. The server
// applies these at boot when a database is configured; statements are
// idempotent so reapplication is safe.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
