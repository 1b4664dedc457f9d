// Package migrations embeds the goose SQL migrations applied at start-up and
// by the repository integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
