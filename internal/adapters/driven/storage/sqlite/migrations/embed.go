// Package migrations embeds the versioned SQL schema for the SQLite store.
package migrations

import "embed"

// FS holds every .up.sql and .down.sql pair, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
