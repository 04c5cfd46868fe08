package migrations

import "embed"

// FS contains the embedded portfolio store migrations.
//
//go:embed *.sql
var FS embed.FS
