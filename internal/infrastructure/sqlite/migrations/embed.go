package migrations

import "embed"

// FS contiene las migraciones SQLite del libro de inventario.
//
//go:embed *.sql
var FS embed.FS
