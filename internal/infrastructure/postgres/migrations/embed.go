package migrations

import "embed"

// FS contiene las migraciones PostgreSQL del libro de inventario.
//
//go:embed *.sql
var FS embed.FS
