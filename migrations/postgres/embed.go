// Package migrations embebe los SQL del store directo a Postgres.
// El driver postgrest no los necesita: Supabase ya tiene el esquema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
