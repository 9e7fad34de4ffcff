// Package store abstrae el document store del camp (Supabase/PostgREST o
// Postgres directo).
//
// Convención de almacenamiento: cada "tabla" es un par (id text, data jsonb).
// Las colecciones de credenciales viven completas en la fila id='main';
// tokens y rate limits usan una fila por registro. La única primitiva de
// mutación es la sobre-escritura completa del documento (last-writer-wins,
// sin locking ni versionado): los callers toleran lost updates bajo
// concurrencia en lugar de asumir consistencia fuerte.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fastbreakhq/campauth/internal/schema"
)

// Record es una fila cruda de una tabla.
type Record struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// ErrNotFound indica que la fila pedida no existe.
var ErrNotFound = errors.New("store: not found")

// Driver es el contrato mínimo contra el almacenamiento.
// Implementado por postgrest (HTTP) y pg (pgx directo).
type Driver interface {
	// Get lee el campo data de una fila. ErrNotFound si no existe.
	Get(ctx context.Context, sc schema.Schema, table, id string) (json.RawMessage, error)

	// Put upserta la fila completa (insert o replace de data).
	Put(ctx context.Context, sc schema.Schema, table, id string, data any) error

	// ListByIDPrefix retorna todas las filas cuyo id empieza con prefix.
	ListByIDPrefix(ctx context.Context, sc schema.Schema, table, prefix string) ([]Record, error)

	// Ping verifica que el almacenamiento responda.
	Ping(ctx context.Context) error
}
