// Package storetest provee un store.Driver en memoria para tests.
package storetest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store"
)

// Fake es un driver en memoria. Las filas se indexan por schema/tabla/id.
// Los campos de error permiten simular fallas del backend.
type Fake struct {
	mu   sync.Mutex
	rows map[string]json.RawMessage

	GetErr  error
	PutErr  error
	ListErr error

	// GetCalls y PutCalls cuentan accesos, incluyendo los fallidos.
	GetCalls int
	PutCalls int
}

// NewFake crea un Fake vacío.
func NewFake() *Fake {
	return &Fake{rows: make(map[string]json.RawMessage)}
}

func key(sc schema.Schema, table, id string) string {
	return sc.Name + "/" + table + "/" + id
}

// Seed escribe una fila directamente, sin pasar por Put.
func (f *Fake) Seed(sc schema.Schema, table, id string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key(sc, table, id)] = b
}

// Raw devuelve la fila cruda, o nil si no existe.
func (f *Fake) Raw(sc schema.Schema, table, id string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[key(sc, table, id)]
}

// Get implementa store.Driver.
func (f *Fake) Get(_ context.Context, sc schema.Schema, table, id string) (json.RawMessage, error) {
	f.mu.Lock()
	f.GetCalls++
	f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[key(sc, table, id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b, nil
}

// Put implementa store.Driver.
func (f *Fake) Put(_ context.Context, sc schema.Schema, table, id string, data any) error {
	f.mu.Lock()
	f.PutCalls++
	f.mu.Unlock()
	if f.PutErr != nil {
		return f.PutErr
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key(sc, table, id)] = b
	return nil
}

// ListByIDPrefix implementa store.Driver.
func (f *Fake) ListByIDPrefix(_ context.Context, sc schema.Schema, table, prefix string) ([]store.Record, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	base := key(sc, table, "")
	var out []store.Record
	for k, v := range f.rows {
		if strings.HasPrefix(k, base) && strings.HasPrefix(k[len(base):], prefix) {
			out = append(out, store.Record{ID: k[len(base):], Data: v})
		}
	}
	return out, nil
}

// Ping implementa store.Driver.
func (f *Fake) Ping(context.Context) error {
	if f.GetErr != nil {
		return f.GetErr
	}
	return nil
}
