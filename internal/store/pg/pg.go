// Package pg implementa store.Driver contra Postgres directo (pgx), para
// deployments con connection string de Supabase que se saltean el hop REST.
// El layout de tablas es el mismo que consume PostgREST: (id text pk,
// data jsonb), duplicado en los schemas dev y public.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store"
)

// Store es el driver pgx.
type Store struct {
	pool *pgxpool.Pool
}

// New abre el pool contra dsn.
func New(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close libera el pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Los identificadores se interpolan en SQL, así que solo se aceptan los
// nombres fijos conocidos. Cualquier otro valor es un bug del caller.
func qualify(sc schema.Schema, table string) (string, error) {
	switch table {
	case types.TableAdmins, types.TableParents, types.TableCounselors,
		types.TableTokens, types.TableRateLimits:
	default:
		return "", fmt.Errorf("pg: unknown table %q", table)
	}
	name := sc.Name
	if name != schema.Dev && name != schema.Public {
		name = schema.Public
	}
	return fmt.Sprintf("%s.%s", name, table), nil
}

// Get implementa store.Driver.
func (s *Store) Get(ctx context.Context, sc schema.Schema, table, id string) (json.RawMessage, error) {
	rel, err := qualify(sc, table)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, rel), id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put implementa store.Driver.
func (s *Store) Put(ctx context.Context, sc schema.Schema, table, id string, data any) error {
	rel, err := qualify(sc, table)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, rel), id, payload)
	return err
}

// ListByIDPrefix implementa store.Driver.
func (s *Store) ListByIDPrefix(ctx context.Context, sc schema.Schema, table, prefix string) ([]store.Record, error) {
	rel, err := qualify(sc, table)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, data FROM %s WHERE id LIKE $1 || '%%'`, rel), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var r store.Record
		var data []byte
		if err := rows.Scan(&r.ID, &data); err != nil {
			return nil, err
		}
		r.Data = data
		out = append(out, r)
	}
	return out, rows.Err()
}

// Ping implementa store.Driver.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Exec corre SQL arbitrario. Lo usa el comando de migraciones.
func (s *Store) Exec(ctx context.Context, sql string) error {
	_, err := s.pool.Exec(ctx, sql)
	return err
}
