package rate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store"
)

// StoreLimiter: ventana deslizante sobre la tabla rate_limits.
// Algoritmo por intento:
//  1. leer la lista de timestamps de la clave (fila ausente = lista vacía)
//  2. filtrar a los timestamps dentro de la ventana
//  3. si filtrados >= limit: rechazar SIN registrar el intento; RetryAfter
//     se calcula desde el intento más viejo de la ventana
//  4. si no: append(now) y reescribir la lista filtrada
//
// Los pasos no son atómicos (read-modify-write sin locking); el límite
// puede sub-aplicarse bajo concurrencia.
type StoreLimiter struct {
	Driver store.Driver

	// now es inyectable para tests. nil = time.Now.
	now func() time.Time
}

// NewStoreLimiter crea el limiter por defecto.
func NewStoreLimiter(d store.Driver) *StoreLimiter {
	return &StoreLimiter{Driver: d}
}

func (l *StoreLimiter) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// Allow implementa Limiter.
func (l *StoreLimiter) Allow(ctx context.Context, sc schema.Schema, key string, limit int, window time.Duration) (Result, error) {
	now := l.clock().UnixMilli()
	cutoff := now - window.Milliseconds()

	var rec types.RateRecord
	raw, err := l.Driver.Get(ctx, sc, types.TableRateLimits, key)
	switch {
	case err == nil:
		if uerr := json.Unmarshal(raw, &rec); uerr != nil {
			// fila corrupta: se trata como vacía
			rec = types.RateRecord{}
		}
	case errors.Is(err, store.ErrNotFound):
		// primera vez que se ve la clave
	default:
		return Result{}, err
	}

	recent := rec.Attempts[:0:0]
	oldest := int64(0)
	for _, ts := range rec.Attempts {
		if ts >= cutoff {
			recent = append(recent, ts)
			if oldest == 0 || ts < oldest {
				oldest = ts
			}
		}
	}

	if len(recent) >= limit {
		retry := time.Duration(oldest+window.Milliseconds()-now) * time.Millisecond
		if retry < time.Second {
			retry = time.Second
		}
		return Result{Allowed: false, RetryAfter: retry}, nil
	}

	recent = append(recent, now)
	if err := l.Driver.Put(ctx, sc, types.TableRateLimits, key, types.RateRecord{Attempts: recent}); err != nil {
		return Result{}, err
	}
	return Result{Allowed: true, Remaining: limit - len(recent)}, nil
}
