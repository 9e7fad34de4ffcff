package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fastbreakhq/campauth/internal/schema"
)

// MemoryLimiter: misma ventana deslizante que StoreLimiter pero in-process,
// sobre go-cache. Sirve para single-instance o para desarrollo sin store.
type MemoryLimiter struct {
	c  *gocache.Cache
	mu sync.Mutex

	now func() time.Time
}

// NewMemoryLimiter crea el limiter en memoria. Las entradas expiran solas
// pasada la ventana más larga razonable.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{c: gocache.New(2*time.Hour, 10*time.Minute)}
}

func (l *MemoryLimiter) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// Allow implementa Limiter. Nunca retorna error.
func (l *MemoryLimiter) Allow(_ context.Context, sc schema.Schema, key string, limit int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ck := sc.Name + ":" + key
	now := l.clock().UnixMilli()
	cutoff := now - window.Milliseconds()

	var attempts []int64
	if v, ok := l.c.Get(ck); ok {
		attempts, _ = v.([]int64)
	}

	recent := attempts[:0:0]
	oldest := int64(0)
	for _, ts := range attempts {
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
	l.c.Set(ck, recent, window+time.Minute)
	return Result{Allowed: true, Remaining: limit - len(recent)}, nil
}
