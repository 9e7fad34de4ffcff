package rate

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/fastbreakhq/campauth/internal/schema"
)

// RedisLimiter: fixed window sencillo (INCR + EXPIRE). Menos preciso que la
// ventana deslizante del StoreLimiter pero barato y compartido entre
// instancias.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
}

// NewRedisLimiter crea el limiter Redis.
func NewRedisLimiter(client *rdb.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix}
}

// Allow implementa Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, sc schema.Schema, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(window)
	redisKey := fmt.Sprintf("%s%s:%s:%d", l.Prefix, sc.Name, key, winStart.Unix())

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	// set expiry on first hit
	if incr.Val() == 1 {
		_ = l.Client.Expire(ctx, redisKey, window).Err()
		ttl = l.Client.TTL(ctx, redisKey)
	}

	hits := int(incr.Val())
	if hits > limit {
		retry := ttl.Val()
		if retry <= 0 {
			retry = window
		}
		return Result{Allowed: false, RetryAfter: retry}, nil
	}
	return Result{Allowed: true, Remaining: limit - hits}, nil
}
