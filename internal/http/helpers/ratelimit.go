package helpers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/rate"
	"github.com/fastbreakhq/campauth/internal/schema"
)

// RateConfig es el límite de una acción.
type RateConfig struct {
	Limit  int
	Window time.Duration
}

// EnforceLimit aplica el rate limit de una acción. Si el request queda
// rechazado escribe el 429 (con Retry-After y mensaje legible) y retorna
// false; si no, setea los headers informativos y retorna true.
//
// Fail-open: limiter ausente, config inválida o error de backend permiten
// el request.
func EnforceLimit(w http.ResponseWriter, r *http.Request, lim rate.Limiter, sc schema.Schema, action, key string, cfg RateConfig) bool {
	if lim == nil || cfg.Limit <= 0 || cfg.Window <= 0 {
		return true
	}

	res, err := lim.Allow(r.Context(), sc, key, cfg.Limit, cfg.Window)
	if err != nil {
		logger.From(r.Context()).Warn("rate limiter unavailable, failing open",
			logger.Key(key), logger.Err(err))
		return true
	}

	if res.Allowed {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		return true
	}

	secs := int(math.Ceil(res.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	metrics.RateLimitRejections.WithLabelValues(action).Inc()
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	WriteError(w, NewHTTPError(http.StatusTooManyRequests,
		fmt.Sprintf("Too many attempts. Please try again in %s.", humanDuration(secs))))
	return false
}

// humanDuration baja segundos a un texto corto ("45 seconds", "12 minutes").
func humanDuration(secs int) string {
	if secs < 120 {
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	mins := (secs + 59) / 60
	return fmt.Sprintf("%d minutes", mins)
}
