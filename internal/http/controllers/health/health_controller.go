// Package health expone el endpoint de liveness/readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/store"
)

// Controller maneja GET /healthz.
type Controller struct {
	store store.Driver
}

// NewController crea el controller de health.
func NewController(d store.Driver) *Controller {
	return &Controller{store: d}
}

// Healthz responde 200 si el store contesta el ping, 503 si no.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		logger.From(r.Context()).Warn("store ping failed", logger.Err(err))
		helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"store":  err.Error(),
		})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
