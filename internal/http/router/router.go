// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/fastbreakhq/campauth/internal/http/controllers/auth"
	healthctrl "github.com/fastbreakhq/campauth/internal/http/controllers/health"
	"github.com/fastbreakhq/campauth/internal/http/helpers"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Auth   *authctrl.Controllers
	Health *healthctrl.Controller
}

// New arma el router con todos los endpoints del servicio. Los middlewares
// transversales (CORS, request id, logging) se aplican por fuera, sobre el
// handler completo.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/login", deps.Auth.Login.Login)
	r.Post("/api/signup", deps.Auth.Signup.Signup)
	r.Post("/api/send-verification-code", deps.Auth.SMSCode.SendCode)
	r.Post("/api/verify-code", deps.Auth.SMSCode.VerifyCode)
	r.Post("/api/request-password-reset", deps.Auth.Reset.RequestReset)
	r.Post("/api/reset-password", deps.Auth.Reset.ResetPassword)

	r.Get("/healthz", deps.Health.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusNotFound, "Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteError(w, helpers.ErrMethodNotAllowed)
	})

	return r
}
