package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/observability/logger"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
	svc "github.com/fastbreakhq/campauth/internal/http/services/auth"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	env     Env
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(env Env, service svc.LoginService) *LoginController {
	return &LoginController{env: env, service: service}
}

// Login maneja POST /api/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	sc := c.env.Resolver.Resolve(r)

	// Limitar body
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}

	// Paso 1: Validar campos antes de gastar un intento del rate limit
	req.Sanitize()
	if req.Email == "" || req.Password == "" {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Email and password are required"))
		return
	}

	// Paso 2: Rate limit por IP
	ip := helpers.ClientIP(r)
	if !helpers.EnforceLimit(w, r, c.env.Limiter, sc, "login", "login:"+ip, c.env.LoginRate) {
		return
	}

	// Paso 3: Autenticar
	result, err := c.service.LoginPassword(ctx, sc, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	// Los admins exponen lo mínimo; el resto devuelve el perfil completo
	// ya sanitizado para que el dashboard lo cachee.
	payload := map[string]any{"role": string(result.Role)}
	if result.Role == types.RoleAdmin {
		payload["name"] = result.User.Name()
		payload["adminId"] = result.User.ID()
	} else {
		payload["user"] = result.User
	}
	if result.SessionToken != "" {
		payload["sessionToken"] = result.SessionToken
	}
	helpers.WriteSuccess(w, payload)
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Email and password are required"))
	case errors.Is(err, svc.ErrInvalidCredentials):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password. Please try again."))
	default:
		helpers.WriteError(w, err)
	}
}
