package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/observability/logger"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
	svc "github.com/fastbreakhq/campauth/internal/http/services/auth"
)

// SignupController maneja el endpoint de alta de usuarios.
type SignupController struct {
	env     Env
	service svc.SignupService
}

// NewSignupController crea un nuevo controller de signup.
func NewSignupController(env Env, service svc.SignupService) *SignupController {
	return &SignupController{env: env, service: service}
}

// Signup maneja POST /api/signup
func (c *SignupController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SignupController.Signup"))

	sc := c.env.Resolver.Resolve(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}

	result, err := c.service.Signup(ctx, sc, req)
	if err != nil {
		log.Debug("signup failed", logger.Err(err))
		writeSignupError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    result.User,
		"role":    string(result.Role),
	})
}

func writeSignupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidTable):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Invalid table"))
	case errors.Is(err, svc.ErrMissingFields):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Email and name are required"))
	case errors.Is(err, svc.ErrInvalidEmail):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Please enter a valid email address"))
	case errors.Is(err, svc.ErrWeakPassword):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters"))
	case errors.Is(err, svc.ErrDuplicateEmail):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusConflict, "An account with this email already exists"))
	default:
		helpers.WriteError(w, err)
	}
}
