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

// ResetController maneja los endpoints de reset de password.
type ResetController struct {
	env     Env
	service svc.ResetService
}

// NewResetController crea un nuevo controller de reset.
func NewResetController(env Env, service svc.ResetService) *ResetController {
	return &ResetController{env: env, service: service}
}

// RequestReset maneja POST /api/request-password-reset
func (c *ResetController) RequestReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResetController.RequestReset"))

	sc := c.env.Resolver.Resolve(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.ForgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}
	req.Sanitize()
	if req.Email == "" {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Email is required"))
		return
	}

	if err := c.service.RequestReset(ctx, sc, req.Email); err != nil {
		log.Warn("reset request failed", logger.Err(err))
		writeResetError(w, err)
		return
	}

	// Misma respuesta exista o no la cuenta
	helpers.WriteSuccess(w, map[string]any{
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// ResetPassword maneja POST /api/reset-password
func (c *ResetController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResetController.ResetPassword"))

	sc := c.env.Resolver.Resolve(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Token and new password are required"))
		return
	}

	result, err := c.service.ConsumeReset(ctx, sc, req.Token, req.NewPassword)
	if err != nil {
		log.Debug("reset failed", logger.Err(err))
		writeResetError(w, err)
		return
	}

	helpers.WriteSuccess(w, map[string]any{
		"email":    result.Email,
		"name":     result.Name,
		"userType": result.UserType,
	})
}

func writeResetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Token and new password are required"))
	case errors.Is(err, svc.ErrWeakPassword):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters"))
	case errors.Is(err, svc.ErrResetInvalid):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Invalid reset link. Please request a new one."))
	case errors.Is(err, svc.ErrResetUsed):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "This reset link has already been used. Please request a new one."))
	case errors.Is(err, svc.ErrResetExpired):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "This reset link has expired. Please request a new one."))
	case errors.Is(err, svc.ErrEmailSend):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusInternalServerError, "Failed to send reset email. Please try again later."))
	default:
		helpers.WriteError(w, err)
	}
}
