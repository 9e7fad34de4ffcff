package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/sms"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
	svc "github.com/fastbreakhq/campauth/internal/http/services/auth"
)

// SMSCodeController maneja los endpoints de códigos de verificación.
type SMSCodeController struct {
	env     Env
	service svc.SMSCodeService
}

// NewSMSCodeController crea un nuevo controller de códigos SMS.
func NewSMSCodeController(env Env, service svc.SMSCodeService) *SMSCodeController {
	return &SMSCodeController{env: env, service: service}
}

// SendCode maneja POST /api/send-verification-code
func (c *SMSCodeController) SendCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SMSCodeController.SendCode"))

	sc := c.env.Resolver.Resolve(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}

	// Paso 1: Validar el teléfono antes de gastar un intento del rate limit
	if svc.NormalizePhone(req.Phone) == "" {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Please enter a valid 10-digit phone number"))
		return
	}

	// Paso 2: Rate limit por IP
	ip := helpers.ClientIP(r)
	if !helpers.EnforceLimit(w, r, c.env.Limiter, sc, "sms", "sms:"+ip, c.env.SMSRate) {
		return
	}

	// Paso 3: Emitir el código. El éxito nunca revela si el teléfono existe.
	if err := c.service.SendCode(ctx, sc, req.Phone); err != nil {
		log.Warn("send code failed", logger.Err(err))
		writeSMSError(w, err)
		return
	}

	helpers.WriteSuccess(w, map[string]any{"message": "Verification code sent"})
}

// VerifyCode maneja POST /api/verify-code
func (c *SMSCodeController) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SMSCodeController.VerifyCode"))

	sc := c.env.Resolver.Resolve(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON)
		return
	}
	if req.Phone == "" || req.Code == "" {
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Phone and code are required"))
		return
	}

	result, err := c.service.VerifyCode(ctx, sc, req.Phone, req.Code)
	if err != nil {
		log.Debug("verify code failed", logger.Err(err))
		writeSMSError(w, err)
		return
	}

	payload := map[string]any{
		"email":     result.Email,
		"name":      result.Name,
		"userType":  result.UserType,
		"loginType": result.LoginType,
	}
	if result.SessionToken != "" {
		payload["sessionToken"] = result.SessionToken
	}
	helpers.WriteSuccess(w, payload)
}

func writeSMSError(w http.ResponseWriter, err error) {
	var perr *sms.ProviderError
	switch {
	case errors.Is(err, svc.ErrInvalidPhone):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Please enter a valid 10-digit phone number"))
	case errors.Is(err, svc.ErrCodeExpired):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "This code has expired. Please request a new one."))
	case errors.Is(err, svc.ErrCodeInvalid):
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusBadRequest, "Invalid verification code"))
	case errors.As(err, &perr):
		// El mensaje del proveedor se devuelve tal cual para debugging
		helpers.WriteError(w, helpers.NewHTTPError(http.StatusInternalServerError, perr.Message))
	default:
		helpers.WriteError(w, err)
	}
}
