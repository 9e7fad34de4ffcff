// Package auth contiene los controllers de autenticación.
package auth

import (
	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/rate"
	"github.com/fastbreakhq/campauth/internal/schema"

	svc "github.com/fastbreakhq/campauth/internal/http/services/auth"
)

const (
	maxBodySize     = 64 * 1024 // 64KB
	contentTypeJSON = "application/json; charset=utf-8"
)

// Env agrupa las dependencias compartidas por todos los controllers:
// resolución de namespace por Origin y rate limiting por IP.
type Env struct {
	Resolver  schema.Resolver
	Limiter   rate.Limiter
	LoginRate helpers.RateConfig
	SMSRate   helpers.RateConfig
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login   *LoginController
	Signup  *SignupController
	SMSCode *SMSCodeController
	Reset   *ResetController
}

// Services agrupa los servicios que consumen los controllers.
type Services struct {
	Login   svc.LoginService
	Signup  svc.SignupService
	SMSCode svc.SMSCodeService
	Reset   svc.ResetService
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(env Env, s Services) *Controllers {
	return &Controllers{
		Login:   NewLoginController(env, s.Login),
		Signup:  NewSignupController(env, s.Signup),
		SMSCode: NewSMSCodeController(env, s.SMSCode),
		Reset:   NewResetController(env, s.Reset),
	}
}
