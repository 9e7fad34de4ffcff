// Package auth contiene los servicios de autenticación del campamento:
// login con password, signup, códigos SMS y reset de password.
package auth

import (
	"context"

	"github.com/fastbreakhq/campauth/internal/schema"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
)

// LoginService define las operaciones de login con password.
type LoginService interface {
	// LoginPassword autentica contra las tres colecciones de credenciales
	// en orden: admins, parents, counselors.
	LoginPassword(ctx context.Context, sc schema.Schema, in dto.LoginRequest) (*dto.LoginResult, error)
}

// SignupService define el alta de usuarios.
type SignupService interface {
	Signup(ctx context.Context, sc schema.Schema, in dto.SignupRequest) (*dto.SignupResult, error)
}

// SMSCodeService define la emisión y verificación de códigos por SMS.
type SMSCodeService interface {
	// SendCode emite un código de 6 dígitos al teléfono, si el teléfono
	// pertenece a un usuario conocido. Nunca revela si existe o no.
	SendCode(ctx context.Context, sc schema.Schema, phone string) error
	// VerifyCode valida un código pendiente y lo marca como usado.
	VerifyCode(ctx context.Context, sc schema.Schema, phone, code string) (*dto.VerifyCodeResult, error)
}

// ResetService define el flujo de reset de password por email.
type ResetService interface {
	// RequestReset emite un token de reset y manda el email, si el email
	// pertenece a un usuario conocido. Nunca revela si existe o no.
	RequestReset(ctx context.Context, sc schema.Schema, email string) error
	// ConsumeReset valida el token, escribe el password nuevo y retorna
	// la identidad para que el cliente complete el login.
	ConsumeReset(ctx context.Context, sc schema.Schema, token, newPassword string) (*dto.ResetResult, error)
}
