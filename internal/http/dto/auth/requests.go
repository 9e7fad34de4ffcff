// Package dto define los bodies de request del API de autenticación.
// Todos los endpoints son POST con JSON.
package dto

import "strings"

// LoginRequest es el body de POST /api/login.
// Email acepta también el username de los admins.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Sanitize normaliza los campos in place.
func (r *LoginRequest) Sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// SignupRequest es el body de POST /api/signup.
// Table debe estar en el allow-list de tablas de credenciales; UserData es
// el registro completo a insertar (el perfil puede traer campos arbitrarios).
type SignupRequest struct {
	Table    string         `json:"table"`
	UserData map[string]any `json:"userData"`
}

// SendCodeRequest es el body de POST /api/send-verification-code.
type SendCodeRequest struct {
	Phone string `json:"phone"`
}

// VerifyCodeRequest es el body de POST /api/verify-code.
type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// ForgotRequest es el body de POST /api/request-password-reset.
type ForgotRequest struct {
	Email string `json:"email"`
}

// Sanitize normaliza el email in place.
func (r *ForgotRequest) Sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ResetRequest es el body de POST /api/reset-password.
type ResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
