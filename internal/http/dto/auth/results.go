package dto

import "github.com/fastbreakhq/campauth/internal/domain/types"

// LoginResult es la salida del login service. User viene ya sanitizado
// (sin password ni passwordHash) y preserva los campos del perfil.
type LoginResult struct {
	User         types.UserRecord
	Role         types.Role
	SessionToken string
}

// SignupResult es la salida del signup service.
type SignupResult struct {
	User types.UserRecord
	Role types.Role
}

// ResetResult identifica al usuario cuyo password fue reseteado.
type ResetResult struct {
	Email    string
	Name     string
	UserType string
}

// VerifyCodeResult es la salida de la verificación de códigos SMS.
// Identifica al usuario dueño del teléfono para que el cliente complete
// el login sin password.
type VerifyCodeResult struct {
	Email        string
	Name         string
	UserType     string
	LoginType    string
	SessionToken string
}
