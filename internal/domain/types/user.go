package types

import "strings"

// UserRecord es un registro de credenciales dentro de una colección
// (camp_admins, camp_parents o counselor_users).
//
// Se modela como documento abierto: además de los campos de autenticación,
// los dashboards guardan campos de perfil arbitrarios (hijos, horarios,
// fotos) que este servicio no conoce y debe preservar intactos al
// reescribir la colección completa.
type UserRecord map[string]any

// Claves conocidas dentro de un UserRecord.
const (
	FieldID              = "id"
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldName            = "name"
	FieldPhone           = "phone"
	FieldPassword        = "password"     // legacy: plaintext
	FieldPasswordHash    = "passwordHash" // bcrypt
	FieldRole            = "role"
	FieldRoles           = "roles"
	FieldLoginType       = "loginType"
	FieldLastLoginMethod = "lastLoginMethod"
	FieldLastLoginAt     = "lastLoginAt"
	FieldCreatedAt       = "createdAt"
)

func (u UserRecord) str(key string) string {
	v, _ := u[key].(string)
	return v
}

// ID retorna el id del registro (vacío en registros legacy sin id).
func (u UserRecord) ID() string { return u.str(FieldID) }

// Email retorna el email tal como está almacenado.
func (u UserRecord) Email() string { return u.str(FieldEmail) }

// Username retorna el username (solo admins lo usan).
func (u UserRecord) Username() string { return u.str(FieldUsername) }

// Name retorna el nombre para mostrar.
func (u UserRecord) Name() string { return u.str(FieldName) }

// Phone retorna el teléfono tal como está almacenado.
func (u UserRecord) Phone() string { return u.str(FieldPhone) }

// PasswordHash retorna el hash bcrypt, o vacío si el registro es legacy.
func (u UserRecord) PasswordHash() string { return u.str(FieldPasswordHash) }

// LegacyPassword retorna el password plaintext legacy, o vacío.
func (u UserRecord) LegacyPassword() string { return u.str(FieldPassword) }

// LoginType retorna el método de login preferido del registro.
func (u UserRecord) LoginType() string { return u.str(FieldLoginType) }

// MatchesEmail compara email case-insensitive.
func (u UserRecord) MatchesEmail(email string) bool {
	return u.Email() != "" && strings.EqualFold(u.Email(), email)
}

// MatchesIdentifier compara contra username o email, case-insensitive.
// Los admins pueden loguearse con cualquiera de los dos.
func (u UserRecord) MatchesIdentifier(id string) bool {
	if u.Username() != "" && strings.EqualFold(u.Username(), id) {
		return true
	}
	return u.MatchesEmail(id)
}

// Sanitized retorna una copia del registro sin los campos secretos.
// Es lo que se devuelve al cliente en login/signup.
func (u UserRecord) Sanitized() UserRecord {
	out := make(UserRecord, len(u))
	for k, v := range u {
		if k == FieldPassword || k == FieldPasswordHash {
			continue
		}
		out[k] = v
	}
	return out
}

// Collection es una colección ordenada de registros de credenciales.
type Collection []UserRecord

// FindByEmail retorna el índice del primer registro con ese email
// (case-insensitive), o -1.
func (c Collection) FindByEmail(email string) int {
	for i, rec := range c {
		if rec.MatchesEmail(email) {
			return i
		}
	}
	return -1
}

// FindByIdentifier retorna el índice del primer registro que matchee
// username o email, o -1.
func (c Collection) FindByIdentifier(id string) int {
	for i, rec := range c {
		if rec.MatchesIdentifier(id) {
			return i
		}
	}
	return -1
}

// FindByPhone retorna el índice del primer registro cuyo teléfono
// normalizado coincida con digits (10 dígitos), o -1.
func (c Collection) FindByPhone(digits string, normalize func(string) string) int {
	for i, rec := range c {
		if p := rec.Phone(); p != "" && normalize(p) == digits {
			return i
		}
	}
	return -1
}
