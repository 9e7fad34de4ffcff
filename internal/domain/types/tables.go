// Package types define tipos de dominio compartidos entre paquetes.
package types

// Tablas del document store. Cada tabla de credenciales guarda su colección
// completa en una sola fila singleton (id = "main"); las tablas de tokens y
// rate limits usan una fila por registro.
const (
	TableAdmins     = "camp_admins"
	TableParents    = "camp_parents"
	TableCounselors = "counselor_users"
	TableTokens     = "auth_tokens"
	TableRateLimits = "rate_limits"
)

// SingletonID es el id fijo de la fila que guarda una colección completa.
const SingletonID = "main"

// Role de un usuario autenticado.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleParent    Role = "parent"
	RoleCounselor Role = "counselor"
)

// credentialTables son las únicas tablas válidas como destino de signup.
var credentialTables = map[string]Role{
	TableAdmins:     RoleAdmin,
	TableParents:    RoleParent,
	TableCounselors: RoleCounselor,
}

// IsCredentialTable reporta si table está en el allow-list de signup.
func IsCredentialTable(table string) bool {
	_, ok := credentialTables[table]
	return ok
}

// RoleForTable retorna el rol asociado a una tabla de credenciales.
func RoleForTable(table string) Role {
	return credentialTables[table]
}

// TableForRole es la inversa de RoleForTable. Retorna "" para roles
// desconocidos.
func TableForRole(role Role) string {
	for table, r := range credentialTables {
		if r == role {
			return table
		}
	}
	return ""
}
