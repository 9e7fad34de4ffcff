package types

import (
	"fmt"
	"strings"
	"time"
)

// TokenRecord es un token time-boxed de un solo uso, almacenado en la tabla
// auth_tokens. Los tokens de reset de password se guardan bajo su propio
// valor (64 hex chars) como id; los códigos SMS bajo "sms_<digits>_<epoch-ms>"
// para permitir varios códigos vigentes por teléfono.
type TokenRecord struct {
	Email     string `json:"email"`
	UserType  string `json:"userType"` // parent | counselor
	ExpiresAt int64  `json:"expiresAt"`
	Used      bool   `json:"used"`

	// Solo códigos SMS.
	Phone     string `json:"phone,omitempty"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	LoginType string `json:"loginType,omitempty"`
}

// Expired reporta si el token ya venció respecto de now.
func (t TokenRecord) Expired(now time.Time) bool {
	return now.UnixMilli() > t.ExpiresAt
}

// SMSTokenID arma el id de un código SMS para un teléfono normalizado.
func SMSTokenID(digits string, issuedAt time.Time) string {
	return fmt.Sprintf("sms_%s_%d", digits, issuedAt.UnixMilli())
}

// SMSTokenPrefix es el prefijo de búsqueda de todos los códigos de un
// teléfono. La tabla compartida no tiene índice dedicado: se consulta por
// wildcard sobre el id.
func SMSTokenPrefix(digits string) string {
	return "sms_" + digits + "_"
}

// IsSMSTokenID reporta si un id de la tabla de tokens corresponde a un
// código SMS.
func IsSMSTokenID(id string) bool {
	return strings.HasPrefix(id, "sms_")
}

// RateRecord es la lista de intentos de una clave de rate limit,
// en epoch-milliseconds.
type RateRecord struct {
	Attempts []int64 `json:"attempts"`
}
