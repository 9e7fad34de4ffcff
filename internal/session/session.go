// Package session emite el token de sesión que los dashboards guardan tras
// un login o una verificación de código exitosa. HS256 con secret propio:
// acá no hay OAuth ni terceros, el único consumidor es este mismo servicio.
package session

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/fastbreakhq/campauth/internal/domain/types"
)

// Issuer firma y valida tokens de sesión.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

// NewIssuer crea un Issuer. Con secret vacío Issue retorna token vacío
// (el cliente sigue funcionando con la identidad del payload, como antes).
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{Secret: []byte(secret), TTL: ttl}
}

// Claims del token de sesión.
type Claims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  types.Role `json:"role"`
	jwtv5.RegisteredClaims
}

// Issue emite un token para la identidad dada.
func (i *Issuer) Issue(email, name string, role types.Role) (string, error) {
	if len(i.Secret) == 0 {
		return "", nil
	}
	now := time.Now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(i.TTL)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(i.Secret)
}

// ErrInvalidToken indica firma inválida, token vencido o malformado.
var ErrInvalidToken = errors.New("session: invalid token")

// Parse valida un token y retorna sus claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	tk, err := jwtv5.ParseWithClaims(raw, &claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.Secret, nil
	})
	if err != nil || !tk.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
