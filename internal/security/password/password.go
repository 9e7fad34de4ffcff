// Package password maneja hashing y verificación de passwords.
//
// Conviven dos variantes en los datos: registros nuevos guardan un hash
// bcrypt en passwordHash; registros viejos todavía tienen el password
// plaintext en password. La comparación bifurca según cuál esté presente.
// No se migran registros legacy al pasar: eso es una decisión de producto,
// no de este paquete.
package password

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastbreakhq/campauth/internal/domain/types"
)

// Cost es el cost factor bcrypt de los registros nuevos.
const Cost = 10

// MinLength es el largo mínimo aceptado en signup y reset.
const MinLength = 6

// Hash genera el hash bcrypt de plain.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password: empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Kind distingue las variantes de credencial almacenada.
type Kind int

const (
	// KindNone: el registro no tiene credencial de password (ej: solo SMS).
	KindNone Kind = iota
	// KindHashed: passwordHash presente (bcrypt).
	KindHashed
	// KindLegacy: password plaintext presente, sin hash.
	KindLegacy
)

// Credential es la unión etiquetada Hashed(hash) | LegacyPlaintext(password).
type Credential struct {
	Kind   Kind
	Hash   string
	Legacy string
}

// CredentialOf extrae la credencial de un registro. El hash tiene prioridad
// si ambos campos están presentes.
func CredentialOf(rec types.UserRecord) Credential {
	if h := rec.PasswordHash(); h != "" {
		return Credential{Kind: KindHashed, Hash: h}
	}
	if p := rec.LegacyPassword(); p != "" {
		return Credential{Kind: KindLegacy, Legacy: p}
	}
	return Credential{Kind: KindNone}
}

// Matches verifica plain contra la credencial.
func (c Credential) Matches(plain string) bool {
	switch c.Kind {
	case KindHashed:
		return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(plain)) == nil
	case KindLegacy:
		return subtle.ConstantTimeCompare([]byte(c.Legacy), []byte(plain)) == 1
	default:
		return false
	}
}
