// Package tokens genera los valores aleatorios de los flujos de
// verificación: tokens de reset y códigos SMS.
package tokens

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateResetToken genera un token opaco de 256 bits en hex (64 chars).
// El token es a la vez el secreto y el id de la fila que lo guarda.
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateSMSCode genera un código numérico de 6 dígitos (100000-999999).
func GenerateSMSCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
