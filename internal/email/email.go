// Package email envía los mails salientes del servicio (hoy solo el link de
// reset de password). Dos drivers: SMTP clásico y una API HTTP tipo Resend;
// se elige por config.
package email

import "context"

// Sender es la interfaz para enviar emails.
type Sender interface {
	// Send envía un email con contenido HTML y texto plano.
	// El destinatario recibe ambas versiones como multipart/alternative.
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
