package helpers

import (
	"net/http"
	"strings"
)

// ClientIP deriva la IP del cliente para las claves de rate limit.
// Orden: primer valor de X-Forwarded-For, X-Real-IP, Client-IP, "unknown".
// Detrás del proxy de la plataforma XFF siempre está; los fallbacks cubren
// desarrollo local.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("Client-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
