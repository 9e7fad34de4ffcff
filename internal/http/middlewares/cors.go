package middlewares

import (
	"net/http"
	"strings"
)

// WithCORS maneja CORS contra un allow-list de orígenes conocidos.
//
// Si el Origin del caller no está en la lista, se responde con el PRIMER
// origen del allow-list en vez de omitir el header o usar wildcard. Es el
// comportamiento documentado del sistema: los dashboards conocidos siempre
// reciben un header utilizable y un origen desconocido recibe uno que su
// browser va a rechazar.
//
// Preflight (OPTIONS) corta acá con 204, antes del router.
func WithCORS(allowed []string) Middleware {
	trim := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }

	alist := make([]string, len(allowed))
	for i, v := range allowed {
		alist[i] = trim(v)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := trim(r.Header.Get("Origin"))

			allowedOrigin := ""
			if len(alist) > 0 {
				allowedOrigin = alist[0] // fallback documentado
			}
			for _, a := range alist {
				if origin != "" && strings.EqualFold(origin, a) {
					allowedOrigin = origin
					break
				}
			}

			w.Header().Add("Vary", "Origin")

			if allowedOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Methods", "POST,GET,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Remaining, X-RateLimit-Limit, Retry-After")
				h.Set("Access-Control-Max-Age", "600") // preflight cache 10 min
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
