// Package schema resuelve el namespace lógico (dev | public) de cada request.
//
// La selección es una heurística sobre Origin/Referer: requests desde
// localhost, 127.0.0.1 o github.io usan el namespace "dev" con la credencial
// low-privilege; todo lo demás va a "public" con la service key. No es un
// límite de seguridad, es comportamiento documentado del sistema original y
// se preserva tal cual.
package schema

import (
	"net/http"
	"strings"
)

// Nombres de namespace.
const (
	Dev    = "dev"
	Public = "public"
)

// Schema es el resultado de la resolución: namespace + credencial a usar.
type Schema struct {
	Name   string // dev | public
	APIKey string
}

// IsDev reporta si el schema es el namespace de desarrollo.
func (s Schema) IsDev() bool { return s.Name == Dev }

// Resolver clasifica requests en dev/public.
// Es una función pura de los headers: no tiene path de error y ante
// entrada ambigua cae a public (producción).
type Resolver struct {
	AnonKey    string // low-privilege, namespace dev
	ServiceKey string // high-privilege, namespace public
}

var devMarkers = []string{"localhost", "127.0.0.1", "github.io"}

// Resolve clasifica el request por Origin, con Referer como fallback.
func (rs Resolver) Resolve(r *http.Request) Schema {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	return rs.ResolveOrigin(origin)
}

// ResolveOrigin clasifica a partir del valor crudo del header.
func (rs Resolver) ResolveOrigin(origin string) Schema {
	o := strings.ToLower(origin)
	for _, m := range devMarkers {
		if strings.Contains(o, m) {
			return Schema{Name: Dev, APIKey: rs.AnonKey}
		}
	}
	return Schema{Name: Public, APIKey: rs.ServiceKey}
}
