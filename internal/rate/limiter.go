// Package rate implementa el control de abuso por clave (ej: "login:<ip>").
//
// El backend por defecto es el propio document store: la lista de intentos
// de cada clave vive en la tabla rate_limits y se filtra por ventana
// deslizante en cada lectura. Para deployments multi-instancia hay un
// backend Redis (fixed window) y para single-instance uno en memoria.
//
// Es un control de bajo valor: los backends no son atómicos y dos requests
// concurrentes pueden pasar ambos por debajo del umbral. Aceptado.
package rate

import (
	"context"
	"time"

	"github.com/fastbreakhq/campauth/internal/schema"
)

// Result es el veredicto de un chequeo de rate limit.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter chequea y registra un intento para una clave.
// El schema resuelto viaja en la llamada porque el backend store guarda los
// contadores en el mismo namespace que el resto de los datos del request.
type Limiter interface {
	Allow(ctx context.Context, sc schema.Schema, key string, limit int, window time.Duration) (Result, error)
}
