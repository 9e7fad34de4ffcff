package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/schema"
)

// FetchCollection lee la colección singleton de una tabla de credenciales.
// Fila ausente o payload malformado ⇒ colección vacía, nunca error: los
// handlers tratan "no hay datos" y "datos rotos" igual que el original.
func FetchCollection(ctx context.Context, d Driver, sc schema.Schema, table string) types.Collection {
	log := logger.From(ctx).With(logger.Layer("store"), logger.Table(table), logger.Schema(sc.Name))

	raw, err := d.Get(ctx, sc, table, types.SingletonID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn("fetch collection failed", logger.Err(err))
		}
		return nil
	}

	var c types.Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Warn("collection payload malformed", logger.Err(err))
		return nil
	}
	return c
}

// PutCollection reescribe la colección completa de una tabla.
// Retorna false en vez de error; el caller decide cómo propagar la falla.
func PutCollection(ctx context.Context, d Driver, sc schema.Schema, table string, c types.Collection) bool {
	if c == nil {
		c = types.Collection{}
	}
	if err := d.Put(ctx, sc, table, types.SingletonID, c); err != nil {
		logger.From(ctx).Warn("put collection failed",
			logger.Layer("store"), logger.Table(table), logger.Schema(sc.Name), logger.Err(err))
		return false
	}
	return true
}

// GetToken lee un TokenRecord por id. ErrNotFound si no existe.
func GetToken(ctx context.Context, d Driver, sc schema.Schema, id string) (types.TokenRecord, error) {
	var t types.TokenRecord
	raw, err := d.Get(ctx, sc, types.TableTokens, id)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, err
	}
	return t, nil
}

// PutToken upserta un TokenRecord.
func PutToken(ctx context.Context, d Driver, sc schema.Schema, id string, t types.TokenRecord) error {
	return d.Put(ctx, sc, types.TableTokens, id, t)
}

// ListSMSTokens retorna los códigos SMS vigentes o no de un teléfono,
// buscando por prefijo de id sobre la tabla compartida de tokens.
func ListSMSTokens(ctx context.Context, d Driver, sc schema.Schema, digits string) (map[string]types.TokenRecord, error) {
	recs, err := d.ListByIDPrefix(ctx, sc, types.TableTokens, types.SMSTokenPrefix(digits))
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.TokenRecord, len(recs))
	for _, r := range recs {
		var t types.TokenRecord
		if err := json.Unmarshal(r.Data, &t); err != nil {
			// fila rota: se saltea, no rompe la verificación de las demás
			continue
		}
		out[r.ID] = t
	}
	return out, nil
}
