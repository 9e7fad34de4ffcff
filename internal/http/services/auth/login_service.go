package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/security/password"
	"github.com/fastbreakhq/campauth/internal/session"
	"github.com/fastbreakhq/campauth/internal/store"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
)

// LoginDeps contiene las dependencias para el login service.
type LoginDeps struct {
	Store  store.Driver
	Issuer *session.Issuer // nil = sin session token
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService crea un nuevo servicio de login.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

// Errores de login
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)

// loginTables se recorre en orden fijo; el primer match gana.
var loginTables = []string{types.TableAdmins, types.TableParents, types.TableCounselors}

func (s *loginService) LoginPassword(ctx context.Context, sc schema.Schema, in dto.LoginRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginPassword"),
		logger.Schema(sc.Name),
	)

	// Paso 0: Normalización
	in.Sanitize()
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	// Paso 1: Buscar el usuario en las tres colecciones, en orden.
	// Los admins pueden loguearse también por username.
	for _, table := range loginTables {
		users := store.FetchCollection(ctx, s.deps.Store, sc, table)

		var idx int
		if table == types.TableAdmins {
			idx = users.FindByIdentifier(in.Email)
		} else {
			idx = users.FindByEmail(in.Email)
		}
		if idx < 0 {
			continue
		}
		user := users[idx]

		role := types.RoleForTable(table)
		log = log.With(logger.Table(table), logger.Role(string(role)))

		// Paso 2: Verificar credencial (hash bcrypt o password legacy)
		cred := password.CredentialOf(user)
		if !cred.Matches(in.Password) {
			log.Debug("password check failed")
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}

		// Paso 3: Registrar el método de login (best effort, fuera del request)
		if role != types.RoleAdmin {
			go s.recordLogin(context.WithoutCancel(ctx), sc, table, user)
		}

		// Paso 4: Session token (opcional)
		var token string
		if s.deps.Issuer != nil {
			var err error
			token, err = s.deps.Issuer.Issue(user.Email(), user.Name(), role)
			if err != nil {
				log.Warn("failed to issue session token", logger.Err(err))
			}
		}

		log.Info("login successful")
		metrics.LoginAttempts.WithLabelValues("success").Inc()

		return &dto.LoginResult{
			User:         user.Sanitized(),
			Role:         role,
			SessionToken: token,
		}, nil
	}

	log.Debug("user not found")
	metrics.LoginAttempts.WithLabelValues("failure").Inc()
	return nil, ErrInvalidCredentials
}

// recordLogin reescribe el documento completo con lastLoginMethod y
// lastLoginAt actualizados. Última escritura gana; si dos requests se
// cruzan, se pierde una actualización y no pasa nada grave.
func (s *loginService) recordLogin(ctx context.Context, sc schema.Schema, table string, user types.UserRecord) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("recordLogin"),
		logger.Table(table),
	)

	users := store.FetchCollection(ctx, s.deps.Store, sc, table)
	idx := users.FindByEmail(user.Email())
	if idx < 0 {
		return
	}
	users[idx][types.FieldLastLoginMethod] = "password"
	users[idx][types.FieldLastLoginAt] = time.Now().UTC().Format(time.RFC3339)
	if !store.PutCollection(ctx, s.deps.Store, sc, table, users) {
		log.Warn("failed to record login method")
	}
}
