package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/security/password"
	"github.com/fastbreakhq/campauth/internal/store"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
)

// SignupDeps contiene las dependencias para el signup service.
type SignupDeps struct {
	Store store.Driver
}

type signupService struct {
	deps SignupDeps
}

// NewSignupService crea un nuevo servicio de signup.
func NewSignupService(deps SignupDeps) SignupService {
	return &signupService{deps: deps}
}

// Errores de signup
var (
	ErrInvalidTable   = fmt.Errorf("invalid table")
	ErrInvalidEmail   = fmt.Errorf("invalid email")
	ErrWeakPassword   = fmt.Errorf("password too short")
	ErrDuplicateEmail = fmt.Errorf("email already registered")
	ErrStoreWrite     = fmt.Errorf("store write failed")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *signupService) Signup(ctx context.Context, sc schema.Schema, in dto.SignupRequest) (*dto.SignupResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("Signup"),
		logger.Schema(sc.Name),
	)

	// Paso 0: Validar tabla contra el allow-list ANTES de tocar el store
	if !types.IsCredentialTable(in.Table) {
		log.Warn("signup against unknown table", logger.Table(in.Table))
		return nil, ErrInvalidTable
	}
	log = log.With(logger.Table(in.Table))

	user := types.UserRecord(in.UserData)
	email := strings.ToLower(strings.TrimSpace(user.Email()))
	plain := user.LegacyPassword()

	// Paso 1: Validaciones de campos. El password es opcional (los
	// usuarios de login por SMS no tienen), pero si viene se valida.
	if email == "" || user.Name() == "" {
		return nil, ErrMissingFields
	}
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if plain != "" && len(plain) < password.MinLength {
		return nil, ErrWeakPassword
	}

	// Paso 2: Chequear duplicados contra la colección actual
	users := store.FetchCollection(ctx, s.deps.Store, sc, in.Table)
	if users.FindByEmail(email) >= 0 {
		log.Info("duplicate signup", logger.Email(email))
		return nil, ErrDuplicateEmail
	}

	// Paso 3: Hashear el password y completar el registro.
	// El plaintext no se persiste nunca en el alta.
	user[types.FieldEmail] = email
	if plain != "" {
		hash, err := password.Hash(plain)
		if err != nil {
			log.Error("failed to hash password", logger.Err(err))
			return nil, ErrStoreWrite
		}
		user[types.FieldPasswordHash] = hash
		delete(user, types.FieldPassword)
	}
	if user.ID() == "" {
		user[types.FieldID] = uuid.NewString()
	}
	if _, ok := user[types.FieldCreatedAt]; !ok {
		user[types.FieldCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	}

	// Paso 4: Reescribir el documento completo con el registro agregado
	users = append(users, user)
	if !store.PutCollection(ctx, s.deps.Store, sc, in.Table, users) {
		return nil, ErrStoreWrite
	}

	log.Info("signup successful", logger.Email(email))
	metrics.Signups.WithLabelValues(in.Table).Inc()

	return &dto.SignupResult{
		User: user.Sanitized(),
		Role: types.RoleForTable(in.Table),
	}, nil
}
