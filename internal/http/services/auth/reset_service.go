package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/email"
	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/security/password"
	tokens "github.com/fastbreakhq/campauth/internal/security/token"
	"github.com/fastbreakhq/campauth/internal/store"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
)

// ResetDeps contiene las dependencias para el servicio de reset.
type ResetDeps struct {
	Store         store.Driver
	Email         email.Sender
	PublicSiteURL string        // base del link de reset
	TokenTTL      time.Duration // 0 = DefaultResetTTL
}

// DefaultResetTTL es la vigencia de un link de reset.
const DefaultResetTTL = time.Hour

type resetService struct {
	deps ResetDeps
}

// NewResetService crea un nuevo servicio de reset de password.
func NewResetService(deps ResetDeps) ResetService {
	if deps.TokenTTL <= 0 {
		deps.TokenTTL = DefaultResetTTL
	}
	return &resetService{deps: deps}
}

// Errores de reset
var (
	ErrResetInvalid = fmt.Errorf("invalid reset token")
	ErrResetUsed    = fmt.Errorf("reset token already used")
	ErrResetExpired = fmt.Errorf("reset token expired")
	ErrEmailSend    = fmt.Errorf("failed to send reset email")
)

func (s *resetService) RequestReset(ctx context.Context, sc schema.Schema, emailAddr string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.reset"),
		logger.Op("RequestReset"),
		logger.Schema(sc.Name),
	)

	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return ErrMissingFields
	}

	// Paso 1: Buscar al dueño del email en padres y counselors. Si no
	// existe, respondemos igual que en el caso feliz.
	user, table := s.findByEmail(ctx, sc, emailAddr)
	if user == nil {
		log.Info("reset requested for unknown email")
		return nil
	}

	// Paso 2: Emitir el token y persistirlo con su vencimiento
	token, err := tokens.GenerateResetToken()
	if err != nil {
		log.Error("failed to generate reset token", logger.Err(err))
		return err
	}

	now := time.Now().UTC()
	rec := types.TokenRecord{
		Email:     emailAddr,
		UserType:  string(types.RoleForTable(table)),
		ExpiresAt: now.Add(s.deps.TokenTTL).UnixMilli(),
	}
	if err := store.PutToken(ctx, s.deps.Store, sc, token, rec); err != nil {
		log.Error("failed to persist reset token", logger.Err(err))
		return err
	}

	// Paso 3: Mandar el email con el link
	link := strings.TrimRight(s.deps.PublicSiteURL, "/") + "/reset-password?token=" + token
	vars := email.ResetVars{
		Name: user.Name(),
		Link: link,
		TTL:  ttlPhrase(s.deps.TokenTTL),
	}
	htmlBody, textBody, err := email.RenderReset(vars)
	if err != nil {
		log.Error("failed to render reset email", logger.Err(err))
		return ErrEmailSend
	}
	if err := s.deps.Email.Send(ctx, emailAddr, "Reset your password", htmlBody, textBody); err != nil {
		log.Error("reset email delivery failed", logger.Err(err))
		metrics.EmailsSent.WithLabelValues("failure").Inc()
		return ErrEmailSend
	}

	log.Info("reset email sent", logger.Table(table))
	metrics.EmailsSent.WithLabelValues("success").Inc()
	return nil
}

func (s *resetService) ConsumeReset(ctx context.Context, sc schema.Schema, token, newPassword string) (*dto.ResetResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.reset"),
		logger.Op("ConsumeReset"),
		logger.Schema(sc.Name),
	)

	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return nil, ErrMissingFields
	}
	if len(newPassword) < password.MinLength {
		return nil, ErrWeakPassword
	}

	// Paso 1: Levantar el token y validar su estado
	rec, err := store.GetToken(ctx, s.deps.Store, sc, token)
	if err != nil {
		log.Info("reset token not found")
		return nil, ErrResetInvalid
	}
	if rec.Used {
		log.Info("reset token reuse attempt")
		return nil, ErrResetUsed
	}
	if rec.Expired(time.Now().UTC()) {
		log.Info("reset token expired")
		return nil, ErrResetExpired
	}

	table := types.TableForRole(types.Role(rec.UserType))
	if table == "" {
		log.Warn("reset token with unknown user type", logger.String("userType", rec.UserType))
		return nil, ErrResetInvalid
	}

	// Paso 2: Escribir el password nuevo. Los dashboards esperan el campo
	// plano, así que se escribe ahí y se descarta cualquier hash previo.
	users := store.FetchCollection(ctx, s.deps.Store, sc, table)
	idx := users.FindByEmail(rec.Email)
	if idx < 0 {
		log.Warn("reset token for missing user", logger.Table(table))
		return nil, ErrResetInvalid
	}
	users[idx][types.FieldPassword] = newPassword
	delete(users[idx], types.FieldPasswordHash)
	if !store.PutCollection(ctx, s.deps.Store, sc, table, users) {
		return nil, ErrStoreWrite
	}

	// Paso 3: Single use, quemar el token
	rec.Used = true
	if err := store.PutToken(ctx, s.deps.Store, sc, token, rec); err != nil {
		log.Error("failed to mark reset token as used", logger.Err(err))
		return nil, err
	}

	log.Info("password reset completed", logger.Table(table))
	return &dto.ResetResult{
		Email:    rec.Email,
		Name:     users[idx].Name(),
		UserType: rec.UserType,
	}, nil
}

// ttlPhrase formatea la vigencia para el texto del email ("1 hour",
// "30 minutes").
func ttlPhrase(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		if h := int(d / time.Hour); h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}

// findByEmail recorre las colecciones con reset habilitado. Los admins
// quedan afuera: sus passwords se gestionan desde el dashboard.
func (s *resetService) findByEmail(ctx context.Context, sc schema.Schema, emailAddr string) (types.UserRecord, string) {
	for _, table := range smsTables {
		users := store.FetchCollection(ctx, s.deps.Store, sc, table)
		if idx := users.FindByEmail(emailAddr); idx >= 0 {
			return users[idx], table
		}
	}
	return nil, ""
}
