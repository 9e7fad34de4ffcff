package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/schema"
	tokens "github.com/fastbreakhq/campauth/internal/security/token"
	"github.com/fastbreakhq/campauth/internal/session"
	"github.com/fastbreakhq/campauth/internal/sms"
	"github.com/fastbreakhq/campauth/internal/store"

	dto "github.com/fastbreakhq/campauth/internal/http/dto/auth"
)

// SMSCodeDeps contiene las dependencias para el servicio de códigos SMS.
type SMSCodeDeps struct {
	Store   store.Driver
	SMS     sms.Sender
	Issuer  *session.Issuer // nil = sin session token
	CodeTTL time.Duration   // 0 = DefaultCodeTTL
}

// DefaultCodeTTL es la vigencia de un código de verificación.
const DefaultCodeTTL = 10 * time.Minute

type smsCodeService struct {
	deps SMSCodeDeps
}

// NewSMSCodeService crea un nuevo servicio de códigos SMS.
func NewSMSCodeService(deps SMSCodeDeps) SMSCodeService {
	if deps.CodeTTL <= 0 {
		deps.CodeTTL = DefaultCodeTTL
	}
	return &smsCodeService{deps: deps}
}

// Errores de verificación
var (
	ErrInvalidPhone = fmt.Errorf("invalid phone number")
	ErrCodeInvalid  = fmt.Errorf("invalid verification code")
	ErrCodeExpired  = fmt.Errorf("verification code expired")
)

// smsTables son las colecciones con login por teléfono, en orden de búsqueda.
var smsTables = []string{types.TableParents, types.TableCounselors}

// NormalizePhone reduce un teléfono a sus 10 dígitos locales: descarta
// todo lo que no sea dígito y el 1 de país si viene adelante.
// Retorna "" si el resultado no tiene exactamente 10 dígitos.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	return digits
}

func (s *smsCodeService) SendCode(ctx context.Context, sc schema.Schema, phone string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.sms"),
		logger.Op("SendCode"),
		logger.Schema(sc.Name),
	)

	// Paso 0: Normalización
	digits := NormalizePhone(phone)
	if digits == "" {
		return ErrInvalidPhone
	}

	// Paso 1: Buscar al dueño del teléfono. Si no existe, respondemos
	// igual que en el caso feliz: un atacante no puede enumerar teléfonos.
	user, table := s.findByPhone(ctx, sc, digits)
	if user == nil {
		log.Info("verification code requested for unknown phone")
		return nil
	}

	// Paso 2: Generar el código y persistirlo con su vencimiento
	code, err := tokens.GenerateSMSCode()
	if err != nil {
		log.Error("failed to generate code", logger.Err(err))
		return err
	}

	now := time.Now().UTC()
	rec := types.TokenRecord{
		Phone:     digits,
		Code:      code,
		Email:     user.Email(),
		Name:      user.Name(),
		UserType:  string(types.RoleForTable(table)),
		LoginType: user.LoginType(),
		ExpiresAt: now.Add(s.deps.CodeTTL).UnixMilli(),
	}
	id := types.SMSTokenID(digits, now)
	if err := store.PutToken(ctx, s.deps.Store, sc, id, rec); err != nil {
		log.Error("failed to persist verification code", logger.Err(err))
		return err
	}

	// Paso 3: Mandar el SMS. Un error del proveedor corta el flujo y
	// llega al cliente tal cual lo reportó el proveedor.
	body := fmt.Sprintf("Your verification code is: %s", code)
	if err := s.deps.SMS.Send(ctx, digits, body); err != nil {
		log.Error("sms delivery failed", logger.Err(err))
		metrics.SMSSent.WithLabelValues("failure").Inc()
		return err
	}

	log.Info("verification code sent", logger.Table(table))
	metrics.SMSSent.WithLabelValues("success").Inc()
	return nil
}

func (s *smsCodeService) VerifyCode(ctx context.Context, sc schema.Schema, phone, code string) (*dto.VerifyCodeResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.sms"),
		logger.Op("VerifyCode"),
		logger.Schema(sc.Name),
	)

	digits := NormalizePhone(phone)
	if digits == "" {
		return nil, ErrInvalidPhone
	}
	code = strings.TrimSpace(code)

	// Paso 1: Levantar los códigos pendientes de este teléfono
	pending, err := store.ListSMSTokens(ctx, s.deps.Store, sc, digits)
	if err != nil {
		log.Error("failed to list pending codes", logger.Err(err))
		return nil, err
	}

	// Paso 2: Buscar el código. Distinguimos vencido de inexistente para
	// que el cliente pueda pedir uno nuevo con un mensaje claro.
	now := time.Now().UTC()
	expired := false
	for id, rec := range pending {
		if rec.Used || rec.Code != code {
			continue
		}
		if rec.Expired(now) {
			expired = true
			continue
		}

		// Paso 3: Single use, marcar como usado antes de responder
		rec.Used = true
		if err := store.PutToken(ctx, s.deps.Store, sc, id, rec); err != nil {
			log.Error("failed to mark code as used", logger.Err(err))
			return nil, err
		}

		var token string
		if s.deps.Issuer != nil {
			var err error
			token, err = s.deps.Issuer.Issue(rec.Email, rec.Name, types.Role(rec.UserType))
			if err != nil {
				log.Warn("failed to issue session token", logger.Err(err))
			}
		}

		log.Info("verification code accepted")
		return &dto.VerifyCodeResult{
			Email:        rec.Email,
			Name:         rec.Name,
			UserType:     rec.UserType,
			LoginType:    rec.LoginType,
			SessionToken: token,
		}, nil
	}

	if expired {
		log.Info("verification code expired")
		return nil, ErrCodeExpired
	}
	log.Info("verification code rejected")
	return nil, ErrCodeInvalid
}

// findByPhone recorre las colecciones con login por teléfono y retorna el
// primer registro cuyo teléfono normalizado coincida, junto con su tabla.
func (s *smsCodeService) findByPhone(ctx context.Context, sc schema.Schema, digits string) (types.UserRecord, string) {
	for _, table := range smsTables {
		users := store.FetchCollection(ctx, s.deps.Store, sc, table)
		if idx := users.FindByPhone(digits, NormalizePhone); idx >= 0 {
			return users[idx], table
		}
	}
	return nil, ""
}
