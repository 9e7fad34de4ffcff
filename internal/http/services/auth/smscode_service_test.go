package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/sms"
	"github.com/fastbreakhq/campauth/internal/store/storetest"
)

type fakeSMS struct {
	sent []string // bodies
	to   []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return nil
}

var codeRe = regexp.MustCompile(`\b(\d{6})\b`)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(555) 123-4567":  "5551234567",
		"555.123.4567":    "5551234567",
		"+1 555 123 4567": "5551234567", // el 1 de país se descarta
		"15551234567":     "5551234567",
		"555-1234":        "", // muy corto
		"+44 20 7946 0958": "",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q)=%q want %q", in, got, want)
		}
	}
}

func TestSendCode_UnknownPhoneSilentSuccess(t *testing.T) {
	fake := storetest.NewFake()
	provider := &fakeSMS{}
	svc := NewSMSCodeService(SMSCodeDeps{Store: fake, SMS: provider})

	err := svc.SendCode(context.Background(), testSchema, "555-999-0000")
	require.NoError(t, err, "unknown phone must look like success")
	require.Empty(t, provider.sent, "no SMS for unknown phones")
	require.Zero(t, fake.PutCalls, "no token stored for unknown phones")
}

func TestSendCode_KnownPhone(t *testing.T) {
	fake := storetest.NewFake()
	seedCollection(fake, types.TableParents, types.UserRecord{
		"email":     "mom@example.com",
		"name":      "Sam",
		"phone":     "(555) 123-4567",
		"loginType": "sms",
	})
	provider := &fakeSMS{}
	svc := NewSMSCodeService(SMSCodeDeps{Store: fake, SMS: provider})

	require.NoError(t, svc.SendCode(context.Background(), testSchema, "5551234567"))
	require.Len(t, provider.sent, 1)
	require.Regexp(t, codeRe, provider.sent[0])

	// El token quedó persistido bajo el prefijo del teléfono
	recs, err := fake.ListByIDPrefix(context.Background(), testSchema, types.TableTokens, types.SMSTokenPrefix("5551234567"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestSendCode_ProviderErrorSurfaces(t *testing.T) {
	fake := storetest.NewFake()
	seedCollection(fake, types.TableParents, types.UserRecord{
		"email": "mom@example.com",
		"phone": "5551234567",
	})
	provider := &fakeSMS{err: &sms.ProviderError{Status: 400, Message: "The 'To' number is not a valid phone number."}}
	svc := NewSMSCodeService(SMSCodeDeps{Store: fake, SMS: provider})

	err := svc.SendCode(context.Background(), testSchema, "5551234567")
	var perr *sms.ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "The 'To' number is not a valid phone number.", perr.Message)
}

func TestVerifyCode_FullFlow(t *testing.T) {
	fake := storetest.NewFake()
	seedCollection(fake, types.TableCounselors, types.UserRecord{
		"email":     "jo@example.com",
		"name":      "Jo",
		"phone":     "555 123 4567",
		"loginType": "sms",
	})
	provider := &fakeSMS{}
	svc := NewSMSCodeService(SMSCodeDeps{Store: fake, SMS: provider})
	ctx := context.Background()

	require.NoError(t, svc.SendCode(ctx, testSchema, "(555) 123-4567"))
	code := codeRe.FindString(provider.sent[0])
	require.NotEmpty(t, code)

	res, err := svc.VerifyCode(ctx, testSchema, "5551234567", code)
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", res.Email)
	require.Equal(t, "Jo", res.Name)
	require.Equal(t, string(types.RoleCounselor), res.UserType)
	require.Equal(t, "sms", res.LoginType)

	// Single use: el mismo código no entra dos veces
	_, err = svc.VerifyCode(ctx, testSchema, "5551234567", code)
	require.ErrorIs(t, err, ErrCodeInvalid)
}

func TestVerifyCode_ExpiredVsInvalid(t *testing.T) {
	fake := storetest.NewFake()
	svc := NewSMSCodeService(SMSCodeDeps{Store: fake, SMS: &fakeSMS{}})
	ctx := context.Background()

	issued := time.Now().Add(-20 * time.Minute)
	fake.Seed(testSchema, types.TableTokens, types.SMSTokenID("5551234567", issued), types.TokenRecord{
		Phone:     "5551234567",
		Code:      "123456",
		Email:     "mom@example.com",
		ExpiresAt: issued.Add(10 * time.Minute).UnixMilli(),
	})

	// Código correcto pero vencido: error específico
	_, err := svc.VerifyCode(ctx, testSchema, "5551234567", "123456")
	require.ErrorIs(t, err, ErrCodeExpired)

	// Código que nunca existió: inválido genérico
	_, err = svc.VerifyCode(ctx, testSchema, "5551234567", "654321")
	require.ErrorIs(t, err, ErrCodeInvalid)
}

func TestVerifyCode_InvalidPhone(t *testing.T) {
	svc := NewSMSCodeService(SMSCodeDeps{Store: storetest.NewFake(), SMS: &fakeSMS{}})
	_, err := svc.VerifyCode(context.Background(), testSchema, "12345", "123456")
	require.ErrorIs(t, err, ErrInvalidPhone)
}
