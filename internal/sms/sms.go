// Package sms envía los códigos de verificación por SMS via la API REST del
// proveedor (Twilio-style: Basic auth account_sid:auth_token, Message create
// form-encoded). No hay SDK en juego: es un POST con tres campos.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fastbreakhq/campauth/internal/observability/logger"
)

const defaultBaseURL = "https://api.twilio.com"

// Sender es la interfaz para despachar un SMS.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// ProviderError es una falla reportada por el proveedor. Se expone el
// mensaje crudo: este path NO esconde fallas (a diferencia del lookup de
// usuario, que es enumeration-resistant).
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("sms provider: status %d: %s", e.Status, e.Message)
}

// Client habla con la Messages API del proveedor.
type Client struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // override para tests
	HTTP       *http.Client
}

// New crea el cliente.
func New(accountSID, authToken, fromNumber, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		AccountSID: accountSID,
		AuthToken:  authToken,
		FromNumber: fromNumber,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: 15 * time.Second},
	}
}

// Send implementa Sender. to es un número de 10 dígitos; se envía en E.164.
func (c *Client) Send(ctx context.Context, to, body string) error {
	log := logger.From(ctx).With(logger.Component("sms"), logger.Phone(to))

	form := url.Values{}
	form.Set("To", "+1"+to)
	form.Set("From", c.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.BaseURL, url.PathEscape(c.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Error("sms request failed", logger.Err(err))
		return fmt.Errorf("sms provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := providerMessage(raw)
		log.Error("sms provider rejected message", logger.Int("status", resp.StatusCode), logger.String("provider_error", msg))
		return &ProviderError{Status: resp.StatusCode, Message: msg}
	}
	log.Info("sms sent")
	return nil
}

// providerMessage extrae el campo message del JSON de error del proveedor,
// cayendo al body crudo si no parsea.
func providerMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
