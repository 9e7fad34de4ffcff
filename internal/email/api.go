package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fastbreakhq/campauth/internal/observability/logger"
)

const defaultAPIBaseURL = "https://api.resend.com"

// APISender implementa Sender contra una API HTTP de email transaccional
// (compatible con Resend: POST /emails con Bearer key).
type APISender struct {
	BaseURL string
	Key     string
	From    string
	HTTP    *http.Client
}

// NewAPISender crea un APISender. baseURL vacío usa el endpoint real.
func NewAPISender(baseURL, key, from string) *APISender {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &APISender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		From:    from,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Send implementa Sender.
func (s *APISender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log := logger.From(ctx).With(logger.Component("email.api"), logger.String("to", to))

	payload, err := json.Marshal(map[string]any{
		"from":    s.From,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
		"text":    textBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		log.Error("email api request failed", logger.Err(err))
		return fmt.Errorf("email api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error("email api rejected message", logger.Int("status", resp.StatusCode))
		return fmt.Errorf("email api: status %d: %s", resp.StatusCode, string(b))
	}
	log.Info("email sent")
	return nil
}
