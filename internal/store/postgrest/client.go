// Package postgrest implementa store.Driver contra la API REST de
// Supabase/PostgREST. El namespace (dev | public) se selecciona por request
// vía los headers Accept-Profile/Content-Profile; la credencial resuelta por
// el schema resolver viaja como apikey + Bearer.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store"
)

const defaultTimeout = 10 * time.Second

// Client es un driver HTTP fino sobre PostgREST.
type Client struct {
	baseURL string // ej: https://xyz.supabase.co
	http    *http.Client
}

// New crea un cliente. httpClient nil usa uno con timeout por defecto.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) endpoint(table string) string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(table)
}

func (c *Client) newRequest(ctx context.Context, sc schema.Schema, method, u string, body []byte) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", sc.APIKey)
	req.Header.Set("Authorization", "Bearer "+sc.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// PostgREST sirve el schema public por defecto; dev se pide explícito.
	if sc.IsDev() {
		if method == http.MethodGet || method == http.MethodHead {
			req.Header.Set("Accept-Profile", sc.Name)
		} else {
			req.Header.Set("Content-Profile", sc.Name)
		}
	}
	return req, nil
}

// Get implementa store.Driver.
func (c *Client) Get(ctx context.Context, sc schema.Schema, table, id string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "data")
	u := c.endpoint(table) + "?" + q.Encode()

	req, err := c.newRequest(ctx, sc, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postgrest: get %s/%s: status %d: %s", table, id, resp.StatusCode, truncate(b))
	}

	var rows []struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("postgrest: get %s/%s: %w", table, id, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0].Data, nil
}

// Put implementa store.Driver con un upsert (merge-duplicates sobre id).
func (c *Client) Put(ctx context.Context, sc schema.Schema, table, id string, data any) error {
	payload, err := json.Marshal([]map[string]any{{"id": id, "data": data}})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, sc, http.MethodPost, c.endpoint(table), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("postgrest: put %s/%s: status %d: %s", table, id, resp.StatusCode, truncate(b))
	}
	return nil
}

// ListByIDPrefix implementa store.Driver con un filtro like sobre id.
func (c *Client) ListByIDPrefix(ctx context.Context, sc schema.Schema, table, prefix string) ([]store.Record, error) {
	q := url.Values{}
	q.Set("id", "like."+prefix+"*")
	q.Set("select", "id,data")
	u := c.endpoint(table) + "?" + q.Encode()

	req, err := c.newRequest(ctx, sc, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postgrest: list %s: status %d: %s", table, resp.StatusCode, truncate(b))
	}

	var rows []store.Record
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("postgrest: list %s: %w", table, err)
	}
	return rows, nil
}

// Ping implementa store.Driver con un GET a la raíz del endpoint REST.
func (c *Client) Ping(ctx context.Context) error {
	sc := schema.Schema{Name: schema.Public}
	req, err := c.newRequest(ctx, sc, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Sin apikey el endpoint contesta 401; alcanza con que conteste.
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("postgrest: ping: status %d", resp.StatusCode)
	}
	return nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
