package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store"
)

var (
	devSC    = schema.Schema{Name: schema.Dev, APIKey: "anon-key"}
	publicSC = schema.Schema{Name: schema.Public, APIKey: "service-key"}
)

func TestGet_FoundExtractsDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/camp_parents" {
			t.Errorf("path=%q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "eq.main" {
			t.Errorf("id filter=%q", got)
		}
		if got := r.Header.Get("apikey"); got != "service-key" {
			t.Errorf("apikey=%q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-key" {
			t.Errorf("authorization=%q", got)
		}
		// public es el schema default: no viaja Accept-Profile
		if got := r.Header.Get("Accept-Profile"); got != "" {
			t.Errorf("unexpected Accept-Profile=%q", got)
		}
		io.WriteString(w, `[{"data":[{"email":"mom@example.com"}]}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	raw, err := c.Get(context.Background(), publicSC, "camp_parents", "main")
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["email"] != "mom@example.com" {
		t.Fatalf("unexpected payload: %s", raw)
	}
}

func TestGet_EmptyResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.Get(context.Background(), publicSC, "auth_tokens", "deadbeef")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err=%v want store.ErrNotFound", err)
	}
}

func TestGet_DevSchemaSendsAcceptProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Profile"); got != "dev" {
			t.Errorf("Accept-Profile=%q want dev", got)
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, _ = c.Get(context.Background(), devSC, "camp_parents", "main")
}

func TestPut_UpsertShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%q", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "resolution=merge-duplicates,return=minimal" {
			t.Errorf("Prefer=%q", got)
		}
		if got := r.Header.Get("Content-Profile"); got != "dev" {
			t.Errorf("Content-Profile=%q want dev", got)
		}
		b, _ := io.ReadAll(r.Body)
		var rows []map[string]any
		if err := json.Unmarshal(b, &rows); err != nil || len(rows) != 1 || rows[0]["id"] != "main" {
			t.Errorf("body=%s", b)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	err := c.Put(context.Background(), devSC, "camp_parents", "main", []map[string]any{{"email": "a@b.com"}})
	if err != nil {
		t.Fatal(err)
	}
}

func TestPut_ErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"duplicate key"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	err := c.Put(context.Background(), publicSC, "rate_limits", "k", map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestListByIDPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "like.sms_5551234567_*" {
			t.Errorf("id filter=%q", got)
		}
		io.WriteString(w, `[{"id":"sms_5551234567_1700000000000","data":{"code":"123456"}}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	recs, err := c.ListByIDPrefix(context.Background(), publicSC, "auth_tokens", "sms_5551234567_")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != "sms_5551234567_1700000000000" {
		t.Fatalf("recs=%v", recs)
	}
}
