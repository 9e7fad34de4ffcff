package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithCORS_KnownOrigin(t *testing.T) {
	h := Chain(okHandler(), WithCORS([]string{"http://localhost:3000", "https://camp.example.com"}))

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.Header.Set("Origin", "https://camp.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://camp.example.com" {
		t.Fatalf("allow-origin=%q", got)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestWithCORS_UnknownOriginFallsBackToFirst(t *testing.T) {
	h := Chain(okHandler(), WithCORS([]string{"http://localhost:3000", "https://camp.example.com"}))

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.Header.Set("Origin", "https://evil.example.net")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	// Origen desconocido: el header responde el primero del allow-list,
	// nunca wildcard ni el origen del caller
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q want first allow-listed origin", got)
	}
}

func TestWithCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	h := Chain(inner, WithCORS([]string{"http://localhost:3000"}))

	r := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d want 204", w.Code)
	}
	if called {
		t.Fatal("preflight must not reach the router")
	}
}

func TestWithCORS_TrailingSlashNormalized(t *testing.T) {
	h := Chain(okHandler(), WithCORS([]string{"https://camp.example.com/"}))

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.Header.Set("Origin", "https://camp.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://camp.example.com" {
		t.Fatalf("allow-origin=%q", got)
	}
}
