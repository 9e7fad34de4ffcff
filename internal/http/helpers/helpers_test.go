package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP_Precedence(t *testing.T) {
	mk := func(hdrs map[string]string) *http.Request {
		r := httptest.NewRequest("POST", "/", nil)
		for k, v := range hdrs {
			r.Header.Set(k, v)
		}
		return r
	}

	// XFF gana, y solo el primer valor de la cadena
	r := mk(map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
		"X-Real-IP":       "198.51.100.1",
	})
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Fatalf("got %q", got)
	}

	if got := ClientIP(mk(map[string]string{"X-Real-IP": "198.51.100.1"})); got != "198.51.100.1" {
		t.Fatalf("got %q", got)
	}
	if got := ClientIP(mk(map[string]string{"Client-IP": "192.0.2.7"})); got != "192.0.2.7" {
		t.Fatalf("got %q", got)
	}
	if got := ClientIP(mk(nil)); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}

func TestHumanDuration(t *testing.T) {
	cases := map[int]string{
		1:   "1 second",
		45:  "45 seconds",
		119: "119 seconds",
		120: "2 minutes",
		121: "3 minutes", // redondeo hacia arriba
		600: "10 minutes",
	}
	for secs, want := range cases {
		if got := humanDuration(secs); got != want {
			t.Fatalf("humanDuration(%d)=%q want %q", secs, got, want)
		}
	}
}

func TestWriteError_Shapes(t *testing.T) {
	// HTTPError conocido conserva el status
	w := httptest.NewRecorder()
	WriteError(w, NewHTTPError(http.StatusConflict, "already exists"))
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "already exists" {
		t.Fatalf("body=%v", body)
	}

	// Error desconocido: 500 con el mensaje del error, como el catch global
	w = httptest.NewRecorder()
	WriteError(w, errors.New("boom"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "boom" {
		t.Fatalf("body=%v", body)
	}
}

func TestWriteSuccess_AlwaysIncludesFlag(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]any{"role": "parent"})

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true || body["role"] != "parent" {
		t.Fatalf("body=%v", body)
	}
}
