package schema

import (
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	rs := Resolver{AnonKey: "anon", ServiceKey: "service"}

	cases := []struct {
		name    string
		origin  string
		referer string
		want    string
		wantKey string
	}{
		{"localhost es dev", "http://localhost:3000", "", Dev, "anon"},
		{"loopback es dev", "http://127.0.0.1:5500", "", Dev, "anon"},
		{"github pages es dev", "https://fastbreakhq.github.io", "", Dev, "anon"},
		{"dominio productivo", "https://camp.fastbreakhq.com", "", Public, "service"},
		{"sin headers cae a public", "", "", Public, "service"},
		{"referer como fallback", "", "http://localhost:3000/login", Dev, "anon"},
		{"case insensitive", "https://FASTBREAKHQ.GITHUB.IO", "", Dev, "anon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/login", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if tc.referer != "" {
				r.Header.Set("Referer", tc.referer)
			}
			sc := rs.Resolve(r)
			if sc.Name != tc.want {
				t.Fatalf("name=%q want %q", sc.Name, tc.want)
			}
			if sc.APIKey != tc.wantKey {
				t.Fatalf("apikey=%q want %q", sc.APIKey, tc.wantKey)
			}
		})
	}
}

func TestResolve_OriginWinsOverReferer(t *testing.T) {
	rs := Resolver{AnonKey: "anon", ServiceKey: "service"}
	r := httptest.NewRequest("POST", "/api/login", nil)
	r.Header.Set("Origin", "https://camp.fastbreakhq.com")
	r.Header.Set("Referer", "http://localhost:3000/")

	if sc := rs.Resolve(r); sc.IsDev() {
		t.Fatalf("Origin presente debe decidir: got %q", sc.Name)
	}
}
