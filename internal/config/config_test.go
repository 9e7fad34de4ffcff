package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr=%q", c.Server.Addr)
	}
	if c.Rate.Login.Limit != 5 || c.LoginWindow() != time.Minute {
		t.Fatalf("login rate: %d/%v", c.Rate.Login.Limit, c.LoginWindow())
	}
	if c.Rate.SMS.Limit != 3 || c.SMSWindow() != time.Hour {
		t.Fatalf("sms rate: %d/%v", c.Rate.SMS.Limit, c.SMSWindow())
	}
	if c.Store.Driver != "postgrest" {
		t.Fatalf("driver=%q", c.Store.Driver)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9999"
store:
  postgrest:
    url: "https://from-yaml.supabase.co"
rate:
  login:
    limit: 10
    window: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	// El entorno pisa al YAML
	t.Setenv("SUPABASE_URL", "https://from-env.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "sk-test")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("addr=%q", c.Server.Addr)
	}
	if c.Store.PostgREST.URL != "https://from-env.supabase.co" {
		t.Fatalf("url=%q (env debe pisar yaml)", c.Store.PostgREST.URL)
	}
	if c.Store.PostgREST.ServiceKey != "sk-test" {
		t.Fatalf("service key=%q", c.Store.PostgREST.ServiceKey)
	}
	if c.Rate.Login.Limit != 10 || c.LoginWindow() != 2*time.Minute {
		t.Fatalf("login rate: %d/%v", c.Rate.Login.Limit, c.LoginWindow())
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("rate:\n  login:\n    window: nonsense\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err != nil {
		t.Fatalf("missing file should fall back to env/defaults: %v", err)
	}
}
