package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
// Se carga desde YAML y se pisa con variables de entorno (ver ApplyEnv).
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// PublicSiteURL se usa para armar los links de reset de password.
		PublicSiteURL string `yaml:"public_site_url"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Store struct {
		// postgrest | pg
		Driver    string `yaml:"driver"`
		PostgREST struct {
			URL        string `yaml:"url"`
			AnonKey    string `yaml:"anon_key"`    // credencial low-privilege (namespace dev)
			ServiceKey string `yaml:"service_key"` // credencial high-privilege (namespace public)
		} `yaml:"postgrest"`
		PG struct {
			DSN          string `yaml:"dsn"`
			MaxOpenConns int    `yaml:"max_open_conns"`
		} `yaml:"pg"`
	} `yaml:"store"`

	Rate struct {
		// store | memory | redis
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Login struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		SMS struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"sms"`
	} `yaml:"rate"`

	Session struct {
		// Secret firma el token de sesión HS256 devuelto en login/verify-code.
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
	} `yaml:"session"`

	Email struct {
		// smtp | api
		Driver string `yaml:"driver"`
		From   string `yaml:"from"`
		SMTP   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username"`
			Password string `yaml:"password"`
			TLS      string `yaml:"tls"` // auto | starttls | ssl | none
		} `yaml:"smtp"`
		API struct {
			BaseURL string `yaml:"base_url"`
			Key     string `yaml:"key"`
		} `yaml:"api"`
	} `yaml:"email"`

	SMS struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
		BaseURL    string `yaml:"base_url"` // override para tests; vacío = endpoint real
	} `yaml:"sms"`
}

// Load lee el YAML en path. Si path es vacío o el archivo no existe,
// arranca de una config vacía (todo por env). Siempre aplica defaults y env.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	c.ApplyEnv()

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "postgrest"
	}
	if c.Store.PG.MaxOpenConns == 0 {
		c.Store.PG.MaxOpenConns = 8
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "store"
	}
	if c.Rate.Redis.Prefix == "" {
		c.Rate.Redis.Prefix = "rl:"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 5
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.SMS.Limit == 0 {
		c.Rate.SMS.Limit = 3
	}
	if c.Rate.SMS.Window == "" {
		c.Rate.SMS.Window = "1h"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "24h"
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "smtp"
	}
	if c.Email.SMTP.TLS == "" {
		c.Email.SMTP.TLS = "auto"
	}

	// validate string durations
	for _, d := range []string{c.Rate.Login.Window, c.Rate.SMS.Window, c.Session.TTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("config: invalid duration %q: %w", d, err)
		}
	}
	return &c, nil
}

// ApplyEnv pisa la config con variables de entorno si están presentes.
// Los secrets (keys, tokens) normalmente vienen por acá, no por YAML.
func (c *Config) ApplyEnv() {
	setStr(&c.App.Env, "APP_ENV")
	setStr(&c.Server.Addr, "SERVER_ADDR")
	setStr(&c.Server.PublicSiteURL, "PUBLIC_SITE_URL")
	if v := getenv("SERVER_CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = splitCSV(v)
	}
	setStr(&c.Log.Level, "LOG_LEVEL")

	setStr(&c.Store.Driver, "STORE_DRIVER")
	setStr(&c.Store.PostgREST.URL, "SUPABASE_URL")
	setStr(&c.Store.PostgREST.AnonKey, "SUPABASE_ANON_KEY")
	setStr(&c.Store.PostgREST.ServiceKey, "SUPABASE_SERVICE_KEY")
	setStr(&c.Store.PG.DSN, "PG_DSN")

	setStr(&c.Rate.Backend, "RATE_BACKEND")
	setStr(&c.Rate.Redis.Addr, "RATE_REDIS_ADDR")
	setInt(&c.Rate.Redis.DB, "RATE_REDIS_DB")

	setStr(&c.Session.Secret, "SESSION_SECRET")

	setStr(&c.Email.Driver, "EMAIL_DRIVER")
	setStr(&c.Email.From, "EMAIL_FROM")
	setStr(&c.Email.SMTP.Host, "SMTP_HOST")
	setInt(&c.Email.SMTP.Port, "SMTP_PORT")
	setStr(&c.Email.SMTP.Username, "SMTP_USERNAME")
	setStr(&c.Email.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.Email.API.BaseURL, "EMAIL_API_BASE_URL")
	setStr(&c.Email.API.Key, "EMAIL_API_KEY")

	setStr(&c.SMS.AccountSID, "SMS_ACCOUNT_SID")
	setStr(&c.SMS.AuthToken, "SMS_AUTH_TOKEN")
	setStr(&c.SMS.FromNumber, "SMS_FROM_NUMBER")
	setStr(&c.SMS.BaseURL, "SMS_BASE_URL")
}

// LoginWindow retorna la ventana de rate limit de login ya parseada.
func (c *Config) LoginWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Login.Window)
	return d
}

// SMSWindow retorna la ventana de rate limit de SMS ya parseada.
func (c *Config) SMSWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.SMS.Window)
	return d
}

// SessionTTL retorna el TTL del token de sesión ya parseado.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setStr(dst *string, key string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
