// campauth es el servicio de autenticación de los dashboards del campamento.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fastbreakhq/campauth/internal/config"
	"github.com/fastbreakhq/campauth/internal/email"
	"github.com/fastbreakhq/campauth/internal/http/helpers"
	"github.com/fastbreakhq/campauth/internal/http/middlewares"
	"github.com/fastbreakhq/campauth/internal/http/router"
	"github.com/fastbreakhq/campauth/internal/metrics"
	"github.com/fastbreakhq/campauth/internal/observability/logger"
	"github.com/fastbreakhq/campauth/internal/rate"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/session"
	"github.com/fastbreakhq/campauth/internal/sms"
	"github.com/fastbreakhq/campauth/internal/store"
	"github.com/fastbreakhq/campauth/internal/store/pg"
	"github.com/fastbreakhq/campauth/internal/store/postgrest"
	migrations "github.com/fastbreakhq/campauth/migrations/postgres"

	authctrl "github.com/fastbreakhq/campauth/internal/http/controllers/auth"
	healthctrl "github.com/fastbreakhq/campauth/internal/http/controllers/health"
	authsvc "github.com/fastbreakhq/campauth/internal/http/services/auth"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "campauth",
		Short:         "Servicio de autenticación del campamento",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", envOr("CAMPAUTH_CONFIG", "config.yaml"), "Path al YAML de configuración")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL (solo store driver pg)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), configPath)
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	root.RunE = serveCmd.RunE // sin subcomando, servir

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serve(configPath string) error {
	// .env es opcional; en producción todo viene del entorno
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "campauth",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Paso 1: Store
	var driver store.Driver
	switch cfg.Store.Driver {
	case "pg":
		st, err := pg.New(ctx, cfg.Store.PG.DSN, cfg.Store.PG.MaxOpenConns)
		if err != nil {
			return fmt.Errorf("store pg: %w", err)
		}
		defer st.Close()
		driver = st
	case "postgrest":
		driver = postgrest.New(cfg.Store.PostgREST.URL, &http.Client{Timeout: 10 * time.Second})
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	resolver := schema.Resolver{
		AnonKey:    cfg.Store.PostgREST.AnonKey,
		ServiceKey: cfg.Store.PostgREST.ServiceKey,
	}

	// Paso 2: Rate limiter
	var limiter rate.Limiter
	switch cfg.Rate.Backend {
	case "memory":
		limiter = rate.NewMemoryLimiter()
	case "redis":
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Rate.Redis.Addr, DB: cfg.Rate.Redis.DB})
		defer func() { _ = client.Close() }()
		limiter = rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix)
	case "store":
		limiter = rate.NewStoreLimiter(driver)
	default:
		return fmt.Errorf("unknown rate backend %q", cfg.Rate.Backend)
	}

	// Paso 3: Proveedores externos
	var sender email.Sender
	switch cfg.Email.Driver {
	case "api":
		sender = email.NewAPISender(cfg.Email.API.BaseURL, cfg.Email.API.Key, cfg.Email.From)
	case "smtp":
		s := email.NewSMTPSender(cfg.Email.SMTP.Host, cfg.Email.SMTP.Port, cfg.Email.From, cfg.Email.SMTP.Username, cfg.Email.SMTP.Password)
		s.TLSMode = cfg.Email.SMTP.TLS
		sender = s
	default:
		return fmt.Errorf("unknown email driver %q", cfg.Email.Driver)
	}

	smsClient := sms.New(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber, cfg.SMS.BaseURL)
	issuer := session.NewIssuer(cfg.Session.Secret, cfg.SessionTTL())

	if err := metrics.Register(nil); err != nil {
		log.Warn("metrics registration failed", logger.Err(err))
	}

	// Paso 4: Wiring de services y controllers
	services := authctrl.Services{
		Login:  authsvc.NewLoginService(authsvc.LoginDeps{Store: driver, Issuer: issuer}),
		Signup: authsvc.NewSignupService(authsvc.SignupDeps{Store: driver}),
		SMSCode: authsvc.NewSMSCodeService(authsvc.SMSCodeDeps{
			Store:  driver,
			SMS:    smsClient,
			Issuer: issuer,
		}),
		Reset: authsvc.NewResetService(authsvc.ResetDeps{
			Store:         driver,
			Email:         sender,
			PublicSiteURL: cfg.Server.PublicSiteURL,
		}),
	}
	env := authctrl.Env{
		Resolver:  resolver,
		Limiter:   limiter,
		LoginRate: helpers.RateConfig{Limit: cfg.Rate.Login.Limit, Window: cfg.LoginWindow()},
		SMSRate:   helpers.RateConfig{Limit: cfg.Rate.SMS.Limit, Window: cfg.SMSWindow()},
	}

	handler := router.New(router.Deps{
		Auth:   authctrl.NewControllers(env, services),
		Health: healthctrl.NewController(driver),
	})
	handler = middlewares.Chain(handler,
		middlewares.WithCORS(cfg.Server.CORSAllowedOrigins),
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Paso 5: Servir hasta señal y apagar ordenado
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr), logger.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	return g.Wait()
}

// migrate aplica los .sql embebidos en orden de nombre contra el Postgres
// configurado. Idempotente: los scripts usan IF NOT EXISTS.
func migrate(ctx context.Context, configPath string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Store.PG.DSN == "" {
		return errors.New("migrate requiere store.pg.dsn (o PG_DSN)")
	}

	st, err := pg.New(ctx, cfg.Store.PG.DSN, 1)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return err
		}
		if err := st.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migración %s: %w", name, err)
		}
		fmt.Println("applied", name)
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
