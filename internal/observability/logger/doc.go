// Package logger provee un logger zap singleton para todo el servicio.
//
// Uso:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Op("LoginService.Login"))
//	log.Info("login successful", logger.Email(email))
//
// Los middlewares HTTP inyectan un logger scoped (request_id, method, path)
// en el contexto; From(ctx) lo recupera o cae al singleton.
package logger
