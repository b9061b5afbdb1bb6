// Package httpserver wraps net/http with graceful shutdown, env-driven
// timeouts, and health check handlers.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil { ... }
//
// Run blocks until the context is canceled, SIGINT/SIGTERM arrives, or the
// listener fails; in-flight requests get ShutdownTimeout to finish.
package httpserver
