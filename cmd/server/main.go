package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	webAdapter "po-generator/internal/adapters/web"
	"po-generator/internal/app"
	"po-generator/internal/config"
	"po-generator/internal/db"
	"po-generator/internal/logger"
	"po-generator/internal/metrics"
	"po-generator/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	m := metrics.New()
	svc := app.NewFromPool(pool, cfg, log, m)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		JWTSecret:        cfg.JWT.Secret,
		JWTTTL:           cfg.JWT.TTL,
		SecureCookie:     cfg.IsProduction(),
		RequireSignature: cfg.PDF.RequireSignature,
		Logger:           log,
		Metrics:          m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
}
