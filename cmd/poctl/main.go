package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"po-generator/internal/adapters/cli"
	"po-generator/internal/app"
	"po-generator/internal/config"
	"po-generator/internal/db"
	"po-generator/internal/logger"
	"po-generator/migrations"
)

// runtime opens the pool on first use and keeps it for the life of the
// command.
type runtime struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

func (r *runtime) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if r.pool != nil {
		return r.pool, nil
	}
	pool, err := db.NewPool(ctx, r.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	r.pool = pool
	return pool, nil
}

func (r *runtime) Service(ctx context.Context) (app.ApplicationService, error) {
	pool, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewFromPool(pool, r.cfg, r.log, nil), nil
}

func (r *runtime) Migrate(ctx context.Context) error {
	pool, err := r.connect(ctx)
	if err != nil {
		return err
	}
	return db.Migrate(ctx, pool, migrations.FS, r.log)
}

func (r *runtime) close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}
	// Command output goes to stdout; keep the log quiet unless asked.
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log, err := logger.Init(level, cfg.Server.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt := &runtime{cfg: cfg, log: log}
	defer rt.close()

	if err := cli.NewRootCommand(rt).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
