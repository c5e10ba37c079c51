package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/cfop/internal/config"
	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/ingest"
	"github.com/JonMunkholm/cfop/internal/logging"
	"github.com/JonMunkholm/cfop/internal/metrics"
	"github.com/JonMunkholm/cfop/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, nil)
	}

	service := core.NewService(core.ServiceOptions{
		MaxConcurrentLoads: cfg.Batch.MaxConcurrentLoads,
		LoadWait:           cfg.Batch.LoadWaitTime,
		LoadTimeout:        cfg.Batch.LoadTimeout,
		Observer:           collector,
	})
	slog.Info("tools registered", "count", service.Tools().Count())

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		pool, err = connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	reload := reloadSource(cfg, pool)
	if reload != nil && (reload.Kind == "dir" || cfg.Database.LoadOnStart) {
		if _, err := service.Load(ctx, reload.Kind, reload.Name, func(ctx context.Context) (core.Tables, int, error) {
			res, err := reload.Load(ctx)
			return res.Tables, res.WarningCount(), err
		}); err != nil {
			// The server still starts; clients can upload a batch.
			slog.Warn("initial batch load failed", "error", err)
		}
	}

	server := web.NewServer(cfg, service, web.Options{
		Metrics: collector,
		Reload:  reload,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connect opens and verifies the connection pool.
func connect(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(db.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// reloadSource picks the database when configured, else the batch directory.
func reloadSource(cfg *config.Config, pool *pgxpool.Pool) *web.ReloadSource {
	if pool != nil {
		tables := ingest.TableNames{
			Headers:   cfg.Database.HeadersTable,
			Items:     cfg.Database.ItemsTable,
			Reference: cfg.Database.ReferenceTable,
		}
		return &web.ReloadSource{
			Kind: "postgres",
			Name: "postgres",
			Load: func(ctx context.Context) (ingest.Result, error) {
				return ingest.LoadPostgres(ctx, pool, tables)
			},
		}
	}

	if cfg.Batch.Dir == "" {
		return nil
	}
	dir := cfg.Batch.Dir
	names := ingest.FileNames{
		Headers:   cfg.Batch.HeadersFile,
		Items:     cfg.Batch.ItemsFile,
		Reference: cfg.Batch.ReferenceFile,
	}
	return &web.ReloadSource{
		Kind: "dir",
		Name: dir,
		Load: func(ctx context.Context) (ingest.Result, error) {
			return ingest.LoadDir(ctx, dir, names)
		},
	}
}
