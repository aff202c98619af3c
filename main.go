// @title           Task Tracker API
// @version         1.0
// @description     CRUD over persisted tasks
// @host            localhost:3001
// @BasePath        /

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"task-tracker/config"
	"task-tracker/db"
	"task-tracker/docs"
	"task-tracker/handlers"
	"task-tracker/middlewares"
	"task-tracker/utils"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	logger := utils.NewLogger(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		logger.Fatal("server", "err", err)
	}
}

// run serves the API until ctx is done. It returns an error when the store
// cannot be opened, the address cannot be bound, or serving fails.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}

	docs.SwaggerInfo.Host = "localhost" + cfg.Addr()

	router := handlers.NewRouter(handlers.NewHandler(store, logger))
	srv := &http.Server{
		Handler: middlewares.Wrap(router, logger, middlewares.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
		}),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("API running", "addr", ln.Addr().String(), "driver", cfg.Database.Driver)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// openStore builds the configured task store and returns its cleanup func.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (db.TaskStore, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory store, tasks are lost on exit")
		return db.NewMemoryStore(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.EnsureSchema {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	logger.Info("connected to PostgreSQL")
	return db.NewPostgresStore(pool), pool.Close, nil
}
