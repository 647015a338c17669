package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/config"
	"github.com/govsure/costroll/internal/db"
	"github.com/govsure/costroll/internal/logging"
	"github.com/govsure/costroll/internal/migrations"
	"github.com/govsure/costroll/internal/seed"
	"github.com/govsure/costroll/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := serve(ctx, cfg, logger)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// serve runs the server until ctx is done and returns the process exit code.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) int {
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database); err != nil {
			return err
		}
		stats, err := seed.Run(ctx, database, seed.Config{Demo: cfg.SeedDemo})
		if err != nil {
			return err
		}
		logger.Info("dev database ready", zap.Int("seed_inserts", stats.Inserts))
	}

	srv := newServer(store.New(database), logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
