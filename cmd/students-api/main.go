// main is the entry point of the Students API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, then YAML + env overrides)
//  2. Initialise the logger (stdout + daily-rotated file)
//  3. Open the configured storage backend (sqlite or postgres)
//  4. Build the service and the router
//  5. Start the HTTP server in a separate goroutine
//  6. Block until SIGINT / SIGTERM arrives
//  7. Gracefully shut down: finish in-flight requests, close storage, flush logs
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/http/server"
	"github.com/aanand-mishra/students-service/internal/logger"
	"github.com/aanand-mishra/students-service/internal/service"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/storage/postgres"
	"github.com/aanand-mishra/students-service/internal/storage/sqlite"
)

const version = "1.0.0"

func main() {
	cfg := config.MustLoad()

	logs, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	log := logs.Logger

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	if err := run(cfg, log); err != nil {
		log.Error("host terminated unexpectedly", slog.String("error", err.Error()))
		logs.Close()
		os.Exit(1)
	}

	logs.Close()
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStorage(ctx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	svc := service.New(store, log)
	srv := server.New(cfg, server.NewHandler(cfg, svc, store, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the normal result of Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server encountered an error: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// openStorage picks the backend named by cfg.Storage.Driver. Everything
// after this point only sees the storage.Storage interface.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg)
	case config.DriverSQLite:
		return sqlite.New(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
