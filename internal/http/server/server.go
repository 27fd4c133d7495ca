// Package server assembles the router: student routes, health check,
// metrics, and the development-only API docs, all behind the middleware
// chain.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/http/docs"
	"github.com/aanand-mishra/students-service/internal/http/handlers/student"
	"github.com/aanand-mishra/students-service/internal/http/middleware"
	"github.com/aanand-mishra/students-service/internal/utils/response"
)

// Pinger is the part of storage the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHandler builds the full HTTP handler for cfg.
func NewHandler(cfg *config.Config, svc student.Service, db Pinger, log *slog.Logger) http.Handler {
	router := http.NewServeMux()

	student.Register(router, svc)
	router.HandleFunc("GET /healthz", health(db, log))

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics()
		router.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	if cfg.IsDev() {
		docs.Register(router)
	}

	return middleware.Wrap(router, log, metrics)
}

// New returns an *http.Server configured from cfg.HTTPServer.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
}

func health(db Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.ErrorContext(ctx, "health check failed", slog.String("error", err.Error()))
			response.Write(w, response.Fail[string](http.StatusServiceUnavailable, "storage unavailable"))
			return
		}
		response.Write(w, response.OK("ok"))
	}
}
