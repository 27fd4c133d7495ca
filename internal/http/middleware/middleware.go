// Package middleware wraps the router with request ids, panic recovery,
// request logging and Prometheus metrics.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Wrap applies the full chain to h. The metrics middleware sits innermost
// so it sees the *http.Request the router fills Pattern on, and the
// recoverer sits inside the logger so recovered panics are logged as 500.
func Wrap(h http.Handler, log *slog.Logger, metrics *Metrics) http.Handler {
	if metrics != nil {
		h = metrics.Middleware(h)
	}
	h = chimw.Recoverer(h)
	h = RequestLogger(log)(h)
	h = chimw.RealIP(h)
	h = chimw.RequestID(h)
	return h
}

// RequestLogger writes one line per request once the response is done.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				attrs := []slog.Attr{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("remote_addr", r.RemoteAddr),
				}
				if id := chimw.GetReqID(r.Context()); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}

				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				log.LogAttrs(r.Context(), level, "http request", attrs...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
