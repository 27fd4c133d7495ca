// Package logger builds the application *slog.Logger.
//
// Development (dev): human-readable text at DEBUG level.
// Staging/production: JSON, DEBUG in staging and INFO in production.
//
// Output always goes to stdout and, when a log directory is configured, to
// a file rotated once a day by lumberjack.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aanand-mishra/students-service/internal/config"
)

// Logger owns the rotating file, if any. Close it on shutdown.
type Logger struct {
	*slog.Logger

	file   *lumberjack.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds the logger for cfg. The daily rotation goroutine runs until
// Close is called.
func New(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout, time.Now)
}

func newLogger(cfg *config.Config, stdout io.Writer, now func() time.Time) (*Logger, error) {
	l := &Logger{}

	out := stdout
	if cfg.Log.Dir != "" {
		if err := os.MkdirAll(cfg.Log.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("logger.New: create log dir: %w", err)
		}

		l.file = &lumberjack.Logger{
			Filename:  filepath.Join(cfg.Log.Dir, cfg.Log.FileName),
			MaxAge:    cfg.Log.MaxAgeDays,
			LocalTime: true,
			// Size based rotation is effectively off; rotation is daily.
			MaxSize: 1024,
		}
		out = io.MultiWriter(stdout, l.file)

		ctx, cancel := context.WithCancel(context.Background())
		l.cancel = cancel
		l.done = make(chan struct{})
		go l.rotateDaily(ctx, now)
	}

	level := levelFor(cfg)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Env {
	case config.EnvProd, config.EnvStaging:
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}

	l.Logger = slog.New(h)
	return l, nil
}

// levelFor honours an explicit log.level and otherwise picks by env.
func levelFor(cfg *config.Config) slog.Level {
	if cfg.Log.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(cfg.Log.Level))); err == nil {
			return lvl
		}
	}

	if cfg.Env == config.EnvProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func (l *Logger) rotateDaily(ctx context.Context, now func() time.Time) {
	defer close(l.done)

	for {
		timer := time.NewTimer(untilMidnight(now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := l.file.Rotate(); err != nil {
				fmt.Fprintf(os.Stderr, "logger: rotate %s: %v\n", l.file.Filename, err)
			}
		}
	}
}

// untilMidnight is the time left until the next local midnight.
func untilMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	return next.Sub(t)
}

// Close stops rotation and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.cancel()
	<-l.done
	return l.file.Close()
}
