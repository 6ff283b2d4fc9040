package cli

import (
	"io"
	"log/slog"

	"github.com/hupe1980/dsopt"
	"github.com/hupe1980/dsopt/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the engine logger. When cfg.File is set, output goes to a
// size-rotated file instead of stderr; the returned closer flushes it.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*dsopt.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      = stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		w, closer = lj, lj
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return dsopt.NewLogger(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
