// Package logging defines the structured, context-aware logger used across
// the client, with adapters for log/slog and go.uber.org/zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "session restored", "user_id", u.ID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Options selects and tunes a backend.
type Options struct {
	// Backend is "slog" (default) or "zap".
	Backend string
	// Level is debug, info, warn or error.
	Level string
	// Format is "text" (default) or "json". Ignored by zap, which always writes JSON.
	Format string
}

// New builds a Logger writing to w.
func New(w io.Writer, o Options) (Logger, error) {
	switch strings.ToLower(o.Backend) {
	case "", "slog":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(orDefault(o.Level, "info"))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", o.Level, err)
		}
		hopts := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler = slog.NewTextHandler(w, hopts)
		if strings.EqualFold(o.Format, "json") {
			h = slog.NewJSONHandler(w, hopts)
		}
		return NewSlogLogger(slog.New(h)), nil

	case "zap":
		lvl, err := zapcore.ParseLevel(orDefault(o.Level, "info"))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", o.Level, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
		return NewZapLogger(zap.New(core)), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", o.Backend)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
