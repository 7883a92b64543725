package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the global slog logger based on environment
func Setup(env string) {
	slog.SetDefault(New(env, os.Stdout))

	slog.Info("Logger 초기화", "env", env)
}

// New builds the logger used for env
func New(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch env {
	case "production", "prod":
		// Production: JSON format
		handler = slog.NewJSONHandler(w, opts)
	case "local", "dev", "development":
		// Development: Text format, debug level (SQL 로그 포함)
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
