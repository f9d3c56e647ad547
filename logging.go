package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lexandro/resourcewatch/config"
)

// setupLogger creates an slog.Logger writing to stderr or a rotating file.
// Stdout is never used because it carries the MCP stdio transport.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	var writer io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writer = rotating
		closer = rotating
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	return slog.New(handler), closer
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
