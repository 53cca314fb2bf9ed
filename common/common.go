// Package common holds package identity constants and logger setup shared by
// every cmd entrypoint.
package common

import (
	"log/slog"
	"os"
)

const (
	PackageName = "catalog-backend"
	Version     = "0.1.0"
)

// LoggingOpts selects the logger format and tags.
type LoggingOpts struct {
	// Debug enables debug-level messages.
	Debug bool

	// JSON switches from text to JSON output.
	JSON bool

	// Service is added as a 'service' tag to all messages.
	Service string

	// Version is added as a 'version' tag to all messages.
	Version string
}

// SetupLogger builds the process-wide slog logger.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	return logger
}
