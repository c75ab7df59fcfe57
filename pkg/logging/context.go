package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithFields adds string fields to the logger in the context.
func WithFields(ctx context.Context, fields map[string]string) context.Context {
	logCtx := FromContext(ctx).With()
	for key, value := range fields {
		logCtx = logCtx.Str(key, value)
	}
	logger := logCtx.Logger()
	return WithLogger(ctx, &logger)
}

// WithField adds a single string field to the logger in the context.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithResource adds the resource type name to the logger.
func WithResource(ctx context.Context, resource string) context.Context {
	return WithField(ctx, "resource", resource)
}

// WithOperation adds the client operation (update, generate) to the logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}

// WithVersion adds the discovery api id and the product version it serves
// (ga, beta) to the logger.
func WithVersion(ctx context.Context, apiID, version string) context.Context {
	return WithFields(ctx, map[string]string{"api": apiID, "version": version})
}
