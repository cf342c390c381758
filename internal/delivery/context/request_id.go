package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey types the keys this package stores in contexts so they cannot
// collide with keys from other packages.
type ContextKey string

const (
	// KeyRequestID carries the per-request correlation ID.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger carries the request-scoped logger.
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID is the header the correlation ID travels in.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID returns the request ID stored on the echo context, minting a
// fresh UUID when none was set.
func GetRequestID(c echo.Context) string {
	val := c.Get(string(KeyRequestID))
	if id, ok := val.(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID stores the request ID on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns the request ID carried by a standard
// context, or the empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID attaches the request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger carried by the context, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger carried by the
// context, falling back to the given logger when none is attached.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger attaches the logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
