package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{logger: logger.With("service", service)}
}

// ctxKey is the type under which callers may store a request id on the context.
type ctxKey string

const RequestIDKey ctxKey = "request_id"

// WithRequestID returns a context whose operations log the given request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// LogOperation logs the outcome of one service call. The level follows the
// error class: expected caller errors are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, ownerID, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsInvalidState(err):
			level = slog.LevelWarn
			status = "invalid_state"
		case IsNotFound(err):
			level = slog.LevelWarn
			status = "not_found"
		case errors.Is(err, ErrRateLimited):
			level = slog.LevelWarn
			status = "rate_limited"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("owner_id", ownerID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()), slog.String("code", ReasonCode(err)))

		var ve ValidationErrors
		if errors.As(err, &ve) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		}

		if level == slog.LevelError {
			if pc, file, line, ok := runtime.Caller(1); ok {
				if fn := runtime.FuncForPC(pc); fn != nil {
					attrs = append(attrs,
						slog.String("caller_func", fn.Name()),
						slog.String("caller_file", file),
						slog.Int("caller_line", line),
					)
				}
			}
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// Track returns a func that logs the operation when called with its error.
//
//	defer func() { done(err) }()
func (l *ServiceLogger) Track(ctx context.Context, operation, ownerID, resourceID, resourceType string) func(error) {
	start := time.Now()
	return func(err error) {
		l.LogOperation(ctx, operation, ownerID, resourceID, resourceType, time.Since(start), err)
	}
}
