package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldScanID identifies one catalog scan or verify run.
	FieldScanID = "scan_id"
	// FieldPath is the media file a record refers to.
	FieldPath = "path"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
)

type contextKey int

const (
	scanIDKey contextKey = iota
	pathKey
)

// WithScanID attaches a scan identifier to ctx.
func WithScanID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, scanIDKey, id)
}

// ScanIDFromContext returns the scan identifier stored in ctx.
func ScanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(scanIDKey).(string)
	return id, ok && id != ""
}

// WithPath attaches the file being processed to ctx.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ScanIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldScanID, id))
	}
	if path, ok := ctx.Value(pathKey).(string); ok && path != "" {
		fields = append(fields, slog.String(FieldPath, path))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
