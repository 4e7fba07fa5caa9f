package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	ticketKey    contextKey = "ticket"
)

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID records the request ID on ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID records the authenticated user's ID on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTicket records the ticket automation being processed on ctx.
func WithTicket(ctx context.Context, ticket string) context.Context {
	return context.WithValue(ctx, ticketKey, ticket)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

func GetTicket(ctx context.Context) string {
	v, _ := ctx.Value(ticketKey).(string)
	return v
}

// GetTraceID returns the active span's trace ID, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the active span's ID, or "" when there is none.
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// Fields collects the correlation fields carried by ctx: trace_id, span_id,
// request_id, user_id and ticket. Absent values are skipped.
func Fields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := GetUserID(ctx); v != "" {
		fields = append(fields, zap.String("user_id", v))
	}
	if v := GetTicket(ctx); v != "" {
		fields = append(fields, zap.String("ticket", v))
	}
	return fields
}

// ContextLogger writes entries enriched with the correlation fields of its
// context.
//
//	logger.L(ctx).Info("quotation submitted", zap.String("quotation", name))
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger using the logger attached to ctx.
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger returns a ContextLogger that writes to logger instead of the
// one attached to ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.Zap().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.Zap().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.Zap().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.Zap().Error(msg, fields...)
}

// Zap returns the underlying logger with the correlation fields applied.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.logger.With(Fields(cl.ctx)...)
}
