package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	t.Run("attached logger", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestContextValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithTicket(ctx, "AcmeCorp-Ticket-#01")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "AcmeCorp-Ticket-#01", GetTicket(ctx))

	empty := context.Background()
	assert.Empty(t, GetRequestID(empty))
	assert.Empty(t, GetUserID(empty))
	assert.Empty(t, GetTicket(empty))
}

func TestTraceIDs(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))

	ctx := spanContext(t)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	assert.Equal(t, "00f067aa0ba902b7", GetSpanID(ctx))
}

func TestFields(t *testing.T) {
	assert.Empty(t, Fields(context.Background()))

	ctx := WithUserID(WithRequestID(spanContext(t), "req-9"), "user-9")
	keys := map[string]string{}
	for _, f := range Fields(ctx) {
		keys[f.Key] = f.String
	}

	assert.Equal(t, map[string]string{
		"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":    "00f067aa0ba902b7",
		"request_id": "req-9",
		"user_id":    "user-9",
	}, keys)
}

func TestContextLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(WithTicket(WithRequestID(context.Background(), "req-2"), "Jane-Ticket-#03"), zap.New(core))

	L(ctx).With(zap.String("step", "sales_order")).Info("sales order created")
	L(ctx).Debug("debug")
	L(ctx).Warn("warn")
	L(ctx).Error("error")

	entries := recorded.All()
	require.Len(t, entries, 4)

	first := entries[0].ContextMap()
	assert.Equal(t, "sales order created", entries[0].Message)
	assert.Equal(t, "req-2", first["request_id"])
	assert.Equal(t, "Jane-Ticket-#03", first["ticket"])
	assert.Equal(t, "sales_order", first["step"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestWithLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	WithLogger(WithUserID(context.Background(), "u-1"), zap.New(core)).Info("login")
	WithLogger(context.Background(), nil).Info("dropped")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "u-1", recorded.All()[0].ContextMap()["user_id"])
}
