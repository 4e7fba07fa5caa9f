package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestTracer installs a recording tracer provider for the test.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "ticket.submit",
		WithAttribute(SpanAttrTicket, "AcmeCorp-Ticket-#01"),
		WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ticket.submit", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, "AcmeCorp-Ticket-#01", attrMap(spans[0].Attributes())[SpanAttrTicket])
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, parent := StartServiceSpan(context.Background(), "registration", "register")
	_, child := StartSpan(ctx, "registration.create_customer")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "registration.create_customer", spans[0].Name())
	assert.Equal(t, "registration.register", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, trace.SpanKindInternal, spans[1].SpanKind())
}

func TestSpanHelpers(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "cycle")
	SetAttributes(span,
		SpanAttrSalesOrder, "SAL-ORD-2026-00001",
		"count", 3,
		42, "skipped",
	)
	AddEvent(span, "quotation_submitted", SpanAttrQuotation, "SAL-QTN-2026-00001")
	RecordError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]

	attrs := attrMap(s.Attributes())
	assert.Equal(t, "SAL-ORD-2026-00001", attrs[SpanAttrSalesOrder])
	assert.Equal(t, "3", attrs["count"])
	assert.Len(t, attrs, 2)

	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "boom", s.Status().Description)

	names := make([]string, 0, len(s.Events()))
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "quotation_submitted")
	assert.Contains(t, names, "exception")
}

func TestSetOK(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "ok")
	SetOK(span)
	RecordError(span, nil)
	span.End()

	assert.Equal(t, codes.Ok, sr.Ended()[0].Status().Code)
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.String("k", "v"), toAttribute("k", "v"))
	assert.Equal(t, attribute.Int("k", 1), toAttribute("k", 1))
	assert.Equal(t, attribute.Int64("k", 2), toAttribute("k", int64(2)))
	assert.Equal(t, attribute.Bool("k", true), toAttribute("k", true))
	assert.Equal(t, attribute.StringSlice("k", []string{"a"}), toAttribute("k", []string{"a"}))
	assert.Equal(t, attribute.String("k", "1s"), toAttribute("k", time.Second))
	assert.Equal(t, attribute.String("k", "[1 2]"), toAttribute("k", [2]int{1, 2}))
}

type traceRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func openTraceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&traceRow{}))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	db := openTraceDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	require.NoError(t, db.Create(&traceRow{Name: "a"}).Error)
	assert.Empty(t, sr.Ended())
}

func TestDBTracingPlugin_Enabled(t *testing.T) {
	sr := setupTestTracer(t)
	db := openTraceDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBName: "portal"}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
	require.NoError(t, plugin.Register(db))

	ctx, parent := StartSpan(context.Background(), "test.parent")
	require.NoError(t, db.WithContext(ctx).Create(&traceRow{Name: "a"}).Error)
	var rows []traceRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	var dbSpans int
	for _, s := range sr.Ended() {
		if s.Parent().SpanID() == parent.SpanContext().SpanID() {
			dbSpans++
		}
	}
	assert.GreaterOrEqual(t, dbSpans, 2)
}

func TestDBTracingConfigFrom(t *testing.T) {
	cfg := disabledTelemetry()
	cfg.DBTraceEnabled = true
	cfg.DBLogFullSQL = true

	got := DBTracingConfigFrom(cfg, config.DatabaseConfig{Driver: "postgres", DBName: "portal"})
	assert.True(t, got.Enabled)
	assert.True(t, got.LogFullSQL)
	assert.Equal(t, "portal", got.DBName)
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, enabler: zapcore.WarnLevel}

	logger := zap.New(core).With(zap.String("component", "test"))
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "test", logs.All()[0].ContextMap()["component"])
	assert.False(t, core.Enabled(zapcore.DebugLevel))
}
