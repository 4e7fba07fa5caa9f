package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"github.com/vellap/portal/internal/infrastructure/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables in spans; leaks data, dev only
	SlowQueryThresh time.Duration
	DBName          string
}

// DBTracingConfigFrom derives the tracing settings from the telemetry and
// database sections.
func DBTracingConfigFrom(tel config.TelemetryConfig, db config.DatabaseConfig) DBTracingConfig {
	return DBTracingConfig{
		Enabled:         tel.DBTraceEnabled,
		LogFullSQL:      tel.DBLogFullSQL,
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          db.DBName,
	}
}

// DBTracingPlugin registers otelgorm plus a callback that annotates spans
// of slow statements.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	var opts []otelgorm.Option
	if p.config.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(p.config.DBName))
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", p.before); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", p.before); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", p.before); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", p.before); err != nil {
		return err
	}

	if err := cb.Create().After("gorm:create").Register("telemetry:after_create", p.after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("telemetry:after_query", p.after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("telemetry:after_update", p.after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("telemetry:after_delete", p.after); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", p.after)
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}

	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
