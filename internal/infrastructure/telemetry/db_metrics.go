package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics exports connection pool gauges read from stats at
// collection time.
func RegisterDBPoolMetrics(meter metric.Meter, stats func() sql.DBStats) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(connections, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, connections, maxOpen, waits)
}
