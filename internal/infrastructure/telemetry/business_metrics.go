package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/vellap/portal/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives no meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Login outcome labels
const (
	LoginSucceeded = "success"
	LoginFailed    = "failed"
)

// PortalMetrics counts registrations, logins and sales cycles.
type PortalMetrics struct {
	registrations *Counter
	logins        *Counter
	salesCycles   *Counter
	cycleDuration *Histogram
	domainEvents  *Counter
}

// NewPortalMetrics creates the portal instruments on meter.
func NewPortalMetrics(meter metric.Meter) (*PortalMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		pm  PortalMetrics
		err error
	)
	if pm.registrations, err = NewCounter(meter,
		"portal_registrations_total",
		"Customer registrations by outcome",
		"{registrations}",
	); err != nil {
		return nil, err
	}
	if pm.logins, err = NewCounter(meter,
		"portal_logins_total",
		"Customer logins by outcome",
		"{logins}",
	); err != nil {
		return nil, err
	}
	if pm.salesCycles, err = NewCounter(meter,
		"portal_sales_cycles_total",
		"Ticket sales cycles by outcome",
		"{cycles}",
	); err != nil {
		return nil, err
	}
	if pm.cycleDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "portal_sales_cycle_duration_seconds",
		Description: "Duration of ticket sales cycles",
		Unit:        "s",
		Boundaries:  CycleDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if pm.domainEvents, err = NewCounter(meter,
		"portal_domain_events_total",
		"Domain events published after commit",
		"{events}",
	); err != nil {
		return nil, err
	}
	return &pm, nil
}

// RecordRegistration counts one register_customer call.
func (m *PortalMetrics) RecordRegistration(ctx context.Context, outcome string) {
	m.registrations.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordLogin counts one login_customer call.
func (m *PortalMetrics) RecordLogin(ctx context.Context, success bool) {
	outcome := LoginFailed
	if success {
		outcome = LoginSucceeded
	}
	m.logins.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordSalesCycle counts one ticket submission and its duration.
func (m *PortalMetrics) RecordSalesCycle(ctx context.Context, outcome string, d time.Duration) {
	m.salesCycles.Inc(ctx, AttrOutcome.String(outcome))
	m.cycleDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// EventMetricsHandler counts every published domain event by type.
type EventMetricsHandler struct {
	metrics *PortalMetrics
}

// NewEventMetricsHandler creates a wildcard handler backed by m.
func NewEventMetricsHandler(m *PortalMetrics) *EventMetricsHandler {
	return &EventMetricsHandler{metrics: m}
}

func (h *EventMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.metrics.domainEvents.Inc(ctx, AttrEventType.String(event.EventType()))
	return nil
}

// EventTypes returns nil so the handler receives all events.
func (h *EventMetricsHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*EventMetricsHandler)(nil)
