// Package bootstrap assembles the portal's infrastructure and application
// services from configuration. It is shared by the HTTP server and portalctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	automationapp "github.com/vellap/portal/internal/application/automation"
	financeapp "github.com/vellap/portal/internal/application/finance"
	identityapp "github.com/vellap/portal/internal/application/identity"
	tradeapp "github.com/vellap/portal/internal/application/trade"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/auth"
	"github.com/vellap/portal/internal/infrastructure/cache"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/event"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/persistence"
	"github.com/vellap/portal/internal/infrastructure/phone"
	"github.com/vellap/portal/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/vellap/portal"

// Option configures New
type Option func(*options)

type options struct {
	telemetry     bool
	autoMigrate   bool
	redisFallback bool
}

// WithTelemetry starts the OTLP trace, metric and log providers when the
// telemetry section is enabled
func WithTelemetry() Option {
	return func(o *options) { o.telemetry = true }
}

// WithAutoMigrate creates the schema with GORM when the driver is sqlite.
// Postgres schemas are owned by cmd/migrate.
func WithAutoMigrate() Option {
	return func(o *options) { o.autoMigrate = true }
}

// WithoutRedisFallback fails New when Redis is enabled but unreachable
func WithoutRedisFallback() Option {
	return func(o *options) { o.redisFallback = false }
}

// Container holds the wired services and everything that must be closed
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *persistence.Database
	Stores   *cache.Stores
	EventBus *event.InMemoryEventBus
	Meter    metric.Meter

	Auth         *identityapp.AuthService
	Registration *identityapp.RegistrationService
	Admin        *identityapp.AdminService
	Quotations   *tradeapp.QuotationService
	Accounts     *financeapp.PaymentAccountService
	Tickets      *automationapp.TicketService

	closers []func(context.Context) error
}

// New connects to the database and the shared stores, then wires the
// application services. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (_ *Container, err error) {
	o := options{redisFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = c.Close(context.Background())
		}
	}()

	c.Meter = otel.Meter(meterName)
	if o.telemetry {
		if err = c.startTelemetry(ctx); err != nil {
			return nil, err
		}
	}

	gormLog := logger.NewGormLogger(c.Logger, logger.MapGormLogLevel(cfg.Log.Level))
	c.DB, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func(context.Context) error { return c.DB.Close() })
	c.Logger.Info("Database connected", zap.String("driver", c.DB.Driver))

	if o.autoMigrate && c.DB.Driver == "sqlite" {
		if err = c.DB.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	if o.telemetry {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database), c.Logger)
		if err = plugin.Register(c.DB.DB); err != nil {
			return nil, err
		}
		sqlDB, dbErr := c.DB.DB.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		if _, err = telemetry.RegisterDBPoolMetrics(c.Meter, sqlDB.Stats); err != nil {
			return nil, err
		}
	}

	factoryOpts := []cache.StoreFactoryOption{
		cache.WithLogger(c.Logger),
		cache.WithInMemoryFallback(o.redisFallback),
	}
	c.Stores, err = cache.NewStoreFactory(cfg.Redis, factoryOpts...).Create(ctx)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func(context.Context) error { return c.Stores.Close() })

	c.EventBus = event.NewInMemoryEventBus(c.Logger)
	c.wireServices()

	if err = c.wireMetrics(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) startTelemetry(ctx context.Context) error {
	cfg := c.Config.Telemetry

	tp, err := telemetry.NewTracerProvider(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, tp.Shutdown)

	mp, err := telemetry.NewMeterProvider(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, mp.Shutdown)
	c.Meter = mp.Meter(meterName)

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, lp.Shutdown)
	c.Logger = lp.Bridge(c.Logger)
	return nil
}

func (c *Container) wireServices() {
	cfg := c.Config
	db := c.DB.DB
	clock := shared.SystemClock{}

	userRepo := persistence.NewGormUserRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	quotationRepo := persistence.NewGormQuotationRepository(db)
	accountRepo := persistence.NewGormModeOfPaymentAccountRepository(db)
	ticketRepo := persistence.NewGormTicketRepository(db)

	c.Auth = identityapp.NewAuthService(
		userRepo, customerRepo, c.Stores.Sessions,
		auth.NewJWTService(cfg.JWT), cfg.Session, cfg.Portal, c.Logger,
	)
	c.Registration = identityapp.NewRegistrationService(
		persistence.NewGormIdentityTransactionScope(db),
		userRepo, c.Auth, phone.NewNormalizer(cfg.Portal.DefaultPhoneRegion), cfg.Portal, c.Logger,
	)
	c.Admin = identityapp.NewAdminService(userRepo, c.Logger)
	c.Quotations = tradeapp.NewQuotationService(quotationRepo, clock, cfg.Portal, c.Logger)
	c.Accounts = financeapp.NewPaymentAccountService(accountRepo, c.Logger)
	c.Tickets = automationapp.NewTicketService(
		persistence.NewGormAutomationTransactionScope(db),
		ticketRepo,
		automationapp.NewSalesCycleOrchestrator(clock, c.Logger),
		c.Stores.Locker, cfg.Portal, c.Logger,
	)

	c.Auth.SetEventPublisher(c.EventBus)
	c.Registration.SetEventPublisher(c.EventBus)
	c.Admin.SetEventPublisher(c.EventBus)
	c.Tickets.SetEventPublisher(c.EventBus)
}

func (c *Container) wireMetrics() error {
	m, err := telemetry.NewPortalMetrics(c.Meter)
	if err != nil {
		return fmt.Errorf("portal metrics: %w", err)
	}
	c.Auth.SetMetrics(m)
	c.Registration.SetMetrics(m)
	c.Tickets.SetMetrics(m)

	h := telemetry.NewEventMetricsHandler(m)
	c.EventBus.Subscribe(h, h.EventTypes()...)
	return nil
}

// Start starts the event bus
func (c *Container) Start(ctx context.Context) error {
	if err := c.EventBus.Start(ctx); err != nil {
		return err
	}
	c.closers = append(c.closers, c.EventBus.Stop)
	return nil
}

// Close releases resources in reverse order of acquisition
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
