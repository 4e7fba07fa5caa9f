package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/vellap/portal/docs"
	"github.com/vellap/portal/internal/bootstrap"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/interfaces/http/handler"
	"github.com/vellap/portal/internal/interfaces/http/middleware"
	"github.com/vellap/portal/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	loginAttemptsPerMinute = 10
	shutdownTimeout        = 30 * time.Second
)

//	@title			Vellap Customer Portal API
//	@version		1.0
//	@description	Customer self-registration and login, and the desk API that turns Ticket Automations into Sales Orders and Payment Entries.

//	@contact.name	Vellap Support
//	@contact.email	support@vellap.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				"Bearer {token}" from login_customer, or "token {api_key}:{api_secret}". Browsers may send the sid cookie instead.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting customer portal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log, bootstrap.WithTelemetry(), bootstrap.WithAutoMigrate())
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Error("Error during shutdown", zap.Error(err))
		}
	}()
	if app.DB.Driver != "sqlite" {
		log.Info("Schema is managed by migrations; run cmd/migrate up before upgrading")
	}

	// Logger may now also ship to the collector
	log = app.Logger

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	engine := newEngine(cfg, app, log)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func newEngine(cfg *config.Config, app *bootstrap.Container, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.SpanErrorMarker(),
		logger.Recovery(log),
		logger.GinMiddleware(log, "/health"),
		middleware.HTTPMetrics(app.Meter, log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	authCfg := middleware.AuthConfig{
		Authenticator: app.Auth,
		CookieName:    cfg.Session.CookieName,
		Logger:        log,
	}

	checks := map[string]handler.Pinger{
		"database": handler.PingerFunc(func(context.Context) error { return app.DB.Ping() }),
	}
	if app.Stores.Redis != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return app.Stores.Redis.Ping(ctx).Err()
		})
	}

	authenticate := middleware.Authenticate(authCfg)
	deskRole := middleware.RequireRole(identity.RoleSystemManager)

	router.Mount(engine,
		router.Handlers{
			Portal:         handler.NewPortalHandler(app.Registration, app.Auth, cfg.Session),
			Quotation:      handler.NewQuotationHandler(app.Quotations),
			Ticket:         handler.NewTicketHandler(app.Tickets),
			PaymentAccount: handler.NewPaymentAccountHandler(app.Accounts),
			Health:         handler.NewHealthHandler(version, checks),
			Docs:           ginSwagger.WrapHandler(swaggerFiles.Handler),
		},
		router.Guards{
			Authenticate:         authenticate,
			OptionalAuthenticate: middleware.OptionalAuthenticate(authCfg),
			DeskRole:             deskRole,
			LoginRateLimit:       middleware.RateLimit(middleware.NewRateLimiter(loginAttemptsPerMinute, time.Minute)),
			Principal:            []gin.HandlerFunc{middleware.TagPrincipal()},
			DocsAccess:           middleware.SwaggerProtection(cfg.Swagger, authenticate, deskRole),
		},
	)
	return engine
}
