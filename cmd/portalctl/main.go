// Command portalctl runs back-office tasks against the portal database:
// provisioning desk users, configuring payment accounts and submitting
// Ticket Automations outside the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	automationapp "github.com/vellap/portal/internal/application/automation"
	financeapp "github.com/vellap/portal/internal/application/finance"
	identityapp "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/bootstrap"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
)

// AdminProvisioner creates or promotes desk users
type AdminProvisioner interface {
	EnsureSystemManager(ctx context.Context, input identityapp.CreateAdminInput) (*identityapp.AdminResult, error)
}

// AccountStore maintains Mode of Payment Accounts
type AccountStore interface {
	Set(ctx context.Context, input financeapp.SetAccountInput) (*financeapp.AccountResponse, error)
	Get(ctx context.Context, modeOfPayment, company string) (*financeapp.AccountResponse, error)
}

// TicketRunner reads and submits Ticket Automations
type TicketRunner interface {
	Get(ctx context.Context, name string) (*automationapp.TicketResponse, error)
	Submit(ctx context.Context, name string) (*automationapp.CycleResult, error)
}

// Services are the use cases portalctl drives
type Services struct {
	Admin    AdminProvisioner
	Accounts AccountStore
	Tickets  TicketRunner
}

// Opener connects to the backing stores. The returned func releases them.
type Opener func(ctx context.Context, logLevel string) (*Services, func() error, error)

func main() {
	root, cleanup := newRootCmd(openContainer)
	err := root.Execute()
	if cerr := cleanup(); cerr != nil && err == nil {
		err = cerr
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if err != nil {
		os.Exit(1)
	}
}

func openContainer(ctx context.Context, logLevel string) (*Services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	app, err := bootstrap.New(ctx, cfg, log, bootstrap.WithAutoMigrate(), bootstrap.WithoutRedisFallback())
	if err != nil {
		return nil, nil, err
	}
	if err := app.Start(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, nil, err
	}

	closeFn := func() error {
		defer func() { _ = logger.Sync(log) }()
		return app.Close(context.Background())
	}
	return &Services{Admin: app.Admin, Accounts: app.Accounts, Tickets: app.Tickets}, closeFn, nil
}
