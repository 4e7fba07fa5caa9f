package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	automationapp "github.com/vellap/portal/internal/application/automation"
	financeapp "github.com/vellap/portal/internal/application/finance"
	identityapp "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/domain/shared"
)

type MockAdmin struct{ mock.Mock }

func (m *MockAdmin) EnsureSystemManager(ctx context.Context, input identityapp.CreateAdminInput) (*identityapp.AdminResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AdminResult), args.Error(1)
}

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) Set(ctx context.Context, input financeapp.SetAccountInput) (*financeapp.AccountResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.AccountResponse), args.Error(1)
}

func (m *MockAccounts) Get(ctx context.Context, modeOfPayment, company string) (*financeapp.AccountResponse, error) {
	args := m.Called(ctx, modeOfPayment, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.AccountResponse), args.Error(1)
}

type MockTickets struct{ mock.Mock }

func (m *MockTickets) Get(ctx context.Context, name string) (*automationapp.TicketResponse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automationapp.TicketResponse), args.Error(1)
}

func (m *MockTickets) Submit(ctx context.Context, name string) (*automationapp.CycleResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automationapp.CycleResult), args.Error(1)
}

type harness struct {
	admin    *MockAdmin
	accounts *MockAccounts
	tickets  *MockTickets
	closed   int
	logLevel string
}

func newHarness() *harness {
	return &harness{admin: new(MockAdmin), accounts: new(MockAccounts), tickets: new(MockTickets)}
}

func (h *harness) open(_ context.Context, logLevel string) (*Services, func() error, error) {
	h.logLevel = logLevel
	closer := func() error {
		h.closed++
		return nil
	}
	return &Services{Admin: h.admin, Accounts: h.accounts, Tickets: h.tickets}, closer, nil
}

// run executes portalctl with args and returns stdout
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, cleanup := newRootCmd(h.open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, cleanup())
	return out.String(), err
}

func TestUserCreateAdmin(t *testing.T) {
	h := newHarness()
	h.admin.On("EnsureSystemManager", mock.Anything, identityapp.CreateAdminInput{
		Email:     "ops@vellap.test",
		Password:  "admin-pass-1",
		FirstName: "Ops",
	}).Return(&identityapp.AdminResult{
		User:    identityapp.UserInfo{ID: uuid.New(), Email: "ops@vellap.test", Roles: []string{"System Manager"}},
		Created: true,
	}, nil)

	out, err := h.run(t, "user", "create-admin",
		"--email", "ops@vellap.test", "--password", "admin-pass-1", "--first-name", "Ops", "--log-level", "debug")

	require.NoError(t, err)
	assert.Equal(t, "Created ops@vellap.test (System Manager)\n", out)
	assert.Equal(t, "debug", h.logLevel)
	assert.Equal(t, 1, h.closed)
	h.admin.AssertExpectations(t)
}

func TestUserCreateAdmin_MissingPassword(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "user", "create-admin", "--email", "ops@vellap.test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
	h.admin.AssertNotCalled(t, "EnsureSystemManager", mock.Anything, mock.Anything)
}

func TestAccountCommands(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		h := newHarness()
		input := financeapp.SetAccountInput{ModeOfPayment: "Wire Transfer", Company: "Vellap Ltd", DefaultAccount: "Bank - VL"}
		h.accounts.On("Set", mock.Anything, input).Return(&financeapp.AccountResponse{
			ModeOfPayment: "Wire Transfer", Company: "Vellap Ltd", DefaultAccount: "Bank - VL",
		}, nil)

		out, err := h.run(t, "account", "set",
			"--mode-of-payment", "Wire Transfer", "--company", "Vellap Ltd", "--account", "Bank - VL")

		require.NoError(t, err)
		assert.Equal(t, "Wire Transfer / Vellap Ltd: Bank - VL\n", out)
	})

	t.Run("get not found", func(t *testing.T) {
		h := newHarness()
		h.accounts.On("Get", mock.Anything, "Cash", "Vellap Ltd").Return(nil, shared.ErrNotFound)

		_, err := h.run(t, "account", "get", "--mode-of-payment", "Cash", "--company", "Vellap Ltd")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 1, h.closed)
	})
}

func TestTicketSubmit(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		h := newHarness()
		h.tickets.On("Submit", mock.Anything, "AcmeTraders-Ticket-#01").Return(&automationapp.CycleResult{
			Ticket:  "AcmeTraders-Ticket-#01",
			Outcome: automationapp.CycleCompleted,
			Notices: []string{
				automationapp.NoticeStarting,
				automationapp.NoticeCompleted,
			},
			SalesOrder:   "SAL-ORD-2026-00001",
			PaymentEntry: "ACC-PAY-2026-00001",
			Amount:       decimal.NewFromInt(700),
		}, nil)

		out, err := h.run(t, "ticket", "submit", "AcmeTraders-Ticket-#01")

		require.NoError(t, err)
		assert.Equal(t, automationapp.NoticeStarting+"\n"+automationapp.NoticeCompleted+"\n"+
			"Sales Order: SAL-ORD-2026-00001\nPayment Entry: ACC-PAY-2026-00001\n", out)
	})

	t.Run("stopped prints notices only", func(t *testing.T) {
		h := newHarness()
		h.tickets.On("Submit", mock.Anything, "AcmeTraders-Ticket-#02").Return(&automationapp.CycleResult{
			Outcome: automationapp.CycleStopped,
			Notices: []string{automationapp.NoticeStarting, automationapp.NoticeNoQuotations},
		}, nil)

		out, err := h.run(t, "ticket", "submit", "AcmeTraders-Ticket-#02")

		require.NoError(t, err)
		assert.NotContains(t, out, "Sales Order:")
		assert.Contains(t, out, automationapp.NoticeNoQuotations)
	})

	t.Run("cycle failure prints notices and fails", func(t *testing.T) {
		h := newHarness()
		cycleErr := &automationapp.CycleError{
			Notices: []string{automationapp.NoticeStarting, "Failed to create/submit Sales Order. Error: boom"},
			Err:     shared.NewDomainErrorWithCause("SALES_CYCLE_FAILED", "boom", errors.New("boom")),
		}
		h.tickets.On("Submit", mock.Anything, "AcmeTraders-Ticket-#03").Return(nil, cycleErr)

		out, err := h.run(t, "ticket", "submit", "AcmeTraders-Ticket-#03")

		require.Error(t, err)
		assert.Contains(t, out, "Failed to create/submit Sales Order. Error: boom")
		assert.Equal(t, 1, h.closed)
	})

	t.Run("requires a ticket name", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "ticket", "submit")
		assert.Error(t, err)
	})
}

func TestTicketShow(t *testing.T) {
	h := newHarness()
	h.tickets.On("Get", mock.Anything, "AcmeTraders-Ticket-#01").Return(&automationapp.TicketResponse{
		Name:        "AcmeTraders-Ticket-#01",
		Customer:    "Acme Traders",
		Status:      "Draft",
		TotalAmount: decimal.NewFromInt(700),
		Quotations: []automationapp.TicketQuotationResponse{
			{Quotation: "SAL-QTN-2026-00001", Status: "Draft", TotalAmount: decimal.NewFromInt(200)},
		},
	}, nil)

	out, err := h.run(t, "ticket", "show", "AcmeTraders-Ticket-#01")

	require.NoError(t, err)
	assert.Equal(t, "AcmeTraders-Ticket-#01  Draft  Acme Traders  700.00\n  SAL-QTN-2026-00001  Draft  200.00\n", out)
}
