package automation

import (
	"context"

	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories of a
// sales cycle. A cycle that fails at any step leaves no quotation, order,
// payment or ticket change behind.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction.
type TransactionalRepositories interface {
	TicketRepo() automation.TicketRepository
	CustomerRepo() partner.CustomerRepository
	QuotationRepo() trade.QuotationRepository
	SalesOrderRepo() trade.SalesOrderRepository
	PaymentEntryRepo() finance.PaymentEntryRepository
	PaymentAccountRepo() finance.ModeOfPaymentAccountRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// This is useful for testing.
type NoOpTransactionScope struct {
	Tickets         automation.TicketRepository
	Customers       partner.CustomerRepository
	Quotations      trade.QuotationRepository
	SalesOrders     trade.SalesOrderRepository
	PaymentEntries  finance.PaymentEntryRepository
	PaymentAccounts finance.ModeOfPaymentAccountRepository
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) TicketRepo() automation.TicketRepository {
	return s.Tickets
}

func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.Customers
}

func (s *NoOpTransactionScope) QuotationRepo() trade.QuotationRepository {
	return s.Quotations
}

func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository {
	return s.SalesOrders
}

func (s *NoOpTransactionScope) PaymentEntryRepo() finance.PaymentEntryRepository {
	return s.PaymentEntries
}

func (s *NoOpTransactionScope) PaymentAccountRepo() finance.ModeOfPaymentAccountRepository {
	return s.PaymentAccounts
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
