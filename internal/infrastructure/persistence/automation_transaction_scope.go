package persistence

import (
	"context"

	appautomation "github.com/vellap/portal/internal/application/automation"
	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/trade"
	"gorm.io/gorm"
)

// GormAutomationTransactionScope implements the sales cycle TransactionScope
// using GORM transactions.
type GormAutomationTransactionScope struct {
	db *gorm.DB
}

// NewGormAutomationTransactionScope creates a new GormAutomationTransactionScope.
func NewGormAutomationTransactionScope(db *gorm.DB) *GormAutomationTransactionScope {
	return &GormAutomationTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormAutomationTransactionScope) Execute(ctx context.Context, fn func(repos appautomation.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormAutomationRepositories{tx: tx})
	})
}

type gormAutomationRepositories struct {
	tx *gorm.DB
}

func (r *gormAutomationRepositories) TicketRepo() automation.TicketRepository {
	return NewGormTicketRepository(r.tx)
}

func (r *gormAutomationRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormAutomationRepositories) QuotationRepo() trade.QuotationRepository {
	return NewGormQuotationRepository(r.tx)
}

func (r *gormAutomationRepositories) SalesOrderRepo() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormAutomationRepositories) PaymentEntryRepo() finance.PaymentEntryRepository {
	return NewGormPaymentEntryRepository(r.tx)
}

func (r *gormAutomationRepositories) PaymentAccountRepo() finance.ModeOfPaymentAccountRepository {
	return NewGormModeOfPaymentAccountRepository(r.tx)
}

var _ appautomation.TransactionScope = (*GormAutomationTransactionScope)(nil)
var _ appautomation.TransactionalRepositories = (*gormAutomationRepositories)(nil)
