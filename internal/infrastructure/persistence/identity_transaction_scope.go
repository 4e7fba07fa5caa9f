package persistence

import (
	"context"

	appidentity "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/partner"
	"gorm.io/gorm"
)

// GormIdentityTransactionScope implements the registration TransactionScope
// using GORM transactions.
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope.
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormIdentityRepositories{tx: tx})
	})
}

type gormIdentityRepositories struct {
	tx *gorm.DB
}

func (r *gormIdentityRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormIdentityRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormIdentityRepositories) AddressRepo() partner.AddressRepository {
	return NewGormAddressRepository(r.tx)
}

var _ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)
var _ appidentity.TransactionalRepositories = (*gormIdentityRepositories)(nil)
