package identity

import (
	"context"

	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories touched
// by registration. All writes made through the repositories handed to fn are
// committed together or not at all.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction.
type TransactionalRepositories interface {
	UserRepo() identity.UserRepository
	CustomerRepo() partner.CustomerRepository
	AddressRepo() partner.AddressRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// This is useful for testing.
type NoOpTransactionScope struct {
	userRepo     identity.UserRepository
	customerRepo partner.CustomerRepository
	addressRepo  partner.AddressRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	userRepo identity.UserRepository,
	customerRepo partner.CustomerRepository,
	addressRepo partner.AddressRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		addressRepo:  addressRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) UserRepo() identity.UserRepository {
	return s.userRepo
}

func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

func (s *NoOpTransactionScope) AddressRepo() partner.AddressRepository {
	return s.addressRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
