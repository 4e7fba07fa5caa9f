package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByName(ctx context.Context, name string) (*Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	// Create stores the address with its links
	Create(ctx context.Context, address *Address) error

	// FindByLink returns addresses linked to the given document
	FindByLink(ctx context.Context, linkDoctype, linkName string) ([]*Address, error)

	// NextName allocates the next address document name
	NextName(ctx context.Context) (string, error)
}
