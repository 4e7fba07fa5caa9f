package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user together with its role grants
	Create(ctx context.Context, user *User) error

	// Update updates an existing user and replaces its role grants
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByAPIKey finds a user by API key
	FindByAPIKey(ctx context.Context, apiKey string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountRoleGrants counts grants of a role for a user
	CountRoleGrants(ctx context.Context, userID uuid.UUID, role string) (int64, error)
}
