package identity

import (
	"time"

	"github.com/google/uuid"
)

// Built-in role names
const (
	RoleCustomer      = "Customer"
	RoleSystemManager = "System Manager"
)

// RoleGrant is a single (user, role) assignment row
type RoleGrant struct {
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
}
