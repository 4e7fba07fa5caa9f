package identity

import (
	"time"

	"github.com/vellap/portal/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleGranted = "UserRoleGranted"
	EventTypeUserLoggedIn    = "UserLoggedIn"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email    string   `json:"email"`
	UserType UserType `json:"user_type"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Email:           user.Email,
		UserType:        user.UserType,
	}
}

// UserRoleGrantedEvent is published when a role is granted to a user
type UserRoleGrantedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserRoleGrantedEvent creates a new UserRoleGrantedEvent
func NewUserRoleGrantedEvent(user *User, role string) *UserRoleGrantedEvent {
	return &UserRoleGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleGranted, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Role:            role,
	}
}

// UserLoggedInEvent is published after a successful login
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	LoginTime time.Time `json:"login_time"`
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent
func NewUserLoggedInEvent(user *User, at time.Time) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedIn, AggregateTypeUser, user.ID),
		Email:           user.Email,
		LoginTime:       at,
	}
}
