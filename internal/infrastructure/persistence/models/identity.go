package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email         string            `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	FirstName     string            `gorm:"type:varchar(140);not null"`
	LastName      string            `gorm:"type:varchar(140)"`
	Phone         string            `gorm:"type:varchar(50)"`
	PasswordHash  string            `gorm:"type:varchar(255);not null"`
	Enabled       bool              `gorm:"not null"`
	UserType      identity.UserType `gorm:"type:varchar(20);not null"`
	APIKey        *string           `gorm:"type:varchar(64);uniqueIndex:idx_users_api_key"`
	APISecretHash string            `gorm:"type:varchar(255)"`
	LastLoginAt   *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
// Roles are loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Enabled:           m.Enabled,
		UserType:          m.UserType,
		Roles:             make([]string, 0),
		APISecretHash:     m.APISecretHash,
		LastLoginAt:       m.LastLoginAt,
	}
	if m.APIKey != nil {
		u.APIKey = *m.APIKey
	}
	return u
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Enabled = u.Enabled
	m.UserType = u.UserType
	m.APIKey = nil
	if u.APIKey != "" {
		key := u.APIKey
		m.APIKey = &key
	}
	m.APISecretHash = u.APISecretHash
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is one role grant of a user.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(100);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain RoleGrant.
func (m *UserRoleModel) ToDomain() identity.RoleGrant {
	return identity.RoleGrant{
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
