package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/shared"
)

func TestNewWebsiteUser(t *testing.T) {
	t.Run("creates enabled website user", func(t *testing.T) {
		user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "+14155550100", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "Jane", user.FirstName)
		assert.Equal(t, "Doe", user.LastName)
		assert.Equal(t, UserTypeWebsite, user.UserType)
		assert.True(t, user.Enabled)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.Empty(t, user.Roles)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes email", func(t *testing.T) {
		user, err := NewWebsiteUser("  Jane@Example.COM ", "Jane", "", "", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
	})

	t.Run("first name defaults to email local part", func(t *testing.T) {
		user, err := NewWebsiteUser("buyer.one@example.com", "", "", "", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "buyer.one", user.FirstName)
		assert.Equal(t, "buyer.one", user.FullName())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewWebsiteUser("not-an-email", "A", "B", "", "Password123")

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewWebsiteUser("jane@example.com", "A", "B", "", "short")

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "", "Password123")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("Password123"))
	assert.False(t, user.VerifyPassword("password123"))
	assert.False(t, user.VerifyPassword(""))

	require.NoError(t, user.SetPassword("Another456"))
	assert.True(t, user.VerifyPassword("Another456"))
	assert.False(t, user.VerifyPassword("Password123"))
}

func TestUser_GrantRole(t *testing.T) {
	user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "", "Password123")
	require.NoError(t, err)
	user.ClearDomainEvents()

	granted, err := user.GrantRole(RoleCustomer)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.True(t, user.HasRole(RoleCustomer))

	granted, err = user.GrantRole(RoleCustomer)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, []string{RoleCustomer}, user.Roles)
	assert.Len(t, user.GetDomainEvents(), 1)

	_, err = user.GrantRole("  ")
	assert.Error(t, err)
}

func TestUser_RotateAPICredentials(t *testing.T) {
	user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "", "Password123")
	require.NoError(t, err)

	key1, secret1, err := user.RotateAPICredentials()
	require.NoError(t, err)
	assert.NotEmpty(t, key1)
	assert.NotEmpty(t, secret1)
	assert.True(t, user.VerifyAPISecret(secret1))

	key2, secret2, err := user.RotateAPICredentials()
	require.NoError(t, err)
	assert.Equal(t, key1, key2, "key is kept across rotations")
	assert.NotEqual(t, secret1, secret2)
	assert.False(t, user.VerifyAPISecret(secret1))
	assert.True(t, user.VerifyAPISecret(secret2))
}

func TestUser_LoginState(t *testing.T) {
	user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "", "Password123")
	require.NoError(t, err)
	assert.True(t, user.CanLogin())

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	user.RecordLogin(at)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, at, *user.LastLoginAt)

	user.Disable()
	assert.False(t, user.CanLogin())
}

func TestSession(t *testing.T) {
	user, err := NewWebsiteUser("jane@example.com", "Jane", "Doe", "", "Password123")
	require.NoError(t, err)
	_, _ = user.GrantRole(RoleCustomer)

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewSession("abc", user, now, time.Hour)

	assert.Equal(t, user.ID, s.UserID)
	assert.Equal(t, []string{RoleCustomer}, s.Roles)
	assert.False(t, s.IsExpired(now.Add(59*time.Minute)))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))
}
