package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/shared"
	"go.uber.org/zap"
)

func TestAdminService_EnsureSystemManager(t *testing.T) {
	ctx := context.Background()
	input := CreateAdminInput{Email: " Admin@Vellap.io ", Password: testPassword, FirstName: "Ada"}

	t.Run("creates a system user", func(t *testing.T) {
		users := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		svc := NewAdminService(users, zap.NewNop())
		svc.SetEventPublisher(publisher)

		users.On("FindByEmail", mock.Anything, "admin@vellap.io").Return(nil, shared.ErrNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.UserType == identity.UserTypeSystem && u.HasRole(identity.RoleSystemManager)
		})).Return(nil)
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 2 &&
				events[0].EventType() == identity.EventTypeUserCreated &&
				events[1].EventType() == identity.EventTypeUserRoleGranted
		})).Return(nil)

		result, err := svc.EnsureSystemManager(ctx, input)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "admin@vellap.io", result.User.Email)
		assert.Equal(t, "Ada", result.User.FullName)
		assert.Equal(t, []string{identity.RoleSystemManager}, result.User.Roles)
		users.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("promotes an existing user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAdminService(users, zap.NewNop())
		existing := newTestUser(t)

		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(existing, nil)
		users.On("Update", mock.Anything, existing).Return(nil)

		result, err := svc.EnsureSystemManager(ctx, CreateAdminInput{Email: "jane@example.com", Password: "another-long-pass"})
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.ElementsMatch(t, []string{identity.RoleCustomer, identity.RoleSystemManager}, result.User.Roles)
		assert.True(t, existing.VerifyPassword("another-long-pass"))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAdminService(users, zap.NewNop())
		users.On("FindByEmail", mock.Anything, "nope").Return(nil, shared.ErrNotFound)

		_, err := svc.EnsureSystemManager(ctx, CreateAdminInput{Email: "nope", Password: testPassword})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAdminService(users, zap.NewNop())
		users.On("FindByEmail", mock.Anything, "admin@vellap.io").Return(nil, errors.New("db down"))

		_, err := svc.EnsureSystemManager(ctx, input)
		assert.EqualError(t, err, "db down")
	})
}
