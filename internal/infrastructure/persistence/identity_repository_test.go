package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appidentity "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/shared"
)

func newTestUser(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewWebsiteUser(email, "Jane", "Doe", "+15550100", "s3cretpass")
	require.NoError(t, err)
	return user
}

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, "Jane@Example.com")
	_, err := user.GrantRole(identity.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("finds by email case-insensitively with roles", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "JANE@example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "jane@example.com", found.Email)
		assert.Equal(t, []string{identity.RoleCustomer}, found.Roles)
		assert.True(t, found.VerifyPassword("s3cretpass"))
		assert.True(t, found.Enabled)
		assert.Equal(t, identity.UserTypeWebsite, found.UserType)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, " jane@example.com ")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newTestUser(t, "jane@example.com"))
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("counts role grants", func(t *testing.T) {
		n, err := repo.CountRoleGrants(ctx, user.ID, identity.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountRoleGrants(ctx, user.ID, identity.RoleSystemManager)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("update stores api credentials and role changes", func(t *testing.T) {
		key, secret, err := user.RotateAPICredentials()
		require.NoError(t, err)
		_, err = user.GrantRole(identity.RoleSystemManager)
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByAPIKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.VerifyAPISecret(secret))
		assert.ElementsMatch(t, []string{identity.RoleCustomer, identity.RoleSystemManager}, found.Roles)

		user.Roles = []string{identity.RoleSystemManager}
		require.NoError(t, repo.Update(ctx, user))
		found, err = repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{identity.RoleSystemManager}, found.Roles)
	})

	t.Run("missing users", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		_, err = repo.FindByEmail(ctx, "")
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		_, err = repo.FindByAPIKey(ctx, "")
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		ghost := newTestUser(t, "ghost@example.com")
		assert.True(t, errors.Is(repo.Update(ctx, ghost), shared.ErrNotFound))
	})
}

func TestGormCustomerAndAddressRepositories(t *testing.T) {
	db := setupTestDB(t)
	customers := NewGormCustomerRepository(db)
	addresses := NewGormAddressRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	customer, err := partner.NewCustomerFromProfile(partner.CustomerProfile{
		CompanyName: "Acme Corp",
		Email:       "buyer@acme.test",
	})
	require.NoError(t, err)
	customer.LinkUser(userID)
	require.NoError(t, customers.Create(ctx, customer))

	t.Run("customer lookups", func(t *testing.T) {
		found, err := customers.FindByName(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, partner.CustomerTypeCompany, found.CustomerType)
		assert.Equal(t, "buyer@acme.test", found.EmailID)

		byUser, err := customers.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, byUser.ID)

		exists, err := customers.ExistsByName(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("customer name is unique", func(t *testing.T) {
		dup, err := partner.NewCustomer("Acme Corp", partner.CustomerTypeCompany)
		require.NoError(t, err)
		assert.True(t, errors.Is(customers.Create(ctx, dup), shared.ErrAlreadyExists))
	})

	t.Run("address names follow the series", func(t *testing.T) {
		name, err := addresses.NextName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ADDR-00001", name)

		addr, err := partner.NewAddress("Acme Corp", partner.PostalFields{AddressLine1: "1 Main St", City: "Springfield", Country: "US"})
		require.NoError(t, err)
		addr.Name = name
		addr.AddLink(partner.LinkDoctypeCustomer, "Acme Corp")
		addr.AddLink(partner.LinkDoctypeUser, "buyer@acme.test")
		require.NoError(t, addresses.Create(ctx, addr))

		name, err = addresses.NextName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ADDR-00002", name)
	})

	t.Run("finds addresses by link", func(t *testing.T) {
		byCustomer, err := addresses.FindByLink(ctx, partner.LinkDoctypeCustomer, "Acme Corp")
		require.NoError(t, err)
		require.Len(t, byCustomer, 1)
		assert.Equal(t, "1 Main St", byCustomer[0].AddressLine1)
		assert.Equal(t, []partner.AddressLink{
			{LinkDoctype: partner.LinkDoctypeCustomer, LinkName: "Acme Corp"},
			{LinkDoctype: partner.LinkDoctypeUser, LinkName: "buyer@acme.test"},
		}, byCustomer[0].Links)

		byUser, err := addresses.FindByLink(ctx, partner.LinkDoctypeUser, "buyer@acme.test")
		require.NoError(t, err)
		assert.Len(t, byUser, 1)

		none, err := addresses.FindByLink(ctx, partner.LinkDoctypeUser, "other@acme.test")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestGormIdentityTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormIdentityTransactionScope(db)
	ctx := context.Background()
	boom := errors.New("address insert failed")

	err := scope.Execute(ctx, func(repos appidentity.TransactionalRepositories) error {
		if err := repos.UserRepo().Create(ctx, newTestUser(t, "rollback@example.com")); err != nil {
			return err
		}
		customer, err := partner.NewCustomer("Rollback Co", partner.CustomerTypeCompany)
		if err != nil {
			return err
		}
		if err := repos.CustomerRepo().Create(ctx, customer); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := NewGormUserRepository(db).ExistsByEmail(ctx, "rollback@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = NewGormCustomerRepository(db).ExistsByName(ctx, "Rollback Co")
	require.NoError(t, err)
	assert.False(t, exists)

	err = scope.Execute(ctx, func(repos appidentity.TransactionalRepositories) error {
		return repos.UserRepo().Create(ctx, newTestUser(t, "commit@example.com"))
	})
	require.NoError(t, err)
	exists, err = NewGormUserRepository(db).ExistsByEmail(ctx, "commit@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
