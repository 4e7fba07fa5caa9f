package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/shared"
	"go.uber.org/zap"
)

// MockAccountRepository is a mock implementation of finance.ModeOfPaymentAccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindDefaultAccount(ctx context.Context, modeOfPayment, company string) (string, error) {
	args := m.Called(ctx, modeOfPayment, company)
	return args.String(0), args.Error(1)
}

func (m *MockAccountRepository) Upsert(ctx context.Context, account *finance.ModeOfPaymentAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func TestPaymentAccountService_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts a trimmed mapping", func(t *testing.T) {
		repo := new(MockAccountRepository)
		service := NewPaymentAccountService(repo, zap.NewNop())
		repo.On("Upsert", ctx, mock.MatchedBy(func(a *finance.ModeOfPaymentAccount) bool {
			return a.ModeOfPayment == "Wire Transfer" && a.Company == "Vellap Ltd" && a.DefaultAccount == "Bank - VL"
		})).Return(nil)

		resp, err := service.Set(ctx, SetAccountInput{
			ModeOfPayment:  " Wire Transfer",
			Company:        "Vellap Ltd ",
			DefaultAccount: "Bank - VL",
		})
		require.NoError(t, err)
		assert.Equal(t, "Wire Transfer", resp.ModeOfPayment)
		assert.Equal(t, "Bank - VL", resp.DefaultAccount)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a missing account", func(t *testing.T) {
		repo := new(MockAccountRepository)
		service := NewPaymentAccountService(repo, zap.NewNop())

		_, err := service.Set(ctx, SetAccountInput{ModeOfPayment: "Cash", Company: "Vellap Ltd"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT", domainErr.Code)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestPaymentAccountService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	service := NewPaymentAccountService(repo, zap.NewNop())

	repo.On("FindDefaultAccount", ctx, "Cash", "Vellap Ltd").Return("Cash - VL", nil)
	repo.On("FindDefaultAccount", ctx, "Card", "Vellap Ltd").Return("", shared.ErrNotFound)

	resp, err := service.Get(ctx, "Cash", "Vellap Ltd")
	require.NoError(t, err)
	assert.Equal(t, "Cash - VL", resp.DefaultAccount)

	_, err = service.Get(ctx, "Card", "Vellap Ltd")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
