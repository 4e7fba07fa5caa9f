package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
)

func TestGormPaymentEntryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentEntryRepository(db)
	ctx := context.Background()
	prefix := shared.SeriesPrefix(shared.SeriesPaymentEntry, testDay)

	name, err := repo.NextName(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, "ACC-PAY-2026-00001", name)

	entry, err := finance.NewReceipt(finance.ReceiptRequest{
		Name:          name,
		Company:       "Vellap Ltd",
		Customer:      "Acme Corp",
		ModeOfPayment: "Wire Transfer",
		PaidTo:        "Bank - VL",
		Amount:        decimal.NewFromInt(160),
		ReferenceNo:   "INV-77",
		OrderDoctype:  trade.DoctypeSalesOrder,
		OrderName:     "SAL-ORD-2026-00001",
		Today:         testDay,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, entry))

	t.Run("round trips references", func(t *testing.T) {
		found, err := repo.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, finance.PaymentTypeReceive, found.PaymentType)
		assert.Equal(t, "Bank - VL", found.PaidTo)
		assert.True(t, found.PaidAmount.Equal(decimal.NewFromInt(160)))
		assert.True(t, found.ReferenceDate.Equal(shared.AddDays(testDay, finance.ReferenceLeadDays)))
		require.Len(t, found.References, 1)
		assert.Equal(t, "SAL-ORD-2026-00001", found.References[0].ReferenceName)
		assert.True(t, found.TotalAllocated().Equal(decimal.NewFromInt(160)))
	})

	t.Run("finds entries by reference", func(t *testing.T) {
		entries, err := repo.FindByReference(ctx, trade.DoctypeSalesOrder, "SAL-ORD-2026-00001")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, name, entries[0].Name)
		assert.Len(t, entries[0].References, 1)

		none, err := repo.FindByReference(ctx, trade.DoctypeSalesOrder, "SAL-ORD-2026-00002")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update persists submission", func(t *testing.T) {
		require.NoError(t, entry.Submit(testDay))
		require.NoError(t, repo.Update(ctx, entry))
		found, err := repo.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, shared.DocStatusSubmitted, found.DocStatus)
		assert.Len(t, found.References, 1)
	})
}

func TestGormModeOfPaymentAccountRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormModeOfPaymentAccountRepository(db)
	ctx := context.Background()

	_, err := repo.FindDefaultAccount(ctx, "Wire Transfer", "Vellap Ltd")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	account, err := finance.NewModeOfPaymentAccount("Wire Transfer", "Vellap Ltd", "Bank - VL")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, account))

	got, err := repo.FindDefaultAccount(ctx, "Wire Transfer", "Vellap Ltd")
	require.NoError(t, err)
	assert.Equal(t, "Bank - VL", got)

	replacement, err := finance.NewModeOfPaymentAccount("Wire Transfer", "Vellap Ltd", "Bank 2 - VL")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, replacement))

	got, err = repo.FindDefaultAccount(ctx, "Wire Transfer", "Vellap Ltd")
	require.NoError(t, err)
	assert.Equal(t, "Bank 2 - VL", got)

	_, err = repo.FindDefaultAccount(ctx, "Wire Transfer", "Other Co")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
