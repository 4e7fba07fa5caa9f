package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
)

func TestGormQuotationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()
	prefix := shared.SeriesPrefix(shared.SeriesQuotation, testDay)

	for i, party := range []string{"Acme Corp", "Acme Corp", "Globex"} {
		name, err := repo.NextName(ctx, prefix)
		require.NoError(t, err)
		assert.Equal(t, shared.SeriesName(prefix, int64(i+1)), name)

		q := testQuotation(t, name, party,
			testLineItem(t, "ITEM-A", 2, 50),
			testLineItem(t, "ITEM-B", 1, int64(100*(i+1))),
		)
		require.NoError(t, repo.Create(ctx, q))
	}

	t.Run("loads items in row order", func(t *testing.T) {
		q, err := repo.FindByName(ctx, "SAL-QTN-2026-00002")
		require.NoError(t, err)
		require.Len(t, q.Items, 2)
		assert.Equal(t, "ITEM-A", q.Items[0].ItemCode)
		assert.Equal(t, "ITEM-B", q.Items[1].ItemCode)
		assert.True(t, q.GrandTotal.Equal(decimal.NewFromInt(300)), q.GrandTotal.String())
		assert.True(t, q.Items[0].Qty.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, shared.DocStatusDraft, q.DocStatus)
		assert.True(t, q.TransactionDate.Equal(testDay))
	})

	t.Run("update persists submission", func(t *testing.T) {
		q, err := repo.FindByName(ctx, "SAL-QTN-2026-00001")
		require.NoError(t, err)
		require.NoError(t, q.Submit(testDay))
		require.NoError(t, repo.Update(ctx, q))

		reloaded, err := repo.FindByName(ctx, q.Name)
		require.NoError(t, err)
		assert.Equal(t, shared.DocStatusSubmitted, reloaded.DocStatus)
		require.NotNil(t, reloaded.SubmittedAt)
		assert.Len(t, reloaded.Items, 2)
	})

	t.Run("filters and paginates", func(t *testing.T) {
		filter := trade.QuotationFilter{
			Filter:    shared.Filter{Page: 1, PageSize: 1, OrderBy: "name", OrderDir: "asc"},
			PartyName: "Acme Corp",
		}
		page, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, page, 1)
		assert.Equal(t, "SAL-QTN-2026-00001", page[0].Name)
		assert.Len(t, page[0].Items, 2)

		filter.Page = 2
		page, _, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "SAL-QTN-2026-00002", page[0].Name)

		draft := shared.DocStatusDraft
		filter = trade.QuotationFilter{
			Filter:    shared.Filter{OrderBy: "name; DROP TABLE quotations", OrderDir: "sideways"},
			DocStatus: &draft,
		}
		all, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)
	})

	t.Run("missing quotation", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "SAL-QTN-2026-99999")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("duplicate name", func(t *testing.T) {
		dup := testQuotation(t, "SAL-QTN-2026-00001", "Acme Corp", testLineItem(t, "ITEM-A", 1, 1))
		assert.True(t, errors.Is(repo.Create(ctx, dup), shared.ErrAlreadyExists))
	})
}

func TestGormSalesOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	q1 := testQuotation(t, "SAL-QTN-2026-00001", "Acme Corp", testLineItem(t, "ITEM-A", 2, 50))
	q2 := testQuotation(t, "SAL-QTN-2026-00002", "Acme Corp",
		testLineItem(t, "ITEM-B", 1, 30),
		testLineItem(t, "ITEM-C", 3, 10),
	)
	require.NoError(t, q1.Submit(testDay))
	require.NoError(t, q2.Submit(testDay))

	prefix := shared.SeriesPrefix(shared.SeriesSalesOrder, testDay)
	name, err := repo.NextName(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, "SAL-ORD-2026-00001", name)

	order, err := trade.NewSalesOrderFromQuotations(name, "Acme Corp", "Vellap Ltd", testDay, []*trade.Quotation{q1, q2})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	t.Run("round trips items with their quotations", func(t *testing.T) {
		found, err := repo.FindByName(ctx, name)
		require.NoError(t, err)
		require.Len(t, found.Items, 3)
		assert.Equal(t, []string{"ITEM-A", "ITEM-B", "ITEM-C"}, []string{
			found.Items[0].ItemCode, found.Items[1].ItemCode, found.Items[2].ItemCode,
		})
		assert.Equal(t, []string{"SAL-QTN-2026-00001", "SAL-QTN-2026-00002"}, found.QuotationNames())
		assert.True(t, found.GrandTotal.Equal(decimal.NewFromInt(160)), found.GrandTotal.String())
		assert.True(t, found.DeliveryDate.Equal(shared.AddDays(testDay, trade.DeliveryLeadDays)))
	})

	t.Run("update and count", func(t *testing.T) {
		require.NoError(t, order.Submit(testDay))
		require.NoError(t, repo.Update(ctx, order))

		found, err := repo.FindByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, shared.DocStatusSubmitted, found.DocStatus)

		n, err := repo.CountByCustomer(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		next, err := repo.NextName(ctx, prefix)
		require.NoError(t, err)
		assert.Equal(t, "SAL-ORD-2026-00002", next)
	})
}
