package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func testLineItem(t *testing.T, code string, qty, rate int64) trade.LineItem {
	t.Helper()
	item, err := trade.NewLineItem(code, "", "", decimal.NewFromInt(qty), decimal.NewFromInt(rate), "")
	require.NoError(t, err)
	return item
}

func testQuotation(t *testing.T, name, party string, items ...trade.LineItem) *trade.Quotation {
	t.Helper()
	q, err := trade.NewQuotation(name, party, "Vellap Ltd", testDay, items)
	require.NoError(t, err)
	return q
}
