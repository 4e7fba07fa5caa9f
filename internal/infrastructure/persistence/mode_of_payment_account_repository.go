package persistence

import (
	"context"
	"time"

	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormModeOfPaymentAccountRepository implements ModeOfPaymentAccountRepository using GORM
type GormModeOfPaymentAccountRepository struct {
	db *gorm.DB
}

// NewGormModeOfPaymentAccountRepository creates a new GormModeOfPaymentAccountRepository
func NewGormModeOfPaymentAccountRepository(db *gorm.DB) *GormModeOfPaymentAccountRepository {
	return &GormModeOfPaymentAccountRepository{db: db}
}

// FindDefaultAccount returns the default account for a mode of payment and
// company, or shared.ErrNotFound when none is configured
func (r *GormModeOfPaymentAccountRepository) FindDefaultAccount(ctx context.Context, modeOfPayment, company string) (string, error) {
	var model models.ModeOfPaymentAccountModel
	err := r.db.WithContext(ctx).
		Where("mode_of_payment = ? AND company = ?", modeOfPayment, company).
		First(&model).Error
	if err != nil {
		return "", translateError(err)
	}
	return model.DefaultAccount, nil
}

// Upsert creates the mapping or replaces the default account of an existing one
func (r *GormModeOfPaymentAccountRepository) Upsert(ctx context.Context, account *finance.ModeOfPaymentAccount) error {
	model := models.ModeOfPaymentAccountModelFromDomain(account)
	model.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mode_of_payment"}, {Name: "company"}},
		DoUpdates: clause.AssignmentColumns([]string{"default_account", "updated_at"}),
	}).Create(model).Error)
}

// Ensure GormModeOfPaymentAccountRepository implements finance.ModeOfPaymentAccountRepository
var _ finance.ModeOfPaymentAccountRepository = (*GormModeOfPaymentAccountRepository)(nil)
