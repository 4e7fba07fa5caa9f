package persistence

import (
	"context"

	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentEntryRepository implements PaymentEntryRepository using GORM
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

// Create inserts a payment entry with its references
func (r *GormPaymentEntryRepository) Create(ctx context.Context, entry *finance.PaymentEntry) error {
	model := models.PaymentEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("References").Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceChildren(tx, "payment_entry_id", model.ID, model.References)
	})
}

// Update saves a payment entry and replaces its references
func (r *GormPaymentEntryRepository) Update(ctx context.Context, entry *finance.PaymentEntry) error {
	model := models.PaymentEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, &models.PaymentEntryModel{}, model.ID, model); err != nil {
			return err
		}
		return replaceChildren(tx, "payment_entry_id", model.ID, model.References)
	})
}

// FindByName finds a payment entry by document name
func (r *GormPaymentEntryRepository) FindByName(ctx context.Context, name string) (*finance.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := r.db.WithContext(ctx).Preload("References").Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByReference returns the payment entries allocated to a document
func (r *GormPaymentEntryRepository) FindByReference(ctx context.Context, doctype, name string) ([]*finance.PaymentEntry, error) {
	var rows []models.PaymentEntryModel
	err := r.db.WithContext(ctx).
		Preload("References").
		Where("id IN (?)", r.db.Model(&models.PaymentReferenceModel{}).
			Select("payment_entry_id").
			Where("reference_doctype = ? AND reference_name = ?", doctype, name)).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*finance.PaymentEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// NextName allocates the next name for a dated payment entry prefix
func (r *GormPaymentEntryRepository) NextName(ctx context.Context, prefix string) (string, error) {
	return nextSeriesName(ctx, r.db, &models.PaymentEntryModel{}, prefix)
}

// Ensure GormPaymentEntryRepository implements finance.PaymentEntryRepository
var _ finance.PaymentEntryRepository = (*GormPaymentEntryRepository)(nil)
