package persistence

import (
	"context"

	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// Create inserts a quotation with its items
func (r *GormQuotationRepository) Create(ctx context.Context, q *trade.Quotation) error {
	model := models.QuotationModelFromDomain(q)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceChildren(tx, "quotation_id", model.ID, model.Items)
	})
}

// Update saves a quotation and replaces its items
func (r *GormQuotationRepository) Update(ctx context.Context, q *trade.Quotation) error {
	model := models.QuotationModelFromDomain(q)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, &models.QuotationModel{}, model.ID, model); err != nil {
			return err
		}
		return replaceChildren(tx, "quotation_id", model.ID, model.Items)
	})
}

// FindByName finds a quotation by document name
func (r *GormQuotationRepository) FindByName(ctx context.Context, name string) (*trade.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists quotations matching the filter with pagination
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter trade.QuotationFilter) ([]*trade.Quotation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{})
	if filter.PartyName != "" {
		query = query.Where("party_name = ?", filter.PartyName)
	}
	if filter.DocStatus != nil {
		query = query.Where("doc_status = ?", *filter.DocStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.QuotationModel
	if err := query.Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	quotations := make([]*trade.Quotation, len(rows))
	for i := range rows {
		quotations[i] = rows[i].ToDomain()
	}
	return quotations, total, nil
}

// NextName allocates the next name for a dated quotation prefix
func (r *GormQuotationRepository) NextName(ctx context.Context, prefix string) (string, error) {
	return nextSeriesName(ctx, r.db, &models.QuotationModel{}, prefix)
}

// Ensure GormQuotationRepository implements trade.QuotationRepository
var _ trade.QuotationRepository = (*GormQuotationRepository)(nil)
