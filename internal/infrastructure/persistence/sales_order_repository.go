package persistence

import (
	"context"

	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// Create inserts a sales order with its items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceChildren(tx, "sales_order_id", model.ID, model.Items)
	})
}

// Update saves a sales order and replaces its items
func (r *GormSalesOrderRepository) Update(ctx context.Context, order *trade.SalesOrder) error {
	model := models.SalesOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, &models.SalesOrderModel{}, model.ID, model); err != nil {
			return err
		}
		return replaceChildren(tx, "sales_order_id", model.ID, model.Items)
	})
}

// FindByName finds a sales order by document name
func (r *GormSalesOrderRepository) FindByName(ctx context.Context, name string) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CountByCustomer counts the sales orders of a customer
func (r *GormSalesOrderRepository) CountByCustomer(ctx context.Context, customer string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Where("customer = ?", customer).Count(&count).Error
	return count, err
}

// NextName allocates the next name for a dated sales order prefix
func (r *GormSalesOrderRepository) NextName(ctx context.Context, prefix string) (string, error) {
	return nextSeriesName(ctx, r.db, &models.SalesOrderModel{}, prefix)
}

// Ensure GormSalesOrderRepository implements trade.SalesOrderRepository
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
