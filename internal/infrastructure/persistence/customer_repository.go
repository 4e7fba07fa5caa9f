package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a customer. A taken name yields shared.ErrAlreadyExists.
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error)
}

// FindByName finds a customer by document name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the customer owned by a portal user
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByName checks if a customer document name is taken
func (r *GormCustomerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// Ensure GormCustomerRepository implements partner.CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
