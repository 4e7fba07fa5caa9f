package persistence

import (
	"context"

	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Create inserts the address and its links
func (r *GormAddressRepository) Create(ctx context.Context, address *partner.Address) error {
	model := models.AddressModelFromDomain(address)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Links").Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceChildren(tx, "address_id", model.ID, model.Links)
	})
}

// FindByLink returns the addresses linked to a document, oldest first
func (r *GormAddressRepository) FindByLink(ctx context.Context, linkDoctype, linkName string) ([]*partner.Address, error) {
	var rows []models.AddressModel
	err := r.db.WithContext(ctx).
		Preload("Links").
		Where("id IN (?)", r.db.Model(&models.AddressLinkModel{}).
			Select("address_id").
			Where("link_doctype = ? AND link_name = ?", linkDoctype, linkName)).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	addresses := make([]*partner.Address, len(rows))
	for i := range rows {
		addresses[i] = rows[i].ToDomain()
	}
	return addresses, nil
}

// NextName allocates the next ADDR- document name
func (r *GormAddressRepository) NextName(ctx context.Context) (string, error) {
	return nextSeriesName(ctx, r.db, &models.AddressModel{}, shared.SeriesAddress)
}

// Ensure GormAddressRepository implements partner.AddressRepository
var _ partner.AddressRepository = (*GormAddressRepository)(nil)
