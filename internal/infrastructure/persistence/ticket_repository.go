package persistence

import (
	"context"

	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTicketRepository implements TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// Create inserts a ticket with its quotation rows. A taken name yields
// shared.ErrAlreadyExists.
func (r *GormTicketRepository) Create(ctx context.Context, ticket *automation.TicketAutomation) error {
	model := models.TicketAutomationModelFromDomain(ticket)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Quotations").Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceChildren(tx, "ticket_id", model.ID, model.Quotations)
	})
}

// Update saves a ticket and replaces its quotation rows
func (r *GormTicketRepository) Update(ctx context.Context, ticket *automation.TicketAutomation) error {
	model := models.TicketAutomationModelFromDomain(ticket)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRow(tx, &models.TicketAutomationModel{}, model.ID, model); err != nil {
			return err
		}
		return replaceChildren(tx, "ticket_id", model.ID, model.Quotations)
	})
}

// FindByName finds a ticket by document name
func (r *GormTicketRepository) FindByName(ctx context.Context, name string) (*automation.TicketAutomation, error) {
	var model models.TicketAutomationModel
	if err := r.db.WithContext(ctx).Preload("Quotations").Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CountByCustomer counts the tickets of a customer
func (r *GormTicketRepository) CountByCustomer(ctx context.Context, customer string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TicketAutomationModel{}).Where("customer = ?", customer).Count(&count).Error
	return count, err
}

// Ensure GormTicketRepository implements automation.TicketRepository
var _ automation.TicketRepository = (*GormTicketRepository)(nil)
