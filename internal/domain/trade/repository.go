package trade

import (
	"context"

	"github.com/vellap/portal/internal/domain/shared"
)

// QuotationFilter narrows quotation listings
type QuotationFilter struct {
	shared.Filter
	PartyName string
	DocStatus *shared.DocStatus
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	Create(ctx context.Context, q *Quotation) error
	Update(ctx context.Context, q *Quotation) error
	FindByName(ctx context.Context, name string) (*Quotation, error)
	FindAll(ctx context.Context, filter QuotationFilter) ([]*Quotation, int64, error)
	NextName(ctx context.Context, prefix string) (string, error)
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	Create(ctx context.Context, order *SalesOrder) error
	Update(ctx context.Context, order *SalesOrder) error
	FindByName(ctx context.Context, name string) (*SalesOrder, error)
	CountByCustomer(ctx context.Context, customer string) (int64, error)
	NextName(ctx context.Context, prefix string) (string, error)
}
