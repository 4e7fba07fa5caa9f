package automation

import "context"

// TicketRepository defines the interface for ticket persistence
type TicketRepository interface {
	Create(ctx context.Context, ticket *TicketAutomation) error
	Update(ctx context.Context, ticket *TicketAutomation) error
	FindByName(ctx context.Context, name string) (*TicketAutomation, error)

	// CountByCustomer counts existing tickets of a customer, used for autoname
	CountByCustomer(ctx context.Context, customer string) (int64, error)
}
