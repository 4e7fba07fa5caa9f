package partner

import "github.com/vellap/portal/internal/domain/shared"

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeAddress  = "Address"
)

// Partner domain event types
const (
	EventTypeCustomerCreated = "CustomerCreated"
)

// CustomerCreatedEvent is published when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string       `json:"name"`
	CustomerType CustomerType `json:"customer_type"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		Name:            c.Name,
		CustomerType:    c.CustomerType,
	}
}
