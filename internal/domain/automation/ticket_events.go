package automation

import (
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTicketAutomation = "TicketAutomation"

// Event type constants
const (
	EventTypeTicketSubmitted     = "TicketAutomationSubmitted"
	EventTypeSalesCycleCompleted = "SalesCycleCompleted"
	EventTypeSalesCycleStopped   = "SalesCycleStopped"
)

// TicketSubmittedEvent is raised when a ticket is submitted
type TicketSubmittedEvent struct {
	shared.BaseDomainEvent
	Name       string   `json:"name"`
	Customer   string   `json:"customer"`
	Quotations []string `json:"quotations"`
}

// NewTicketSubmittedEvent creates a new TicketSubmittedEvent
func NewTicketSubmittedEvent(t *TicketAutomation) *TicketSubmittedEvent {
	return &TicketSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketSubmitted, AggregateTypeTicketAutomation, t.ID),
		Name:            t.Name,
		Customer:        t.Customer,
		Quotations:      t.QuotationNames(),
	}
}

// SalesCycleCompletedEvent is raised after a ticket produced an order and a payment
type SalesCycleCompletedEvent struct {
	shared.BaseDomainEvent
	Ticket       string          `json:"ticket"`
	SalesOrder   string          `json:"sales_order"`
	PaymentEntry string          `json:"payment_entry"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewSalesCycleCompletedEvent creates a new SalesCycleCompletedEvent
func NewSalesCycleCompletedEvent(t *TicketAutomation) *SalesCycleCompletedEvent {
	return &SalesCycleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesCycleCompleted, AggregateTypeTicketAutomation, t.ID),
		Ticket:          t.Name,
		SalesOrder:      t.SalesOrder,
		PaymentEntry:    t.PaymentEntry,
		Amount:          t.TotalAmount,
	}
}

// SalesCycleStoppedEvent is raised when a ticket had nothing to process
type SalesCycleStoppedEvent struct {
	shared.BaseDomainEvent
	Ticket string `json:"ticket"`
	Reason string `json:"reason"`
}

// NewSalesCycleStoppedEvent creates a new SalesCycleStoppedEvent
func NewSalesCycleStoppedEvent(t *TicketAutomation, reason string) *SalesCycleStoppedEvent {
	return &SalesCycleStoppedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesCycleStopped, AggregateTypeTicketAutomation, t.ID),
		Ticket:          t.Name,
		Reason:          reason,
	}
}
