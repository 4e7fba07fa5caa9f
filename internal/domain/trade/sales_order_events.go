package trade

import (
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeQuotation  = "Quotation"
	AggregateTypeSalesOrder = "SalesOrder"
)

// Event type constants
const (
	EventTypeQuotationSubmitted  = "QuotationSubmitted"
	EventTypeSalesOrderCreated   = "SalesOrderCreated"
	EventTypeSalesOrderSubmitted = "SalesOrderSubmitted"
)

// QuotationSubmittedEvent is raised when a quotation is submitted
type QuotationSubmittedEvent struct {
	shared.BaseDomainEvent
	Name       string          `json:"name"`
	PartyName  string          `json:"party_name"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewQuotationSubmittedEvent creates a new QuotationSubmittedEvent
func NewQuotationSubmittedEvent(q *Quotation) *QuotationSubmittedEvent {
	return &QuotationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSubmitted, AggregateTypeQuotation, q.ID),
		Name:            q.Name,
		PartyName:       q.PartyName,
		GrandTotal:      q.GrandTotal,
	}
}

// SalesOrderCreatedEvent is raised when a sales order is built from quotations
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Name           string `json:"name"`
	Customer       string `json:"customer"`
	QuotationCount int    `json:"quotation_count"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder, quotationCount int) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, o.ID),
		Name:            o.Name,
		Customer:        o.Customer,
		QuotationCount:  quotationCount,
	}
}

// SalesOrderSubmittedEvent is raised when a sales order is submitted
type SalesOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	Name       string          `json:"name"`
	Customer   string          `json:"customer"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewSalesOrderSubmittedEvent creates a new SalesOrderSubmittedEvent
func NewSalesOrderSubmittedEvent(o *SalesOrder) *SalesOrderSubmittedEvent {
	return &SalesOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderSubmitted, AggregateTypeSalesOrder, o.ID),
		Name:            o.Name,
		Customer:        o.Customer,
		GrandTotal:      o.GrandTotal,
	}
}
