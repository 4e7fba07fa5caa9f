package finance

import (
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePaymentEntry = "PaymentEntry"

// Event type constants
const (
	EventTypePaymentEntrySubmitted = "PaymentEntrySubmitted"
)

// PaymentEntrySubmittedEvent is raised when a payment entry is submitted
type PaymentEntrySubmittedEvent struct {
	shared.BaseDomainEvent
	Name       string          `json:"name"`
	Party      string          `json:"party"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// NewPaymentEntrySubmittedEvent creates a new PaymentEntrySubmittedEvent
func NewPaymentEntrySubmittedEvent(p *PaymentEntry) *PaymentEntrySubmittedEvent {
	return &PaymentEntrySubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentEntrySubmitted, AggregateTypePaymentEntry, p.ID),
		Name:            p.Name,
		Party:           p.Party,
		PaidAmount:      p.PaidAmount,
	}
}
