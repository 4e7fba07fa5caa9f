package automation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/shared"
)

// CycleOutcome classifies a sales cycle that did not fail
type CycleOutcome string

const (
	// CycleCompleted means a Sales Order and a Payment Entry were created
	CycleCompleted CycleOutcome = "completed"
	// CycleStopped means no quotation could be submitted; nothing was created
	CycleStopped CycleOutcome = "stopped"
	// cycleFailed is only reported to metrics
	cycleFailed CycleOutcome = "failed"
)

// Sales cycle notices shown to the submitting user
const (
	NoticeStarting           = "Starting automation of the sales cycle..."
	NoticeQuotationDone      = "Quotation %s submitted successfully."
	NoticeQuotationFailed    = "Failed to submit Quotation %s. Error: %s"
	NoticeNoQuotations       = "No valid Quotations found to submit. Stopping cycle."
	NoticeSalesOrderDone     = "Sales Order %s created from %d quotations."
	NoticeSalesOrderFailed   = "Failed to create/submit Sales Order. Error: %s"
	NoticeNoDefaultAccount   = "No default account found for Mode of Payment '%s' in company '%s'."
	NoticePaymentEntryDone   = "Payment Entry %s created and submitted."
	NoticePaymentEntryFailed = "Failed to create/submit Payment Entry. Error: %s"
	NoticeCompleted          = "Sales cycle automation completed successfully."
)

// CycleResult reports a sales cycle that ran to completion or stopped early
type CycleResult struct {
	Ticket       string          `json:"ticket"`
	Outcome      CycleOutcome    `json:"outcome"`
	Notices      []string        `json:"notices"`
	SalesOrder   string          `json:"sales_order,omitempty"`
	PaymentEntry string          `json:"payment_entry,omitempty"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`

	events []shared.DomainEvent
}

// CycleError is a fatal sales cycle failure. The transaction was rolled back
// and the ticket is still a draft.
type CycleError struct {
	Notices []string
	Err     *shared.DomainError
}

// Error returns the last notice
func (e *CycleError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the SALES_CYCLE_FAILED domain error
func (e *CycleError) Unwrap() error {
	return e.Err
}

// TicketQuotationInput is a quotation row of a new ticket.
// Missing amount, status and date are filled from the quotation.
type TicketQuotationInput struct {
	Quotation   string           `json:"quotation" binding:"required"`
	TotalAmount *decimal.Decimal `json:"total_amount" swaggertype:"string"`
	Status      string           `json:"status"`
	Date        *time.Time       `json:"date"`
}

// CreateTicketInput contains the fields of a new Ticket Automation
type CreateTicketInput struct {
	Customer           string                 `json:"customer" binding:"required,max=140"`
	Company            string                 `json:"company" binding:"omitempty,max=140"`
	ModeOfPayment      string                 `json:"mode_of_payment" binding:"required,max=140"`
	InvoiceReferenceNo string                 `json:"invoice_reference_no" binding:"omitempty,max=140"`
	Quotations         []TicketQuotationInput `json:"quotations" binding:"omitempty,dive"`
}

// TicketQuotationResponse is a quotation row of a ticket
type TicketQuotationResponse struct {
	Quotation   string          `json:"quotation"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string"`
	Status      string          `json:"status"`
	Date        *time.Time      `json:"date,omitempty"`
}

// TicketResponse is the API view of a Ticket Automation
type TicketResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Customer           string                    `json:"customer"`
	Company            string                    `json:"company"`
	ModeOfPayment      string                    `json:"mode_of_payment"`
	TotalAmount        decimal.Decimal           `json:"total_amount" swaggertype:"string"`
	InvoiceReferenceNo string                    `json:"invoice_reference_no,omitempty"`
	Quotations         []TicketQuotationResponse `json:"quotations"`
	DocStatus          int                       `json:"docstatus"`
	Status             string                    `json:"status"`
	SalesOrder         string                    `json:"sales_order,omitempty"`
	PaymentEntry       string                    `json:"payment_entry,omitempty"`
	SubmittedAt        *time.Time                `json:"submitted_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// ToTicketResponse converts a ticket to its API view
func ToTicketResponse(t *automation.TicketAutomation) TicketResponse {
	rows := make([]TicketQuotationResponse, len(t.Quotations))
	for i, q := range t.Quotations {
		rows[i] = TicketQuotationResponse{
			Quotation:   q.Quotation,
			TotalAmount: q.TotalAmount,
			Status:      q.Status,
		}
		if !q.Date.IsZero() {
			d := q.Date
			rows[i].Date = &d
		}
	}
	return TicketResponse{
		ID:                 t.ID.String(),
		Name:               t.Name,
		Customer:           t.Customer,
		Company:            t.Company,
		ModeOfPayment:      t.ModeOfPayment,
		TotalAmount:        t.TotalAmount,
		InvoiceReferenceNo: t.InvoiceReferenceNo,
		Quotations:         rows,
		DocStatus:          int(t.DocStatus),
		Status:             t.DocStatus.String(),
		SalesOrder:         t.SalesOrder,
		PaymentEntry:       t.PaymentEntry,
		SubmittedAt:        t.SubmittedAt,
		CreatedAt:          t.CreatedAt,
	}
}
