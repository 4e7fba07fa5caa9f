package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// DoctypeTicketAutomation is the document type label of tickets
const DoctypeTicketAutomation = "Ticket Automation"

// TicketQuotation is a quotation row on a ticket
type TicketQuotation struct {
	Quotation   string
	TotalAmount decimal.Decimal
	Status      string
	Date        time.Time
}

// TicketAutomation is the trigger document for one sales cycle
type TicketAutomation struct {
	shared.BaseAggregateRoot
	Name               string
	Customer           string
	Company            string
	ModeOfPayment      string
	TotalAmount        decimal.Decimal
	InvoiceReferenceNo string
	Quotations         []TicketQuotation
	DocStatus          shared.DocStatus
	SalesOrder         string
	PaymentEntry       string
	SubmittedAt        *time.Time
}

// TicketName builds "<CustomerNameNoSpaces>-Ticket-#NN" for the seq-th ticket of a customer.
// An empty customer is named "Customer".
func TicketName(customer string, seq int64) string {
	base := strings.TrimSpace(customer)
	if base == "" {
		base = "Customer"
	}
	base = strings.ReplaceAll(base, " ", "")
	return fmt.Sprintf("%s-Ticket-#%02d", base, seq)
}

// NewTicketAutomation creates a draft ticket.
// existing is the number of tickets the customer already has.
func NewTicketAutomation(customer, company, modeOfPayment, invoiceReferenceNo string, existing int64, rows []TicketQuotation) (*TicketAutomation, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Ticket customer cannot be empty")
	}
	if strings.TrimSpace(company) == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Ticket company cannot be empty")
	}
	if strings.TrimSpace(modeOfPayment) == "" {
		return nil, shared.NewDomainError("INVALID_MODE_OF_PAYMENT", "Ticket mode of payment cannot be empty")
	}

	t := &TicketAutomation{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               TicketName(customer, existing+1),
		Customer:           customer,
		Company:            strings.TrimSpace(company),
		ModeOfPayment:      strings.TrimSpace(modeOfPayment),
		InvoiceReferenceNo: strings.TrimSpace(invoiceReferenceNo),
		DocStatus:          shared.DocStatusDraft,
	}
	if err := t.SetQuotations(rows); err != nil {
		return nil, err
	}
	return t, nil
}

// DocName returns the document name
func (t *TicketAutomation) DocName() string { return t.Name }

// DocType returns the document type label
func (t *TicketAutomation) DocType() string { return DoctypeTicketAutomation }

// GetDocStatus returns the lifecycle state
func (t *TicketAutomation) GetDocStatus() shared.DocStatus { return t.DocStatus }

// SetQuotations replaces the quotation rows and recomputes the total
func (t *TicketAutomation) SetQuotations(rows []TicketQuotation) error {
	if t.DocStatus != shared.DocStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Quotations can only be changed on a draft ticket")
	}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Quotation) == "" {
			return shared.NewDomainError("INVALID_QUOTATION", "Quotation reference cannot be empty")
		}
		if seen[row.Quotation] {
			return shared.NewDomainErrorf("DUPLICATE_QUOTATION", "Quotation %s is listed more than once", row.Quotation)
		}
		seen[row.Quotation] = true
	}

	t.Quotations = append([]TicketQuotation(nil), rows...)
	t.Validate()
	return nil
}

// Validate recomputes the total amount from the quotation rows
func (t *TicketAutomation) Validate() {
	total := decimal.Zero
	for _, row := range t.Quotations {
		total = total.Add(row.TotalAmount)
	}
	t.TotalAmount = total
	t.Touch()
}

// QuotationNames returns the referenced quotations in row order
func (t *TicketAutomation) QuotationNames() []string {
	names := make([]string, len(t.Quotations))
	for i, row := range t.Quotations {
		names[i] = row.Quotation
	}
	return names
}

// Submit moves the ticket to submitted. A ticket is submitted once.
func (t *TicketAutomation) Submit(at time.Time) error {
	if t.DocStatus == shared.DocStatusSubmitted {
		return ErrTicketAlreadySubmitted(t.Name)
	}
	if t.DocStatus != shared.DocStatusDraft {
		return shared.ErrDocumentNotDraft(DoctypeTicketAutomation, t.Name, t.DocStatus)
	}

	t.DocStatus = shared.DocStatusSubmitted
	t.SubmittedAt = &at
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTicketSubmittedEvent(t))
	return nil
}

// RecordCycle stores the documents produced by the sales cycle
func (t *TicketAutomation) RecordCycle(salesOrder, paymentEntry string) {
	t.SalesOrder = salesOrder
	t.PaymentEntry = paymentEntry
	t.Touch()
}

// ErrTicketAlreadySubmitted is returned when a ticket is submitted twice
func ErrTicketAlreadySubmitted(name string) *shared.DomainError {
	return shared.NewDomainErrorf("TICKET_ALREADY_SUBMITTED", "Ticket Automation %s has already been submitted", name)
}
