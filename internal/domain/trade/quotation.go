package trade

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// DoctypeQuotation is the document type label of quotations
const DoctypeQuotation = "Quotation"

// Quotation is a priced proposal to a customer
type Quotation struct {
	shared.BaseAggregateRoot
	Name            string
	PartyName       string // Customer document name
	Company         string
	TransactionDate time.Time
	Items           []LineItem
	GrandTotal      decimal.Decimal
	DocStatus       shared.DocStatus
	SubmittedAt     *time.Time
}

// NewQuotation creates a draft quotation
func NewQuotation(name, partyName, company string, transactionDate time.Time, items []LineItem) (*Quotation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Quotation name cannot be empty")
	}
	if strings.TrimSpace(partyName) == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Quotation customer cannot be empty")
	}
	if strings.TrimSpace(company) == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Quotation company cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Quotation must have at least one item")
	}

	q := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		PartyName:         strings.TrimSpace(partyName),
		Company:           strings.TrimSpace(company),
		TransactionDate:   shared.Today(transactionDate),
		Items:             append([]LineItem(nil), items...),
		GrandTotal:        sumAmounts(items),
		DocStatus:         shared.DocStatusDraft,
	}
	return q, nil
}

// DocName returns the document name
func (q *Quotation) DocName() string { return q.Name }

// DocType returns the document type label
func (q *Quotation) DocType() string { return DoctypeQuotation }

// GetDocStatus returns the lifecycle state
func (q *Quotation) GetDocStatus() shared.DocStatus { return q.DocStatus }

// IsSubmitted reports whether the quotation was already submitted
func (q *Quotation) IsSubmitted() bool {
	return q.DocStatus == shared.DocStatusSubmitted
}

// Submit moves a draft quotation to submitted
func (q *Quotation) Submit(at time.Time) error {
	if q.DocStatus != shared.DocStatusDraft {
		return shared.ErrDocumentNotDraft(DoctypeQuotation, q.Name, q.DocStatus)
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit a quotation without items")
	}

	q.DocStatus = shared.DocStatusSubmitted
	q.SubmittedAt = &at
	q.Touch()
	q.IncrementVersion()
	q.AddDomainEvent(NewQuotationSubmittedEvent(q))
	return nil
}

// Cancel cancels a submitted quotation
func (q *Quotation) Cancel() error {
	if q.DocStatus != shared.DocStatusSubmitted {
		return shared.NewDomainErrorf("INVALID_STATE", "Quotation %s can only be cancelled after submission", q.Name)
	}
	q.DocStatus = shared.DocStatusCancelled
	q.Touch()
	q.IncrementVersion()
	return nil
}
