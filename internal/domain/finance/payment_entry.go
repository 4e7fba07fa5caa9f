package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// DoctypePaymentEntry is the document type label of payment entries
const DoctypePaymentEntry = "Payment Entry"

// ReferenceLeadDays is the offset of the reference and due date from the posting date
const ReferenceLeadDays = 8

// PaymentType is the direction of a payment
type PaymentType string

const (
	PaymentTypeReceive PaymentType = "Receive"
	PaymentTypePay     PaymentType = "Pay"
)

// PartyType is the kind of counterparty
type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
)

// PaymentReference allocates part of a payment to another document
type PaymentReference struct {
	ReferenceDoctype string
	ReferenceName    string
	DueDate          time.Time
	AllocatedAmount  decimal.Decimal
}

// PaymentEntry records money received from or paid to a party
type PaymentEntry struct {
	shared.BaseAggregateRoot
	Name           string
	PaymentType    PaymentType
	Company        string
	PartyType      PartyType
	Party          string
	PostingDate    time.Time
	ModeOfPayment  string
	PaidTo         string
	PaidAmount     decimal.Decimal
	ReceivedAmount decimal.Decimal
	ReferenceNo    string
	ReferenceDate  time.Time
	References     []PaymentReference
	DocStatus      shared.DocStatus
	SubmittedAt    *time.Time
}

// ReceiptRequest holds the fields of a customer receipt against an order
type ReceiptRequest struct {
	Name          string
	Company       string
	Customer      string
	ModeOfPayment string
	PaidTo        string
	Amount        decimal.Decimal
	ReferenceNo   string
	OrderDoctype  string
	OrderName     string
	Today         time.Time
}

// NewReceipt builds a draft Receive entry for the full amount, allocated to one order.
// Reference and due date are ReferenceLeadDays after today.
func NewReceipt(req ReceiptRequest) (*PaymentEntry, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Payment entry name cannot be empty")
	}
	if strings.TrimSpace(req.Customer) == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Payment entry party cannot be empty")
	}
	if strings.TrimSpace(req.PaidTo) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Paid to account cannot be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}
	if strings.TrimSpace(req.OrderName) == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment entry must reference an order")
	}

	referenceDate := shared.AddDays(req.Today, ReferenceLeadDays)
	pe := &PaymentEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              req.Name,
		PaymentType:       PaymentTypeReceive,
		Company:           req.Company,
		PartyType:         PartyTypeCustomer,
		Party:             req.Customer,
		PostingDate:       shared.Today(req.Today),
		ModeOfPayment:     req.ModeOfPayment,
		PaidTo:            req.PaidTo,
		PaidAmount:        req.Amount,
		ReceivedAmount:    req.Amount,
		ReferenceNo:       req.ReferenceNo,
		ReferenceDate:     referenceDate,
		References: []PaymentReference{{
			ReferenceDoctype: req.OrderDoctype,
			ReferenceName:    req.OrderName,
			DueDate:          referenceDate,
			AllocatedAmount:  req.Amount,
		}},
		DocStatus: shared.DocStatusDraft,
	}
	return pe, nil
}

// DocName returns the document name
func (p *PaymentEntry) DocName() string { return p.Name }

// DocType returns the document type label
func (p *PaymentEntry) DocType() string { return DoctypePaymentEntry }

// GetDocStatus returns the lifecycle state
func (p *PaymentEntry) GetDocStatus() shared.DocStatus { return p.DocStatus }

// TotalAllocated sums the allocated amounts of all references
func (p *PaymentEntry) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, ref := range p.References {
		total = total.Add(ref.AllocatedAmount)
	}
	return total
}

// Submit moves a draft entry to submitted
func (p *PaymentEntry) Submit(at time.Time) error {
	if p.DocStatus != shared.DocStatusDraft {
		return shared.ErrDocumentNotDraft(DoctypePaymentEntry, p.Name, p.DocStatus)
	}
	if p.TotalAllocated().GreaterThan(p.PaidAmount) {
		return shared.NewDomainError("OVER_ALLOCATION", "Allocated amount cannot exceed the paid amount")
	}
	if p.ReferenceNo != "" && p.ReferenceDate.IsZero() {
		return shared.NewDomainError("MISSING_REFERENCE_DATE", "Reference date is required when a reference number is set")
	}

	p.DocStatus = shared.DocStatusSubmitted
	p.SubmittedAt = &at
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentEntrySubmittedEvent(p))
	return nil
}
