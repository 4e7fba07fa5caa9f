package trade

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// DoctypeSalesOrder is the document type label of sales orders
const DoctypeSalesOrder = "Sales Order"

// DeliveryLeadDays is the default delivery offset from the order date
const DeliveryLeadDays = 7

// SalesOrderItem is a line item remembering the quotation it came from
type SalesOrderItem struct {
	LineItem
	QuotationName string
}

// SalesOrder is a confirmed customer order
type SalesOrder struct {
	shared.BaseAggregateRoot
	Name            string
	Customer        string
	Company         string
	TransactionDate time.Time
	DeliveryDate    time.Time
	Items           []SalesOrderItem
	GrandTotal      decimal.Decimal
	DocStatus       shared.DocStatus
	SubmittedAt     *time.Time
}

// NewSalesOrderFromQuotations combines the items of all quotations into one draft order.
// Items keep quotation order then row order. The delivery date is today plus DeliveryLeadDays.
func NewSalesOrderFromQuotations(name, customer, company string, today time.Time, quotations []*Quotation) (*SalesOrder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Sales order name cannot be empty")
	}
	if strings.TrimSpace(customer) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Sales order customer cannot be empty")
	}
	if len(quotations) == 0 {
		return nil, shared.NewDomainError("NO_QUOTATIONS", "Sales order requires at least one quotation")
	}

	items := make([]SalesOrderItem, 0)
	total := decimal.Zero
	for _, q := range quotations {
		if !q.IsSubmitted() {
			return nil, shared.NewDomainErrorf("INVALID_STATE", "Quotation %s is not submitted", q.Name)
		}
		for _, qi := range q.Items {
			items = append(items, SalesOrderItem{LineItem: qi, QuotationName: q.Name})
			total = total.Add(qi.Amount)
		}
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Quotations contain no items")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Customer:          strings.TrimSpace(customer),
		Company:           strings.TrimSpace(company),
		TransactionDate:   shared.Today(today),
		DeliveryDate:      shared.AddDays(today, DeliveryLeadDays),
		Items:             items,
		GrandTotal:        total,
		DocStatus:         shared.DocStatusDraft,
	}
	order.AddDomainEvent(NewSalesOrderCreatedEvent(order, len(quotations)))
	return order, nil
}

// DocName returns the document name
func (o *SalesOrder) DocName() string { return o.Name }

// DocType returns the document type label
func (o *SalesOrder) DocType() string { return DoctypeSalesOrder }

// GetDocStatus returns the lifecycle state
func (o *SalesOrder) GetDocStatus() shared.DocStatus { return o.DocStatus }

// EnsureDeliveryDate fills an unset delivery date from the transaction date
func (o *SalesOrder) EnsureDeliveryDate() {
	if o.DeliveryDate.IsZero() {
		o.DeliveryDate = shared.AddDays(o.TransactionDate, DeliveryLeadDays)
	}
}

// Submit moves a draft order to submitted
func (o *SalesOrder) Submit(at time.Time) error {
	if o.DocStatus != shared.DocStatusDraft {
		return shared.ErrDocumentNotDraft(DoctypeSalesOrder, o.Name, o.DocStatus)
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit a sales order without items")
	}
	o.EnsureDeliveryDate()
	if o.DeliveryDate.Before(o.TransactionDate) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Delivery date cannot be before the order date")
	}

	o.DocStatus = shared.DocStatusSubmitted
	o.SubmittedAt = &at
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderSubmittedEvent(o))
	return nil
}

// QuotationNames returns the distinct source quotations in item order
func (o *SalesOrder) QuotationNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, item := range o.Items {
		if item.QuotationName != "" && !seen[item.QuotationName] {
			seen[item.QuotationName] = true
			names = append(names, item.QuotationName)
		}
	}
	return names
}
