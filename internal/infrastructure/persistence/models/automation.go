package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/shared"
)

// TicketAutomationModel is the persistence model for the TicketAutomation aggregate root.
type TicketAutomationModel struct {
	AggregateModel
	Name               string                 `gorm:"type:varchar(180);not null;uniqueIndex:idx_ticket_automations_name"`
	Customer           string                 `gorm:"type:varchar(140);not null;index"`
	Company            string                 `gorm:"type:varchar(140);not null"`
	ModeOfPayment      string                 `gorm:"type:varchar(140);not null"`
	TotalAmount        decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceReferenceNo string                 `gorm:"type:varchar(140)"`
	Quotations         []TicketQuotationModel `gorm:"foreignKey:TicketID;references:ID;constraint:OnDelete:CASCADE"`
	DocStatus          shared.DocStatus       `gorm:"type:smallint;not null;default:0;index"`
	SalesOrder         string                 `gorm:"type:varchar(140)"`
	PaymentEntry       string                 `gorm:"type:varchar(140)"`
	SubmittedAt        *time.Time
}

// TableName returns the table name for GORM
func (TicketAutomationModel) TableName() string {
	return "ticket_automations"
}

// TicketQuotationModel is one quotation row of a ticket.
type TicketQuotationModel struct {
	ChildModel
	TicketID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quotation   string          `gorm:"type:varchar(140);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      string          `gorm:"type:varchar(40)"`
	Date        *time.Time
}

// TableName returns the table name for GORM
func (TicketQuotationModel) TableName() string {
	return "ticket_automation_quotations"
}

// ToDomain converts the persistence model to a domain TicketAutomation.
func (m *TicketAutomationModel) ToDomain() *automation.TicketAutomation {
	t := &automation.TicketAutomation{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Name:               m.Name,
		Customer:           m.Customer,
		Company:            m.Company,
		ModeOfPayment:      m.ModeOfPayment,
		TotalAmount:        m.TotalAmount,
		InvoiceReferenceNo: m.InvoiceReferenceNo,
		Quotations:         make([]automation.TicketQuotation, len(m.Quotations)),
		DocStatus:          m.DocStatus,
		SalesOrder:         m.SalesOrder,
		PaymentEntry:       m.PaymentEntry,
		SubmittedAt:        m.SubmittedAt,
	}
	for i, row := range sortedByIdx(m.Quotations, func(r TicketQuotationModel) int { return r.Idx }) {
		q := automation.TicketQuotation{
			Quotation:   row.Quotation,
			TotalAmount: row.TotalAmount,
			Status:      row.Status,
		}
		if row.Date != nil {
			q.Date = *row.Date
		}
		t.Quotations[i] = q
	}
	return t
}

// FromDomain populates the persistence model from a domain TicketAutomation.
func (m *TicketAutomationModel) FromDomain(t *automation.TicketAutomation) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Customer = t.Customer
	m.Company = t.Company
	m.ModeOfPayment = t.ModeOfPayment
	m.TotalAmount = t.TotalAmount
	m.InvoiceReferenceNo = t.InvoiceReferenceNo
	m.DocStatus = t.DocStatus
	m.SalesOrder = t.SalesOrder
	m.PaymentEntry = t.PaymentEntry
	m.SubmittedAt = t.SubmittedAt
	m.Quotations = make([]TicketQuotationModel, len(t.Quotations))
	for i, row := range t.Quotations {
		rm := TicketQuotationModel{
			ChildModel:  ChildModel{ID: uuid.New(), Idx: i + 1},
			TicketID:    t.ID,
			Quotation:   row.Quotation,
			TotalAmount: row.TotalAmount,
			Status:      row.Status,
		}
		if !row.Date.IsZero() {
			d := row.Date
			rm.Date = &d
		}
		m.Quotations[i] = rm
	}
}

// TicketAutomationModelFromDomain creates a new persistence model from a domain TicketAutomation.
func TicketAutomationModelFromDomain(t *automation.TicketAutomation) *TicketAutomationModel {
	m := &TicketAutomationModel{}
	m.FromDomain(t)
	return m
}
