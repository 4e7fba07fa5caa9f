package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/shared"
)

// PaymentEntryModel is the persistence model for the PaymentEntry aggregate root.
type PaymentEntryModel struct {
	AggregateModel
	Name           string                  `gorm:"type:varchar(140);not null;uniqueIndex:idx_payment_entries_name"`
	PaymentType    finance.PaymentType     `gorm:"type:varchar(20);not null"`
	Company        string                  `gorm:"type:varchar(140);not null"`
	PartyType      finance.PartyType       `gorm:"type:varchar(40);not null"`
	Party          string                  `gorm:"type:varchar(140);not null;index"`
	PostingDate    time.Time               `gorm:"not null"`
	ModeOfPayment  string                  `gorm:"type:varchar(140)"`
	PaidTo         string                  `gorm:"type:varchar(140);not null"`
	PaidAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ReceivedAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ReferenceNo    string                  `gorm:"type:varchar(140)"`
	ReferenceDate  time.Time               `gorm:"not null"`
	References     []PaymentReferenceModel `gorm:"foreignKey:PaymentEntryID;references:ID;constraint:OnDelete:CASCADE"`
	DocStatus      shared.DocStatus        `gorm:"type:smallint;not null;default:0;index"`
	SubmittedAt    *time.Time
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// PaymentReferenceModel allocates part of a payment entry to a document.
type PaymentReferenceModel struct {
	ChildModel
	PaymentEntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferenceDoctype string          `gorm:"type:varchar(60);not null;index:idx_payment_references_target,priority:1"`
	ReferenceName    string          `gorm:"type:varchar(140);not null;index:idx_payment_references_target,priority:2"`
	DueDate          time.Time       `gorm:"not null"`
	AllocatedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentReferenceModel) TableName() string {
	return "payment_entry_references"
}

// ToDomain converts the persistence model to a domain PaymentEntry.
func (m *PaymentEntryModel) ToDomain() *finance.PaymentEntry {
	pe := &finance.PaymentEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		PaymentType:       m.PaymentType,
		Company:           m.Company,
		PartyType:         m.PartyType,
		Party:             m.Party,
		PostingDate:       m.PostingDate,
		ModeOfPayment:     m.ModeOfPayment,
		PaidTo:            m.PaidTo,
		PaidAmount:        m.PaidAmount,
		ReceivedAmount:    m.ReceivedAmount,
		ReferenceNo:       m.ReferenceNo,
		ReferenceDate:     m.ReferenceDate,
		References:        make([]finance.PaymentReference, len(m.References)),
		DocStatus:         m.DocStatus,
		SubmittedAt:       m.SubmittedAt,
	}
	for i, ref := range sortedByIdx(m.References, func(r PaymentReferenceModel) int { return r.Idx }) {
		pe.References[i] = finance.PaymentReference{
			ReferenceDoctype: ref.ReferenceDoctype,
			ReferenceName:    ref.ReferenceName,
			DueDate:          ref.DueDate,
			AllocatedAmount:  ref.AllocatedAmount,
		}
	}
	return pe
}

// FromDomain populates the persistence model from a domain PaymentEntry.
func (m *PaymentEntryModel) FromDomain(pe *finance.PaymentEntry) {
	m.FromDomainAggregateRoot(pe.BaseAggregateRoot)
	m.Name = pe.Name
	m.PaymentType = pe.PaymentType
	m.Company = pe.Company
	m.PartyType = pe.PartyType
	m.Party = pe.Party
	m.PostingDate = pe.PostingDate
	m.ModeOfPayment = pe.ModeOfPayment
	m.PaidTo = pe.PaidTo
	m.PaidAmount = pe.PaidAmount
	m.ReceivedAmount = pe.ReceivedAmount
	m.ReferenceNo = pe.ReferenceNo
	m.ReferenceDate = pe.ReferenceDate
	m.DocStatus = pe.DocStatus
	m.SubmittedAt = pe.SubmittedAt
	m.References = make([]PaymentReferenceModel, len(pe.References))
	for i, ref := range pe.References {
		m.References[i] = PaymentReferenceModel{
			ChildModel:       ChildModel{ID: uuid.New(), Idx: i + 1},
			PaymentEntryID:   pe.ID,
			ReferenceDoctype: ref.ReferenceDoctype,
			ReferenceName:    ref.ReferenceName,
			DueDate:          ref.DueDate,
			AllocatedAmount:  ref.AllocatedAmount,
		}
	}
}

// PaymentEntryModelFromDomain creates a new persistence model from a domain PaymentEntry.
func PaymentEntryModelFromDomain(pe *finance.PaymentEntry) *PaymentEntryModel {
	m := &PaymentEntryModel{}
	m.FromDomain(pe)
	return m
}

// ModeOfPaymentAccountModel maps a mode of payment to a company's default account.
type ModeOfPaymentAccountModel struct {
	BaseModel
	ModeOfPayment  string `gorm:"type:varchar(140);not null;uniqueIndex:idx_mode_of_payment_accounts_key,priority:1"`
	Company        string `gorm:"type:varchar(140);not null;uniqueIndex:idx_mode_of_payment_accounts_key,priority:2"`
	DefaultAccount string `gorm:"type:varchar(140);not null"`
}

// TableName returns the table name for GORM
func (ModeOfPaymentAccountModel) TableName() string {
	return "mode_of_payment_accounts"
}

// ToDomain converts the persistence model to a domain ModeOfPaymentAccount.
func (m *ModeOfPaymentAccountModel) ToDomain() *finance.ModeOfPaymentAccount {
	return &finance.ModeOfPaymentAccount{
		BaseEntity:     m.BaseModel.ToDomain(),
		ModeOfPayment:  m.ModeOfPayment,
		Company:        m.Company,
		DefaultAccount: m.DefaultAccount,
	}
}

// ModeOfPaymentAccountModelFromDomain creates a new persistence model from a domain mapping.
func ModeOfPaymentAccountModelFromDomain(a *finance.ModeOfPaymentAccount) *ModeOfPaymentAccountModel {
	m := &ModeOfPaymentAccountModel{
		ModeOfPayment:  a.ModeOfPayment,
		Company:        a.Company,
		DefaultAccount: a.DefaultAccount,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
