package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
)

// LineItemColumns are the priced item columns shared by quotation and order rows.
type LineItemColumns struct {
	ItemCode    string          `gorm:"type:varchar(140);not null"`
	ItemName    string          `gorm:"type:varchar(140);not null"`
	Description string          `gorm:"type:text"`
	Qty         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM         string          `gorm:"type:varchar(40);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func lineItemColumnsFromDomain(li trade.LineItem) LineItemColumns {
	return LineItemColumns{
		ItemCode:    li.ItemCode,
		ItemName:    li.ItemName,
		Description: li.Description,
		Qty:         li.Qty,
		Rate:        li.Rate,
		UOM:         li.UOM,
		Amount:      li.Amount,
	}
}

func (c LineItemColumns) toDomain() trade.LineItem {
	return trade.LineItem{
		ItemCode:    c.ItemCode,
		ItemName:    c.ItemName,
		Description: c.Description,
		Qty:         c.Qty,
		Rate:        c.Rate,
		UOM:         c.UOM,
		Amount:      c.Amount,
	}
}

// QuotationModel is the persistence model for the Quotation aggregate root.
type QuotationModel struct {
	AggregateModel
	Name            string               `gorm:"type:varchar(140);not null;uniqueIndex:idx_quotations_name"`
	PartyName       string               `gorm:"type:varchar(140);not null;index"`
	Company         string               `gorm:"type:varchar(140);not null"`
	TransactionDate time.Time            `gorm:"not null"`
	Items           []QuotationItemModel `gorm:"foreignKey:QuotationID;references:ID;constraint:OnDelete:CASCADE"`
	GrandTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DocStatus       shared.DocStatus     `gorm:"type:smallint;not null;default:0;index"`
	SubmittedAt     *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationItemModel is one item row of a quotation.
type QuotationItemModel struct {
	ChildModel
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemColumns
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the persistence model to a domain Quotation.
func (m *QuotationModel) ToDomain() *trade.Quotation {
	q := &trade.Quotation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		PartyName:         m.PartyName,
		Company:           m.Company,
		TransactionDate:   m.TransactionDate,
		Items:             make([]trade.LineItem, len(m.Items)),
		GrandTotal:        m.GrandTotal,
		DocStatus:         m.DocStatus,
		SubmittedAt:       m.SubmittedAt,
	}
	for i, item := range sortedByIdx(m.Items, func(r QuotationItemModel) int { return r.Idx }) {
		q.Items[i] = item.LineItemColumns.toDomain()
	}
	return q
}

// FromDomain populates the persistence model from a domain Quotation.
func (m *QuotationModel) FromDomain(q *trade.Quotation) {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.Name = q.Name
	m.PartyName = q.PartyName
	m.Company = q.Company
	m.TransactionDate = q.TransactionDate
	m.GrandTotal = q.GrandTotal
	m.DocStatus = q.DocStatus
	m.SubmittedAt = q.SubmittedAt
	m.Items = make([]QuotationItemModel, len(q.Items))
	for i, item := range q.Items {
		m.Items[i] = QuotationItemModel{
			ChildModel:      ChildModel{ID: uuid.New(), Idx: i + 1},
			QuotationID:     q.ID,
			LineItemColumns: lineItemColumnsFromDomain(item),
		}
	}
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation.
func QuotationModelFromDomain(q *trade.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// SalesOrderModel is the persistence model for the SalesOrder aggregate root.
type SalesOrderModel struct {
	AggregateModel
	Name            string                `gorm:"type:varchar(140);not null;uniqueIndex:idx_sales_orders_name"`
	Customer        string                `gorm:"type:varchar(140);not null;index"`
	Company         string                `gorm:"type:varchar(140);not null"`
	TransactionDate time.Time             `gorm:"not null"`
	DeliveryDate    time.Time             `gorm:"not null"`
	Items           []SalesOrderItemModel `gorm:"foreignKey:SalesOrderID;references:ID;constraint:OnDelete:CASCADE"`
	GrandTotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DocStatus       shared.DocStatus      `gorm:"type:smallint;not null;default:0;index"`
	SubmittedAt     *time.Time
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is one item row of a sales order.
type SalesOrderItemModel struct {
	ChildModel
	SalesOrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	QuotationName string    `gorm:"type:varchar(140);index"`
	LineItemColumns
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	o := &trade.SalesOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Customer:          m.Customer,
		Company:           m.Company,
		TransactionDate:   m.TransactionDate,
		DeliveryDate:      m.DeliveryDate,
		Items:             make([]trade.SalesOrderItem, len(m.Items)),
		GrandTotal:        m.GrandTotal,
		DocStatus:         m.DocStatus,
		SubmittedAt:       m.SubmittedAt,
	}
	for i, item := range sortedByIdx(m.Items, func(r SalesOrderItemModel) int { return r.Idx }) {
		o.Items[i] = trade.SalesOrderItem{
			LineItem:      item.LineItemColumns.toDomain(),
			QuotationName: item.QuotationName,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain SalesOrder.
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Customer = o.Customer
	m.Company = o.Company
	m.TransactionDate = o.TransactionDate
	m.DeliveryDate = o.DeliveryDate
	m.GrandTotal = o.GrandTotal
	m.DocStatus = o.DocStatus
	m.SubmittedAt = o.SubmittedAt
	m.Items = make([]SalesOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = SalesOrderItemModel{
			ChildModel:      ChildModel{ID: uuid.New(), Idx: i + 1},
			SalesOrderID:    o.ID,
			QuotationName:   item.QuotationName,
			LineItemColumns: lineItemColumnsFromDomain(item.LineItem),
		}
	}
}

// SalesOrderModelFromDomain creates a new persistence model from a domain SalesOrder.
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{}
	m.FromDomain(o)
	return m
}
