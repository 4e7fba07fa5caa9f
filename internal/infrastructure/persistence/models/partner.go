package models

import (
	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	AggregateModel
	Name         string               `gorm:"type:varchar(140);not null;uniqueIndex:idx_customers_name"`
	CustomerName string               `gorm:"type:varchar(140);not null"`
	CustomerType partner.CustomerType `gorm:"type:varchar(20);not null"`
	EmailID      string               `gorm:"type:varchar(200)"`
	MobileNo     string               `gorm:"type:varchar(50)"`
	UserID       *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		CustomerName:      m.CustomerName,
		CustomerType:      m.CustomerType,
		EmailID:           m.EmailID,
		MobileNo:          m.MobileNo,
		UserID:            m.UserID,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.CustomerName = c.CustomerName
	m.CustomerType = c.CustomerType
	m.EmailID = c.EmailID
	m.MobileNo = c.MobileNo
	m.UserID = c.UserID
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// AddressModel is the persistence model for the Address aggregate root.
type AddressModel struct {
	AggregateModel
	Name         string             `gorm:"type:varchar(140);not null;uniqueIndex:idx_addresses_name"`
	AddressTitle string             `gorm:"type:varchar(140);not null"`
	AddressLine1 string             `gorm:"type:varchar(240)"`
	AddressLine2 string             `gorm:"type:varchar(240)"`
	City         string             `gorm:"type:varchar(140)"`
	Pincode      string             `gorm:"type:varchar(20)"`
	Country      string             `gorm:"type:varchar(100)"`
	Phone        string             `gorm:"type:varchar(50)"`
	Links        []AddressLinkModel `gorm:"foreignKey:AddressID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// AddressLinkModel is one (doctype, name) link of an address.
type AddressLinkModel struct {
	ChildModel
	AddressID   uuid.UUID `gorm:"type:uuid;not null;index"`
	LinkDoctype string    `gorm:"type:varchar(60);not null;index:idx_address_links_target,priority:1"`
	LinkName    string    `gorm:"type:varchar(200);not null;index:idx_address_links_target,priority:2"`
}

// TableName returns the table name for GORM
func (AddressLinkModel) TableName() string {
	return "address_links"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *partner.Address {
	a := &partner.Address{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		AddressTitle:      m.AddressTitle,
		AddressLine1:      m.AddressLine1,
		AddressLine2:      m.AddressLine2,
		City:              m.City,
		Pincode:           m.Pincode,
		Country:           m.Country,
		Phone:             m.Phone,
		Links:             make([]partner.AddressLink, len(m.Links)),
	}
	for i, l := range sortedByIdx(m.Links, func(l AddressLinkModel) int { return l.Idx }) {
		a.Links[i] = partner.AddressLink{LinkDoctype: l.LinkDoctype, LinkName: l.LinkName}
	}
	return a
}

// FromDomain populates the persistence model from a domain Address.
// Link rows get fresh IDs; addresses are written once.
func (m *AddressModel) FromDomain(a *partner.Address) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.AddressTitle = a.AddressTitle
	m.AddressLine1 = a.AddressLine1
	m.AddressLine2 = a.AddressLine2
	m.City = a.City
	m.Pincode = a.Pincode
	m.Country = a.Country
	m.Phone = a.Phone
	m.Links = make([]AddressLinkModel, len(a.Links))
	for i, l := range a.Links {
		m.Links[i] = AddressLinkModel{
			ChildModel:  ChildModel{ID: uuid.New(), Idx: i + 1},
			AddressID:   a.ID,
			LinkDoctype: l.LinkDoctype,
			LinkName:    l.LinkName,
		}
	}
}

// AddressModelFromDomain creates a new persistence model from a domain Address.
func AddressModelFromDomain(a *partner.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}
