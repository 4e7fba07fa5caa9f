package partner

import (
	"strings"

	"github.com/vellap/portal/internal/domain/shared"
)

// Link doctypes an address can point at
const (
	LinkDoctypeCustomer = "Customer"
	LinkDoctypeUser     = "User"
)

// AddressLink associates an address with another document
type AddressLink struct {
	LinkDoctype string
	LinkName    string
}

// Address is a postal address linked to one or more documents
type Address struct {
	shared.BaseAggregateRoot
	Name         string
	AddressTitle string
	AddressLine1 string
	AddressLine2 string
	City         string
	Pincode      string
	Country      string
	Phone        string
	Links        []AddressLink
}

// PostalFields are the user-supplied parts of an address
type PostalFields struct {
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
	Phone        string
}

// NewAddress creates an address titled after its owner
func NewAddress(title string, fields PostalFields) (*Address, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS_TITLE", "Address title cannot be empty")
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AddressTitle:      title,
		AddressLine1:      strings.TrimSpace(fields.AddressLine1),
		AddressLine2:      strings.TrimSpace(fields.AddressLine2),
		City:              strings.TrimSpace(fields.City),
		Pincode:           strings.TrimSpace(fields.PostalCode),
		Country:           strings.TrimSpace(fields.Country),
		Phone:             strings.TrimSpace(fields.Phone),
		Links:             make([]AddressLink, 0, 2),
	}, nil
}

// AddLink links the address to a document, ignoring duplicates
func (a *Address) AddLink(doctype, name string) {
	if a.IsLinkedTo(doctype, name) {
		return
	}
	a.Links = append(a.Links, AddressLink{LinkDoctype: doctype, LinkName: name})
}

// IsLinkedTo reports whether a link to the document exists
func (a *Address) IsLinkedTo(doctype, name string) bool {
	for _, l := range a.Links {
		if l.LinkDoctype == doctype && l.LinkName == name {
			return true
		}
	}
	return false
}
