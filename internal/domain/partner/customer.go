package partner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/shared"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeCompany    CustomerType = "Company"
	CustomerTypeIndividual CustomerType = "Individual"
)

// Customer represents a buying party
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseAggregateRoot
	Name         string // Document name, unique; defaults to the customer name
	CustomerName string
	CustomerType CustomerType
	EmailID      string
	MobileNo     string
	UserID       *uuid.UUID // Portal user created alongside the customer
}

// CustomerProfile holds the fields used to derive a customer at registration
type CustomerProfile struct {
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	Phone       string
}

// DisplayName is the company name if given, else first and last name
func (p CustomerProfile) DisplayName() string {
	if company := strings.TrimSpace(p.CompanyName); company != "" {
		return company
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Type is Company when a company name is given, else Individual
func (p CustomerProfile) Type() CustomerType {
	if strings.TrimSpace(p.CompanyName) != "" {
		return CustomerTypeCompany
	}
	return CustomerTypeIndividual
}

// NewCustomer creates a new customer with required fields
func NewCustomer(customerName string, customerType CustomerType) (*Customer, error) {
	customerName = strings.TrimSpace(customerName)
	if err := validateCustomerName(customerName); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              customerName,
		CustomerName:      customerName,
		CustomerType:      customerType,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// NewCustomerFromProfile derives name and type from a registration profile
func NewCustomerFromProfile(p CustomerProfile) (*Customer, error) {
	customer, err := NewCustomer(p.DisplayName(), p.Type())
	if err != nil {
		return nil, err
	}
	customer.EmailID = strings.ToLower(strings.TrimSpace(p.Email))
	customer.MobileNo = strings.TrimSpace(p.Phone)
	return customer, nil
}

// LinkUser records the portal user owning this customer
func (c *Customer) LinkUser(userID uuid.UUID) {
	c.UserID = &userID
	c.Touch()
}

// Rename changes the document name, used to resolve name collisions
func (c *Customer) Rename(name string) {
	c.Name = name
	c.Touch()
}

// DedupedName returns the nth alternative document name, e.g. "Acme - 2"
func DedupedName(base string, n int) string {
	if n <= 0 {
		return base
	}
	return fmt.Sprintf("%s - %d", base, n)
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(name) > 140 {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 140 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeCompany, CustomerTypeIndividual:
		return nil
	default:
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be Company or Individual")
	}
}
