package finance

import (
	"strings"

	"github.com/vellap/portal/internal/domain/shared"
)

// ModeOfPaymentAccount maps a mode of payment to its default ledger account per company
type ModeOfPaymentAccount struct {
	shared.BaseEntity
	ModeOfPayment  string
	Company        string
	DefaultAccount string
}

// NewModeOfPaymentAccount validates and creates a mapping
func NewModeOfPaymentAccount(modeOfPayment, company, defaultAccount string) (*ModeOfPaymentAccount, error) {
	modeOfPayment = strings.TrimSpace(modeOfPayment)
	company = strings.TrimSpace(company)
	defaultAccount = strings.TrimSpace(defaultAccount)

	if modeOfPayment == "" {
		return nil, shared.NewDomainError("INVALID_MODE_OF_PAYMENT", "Mode of payment cannot be empty")
	}
	if company == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company cannot be empty")
	}
	if defaultAccount == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Default account cannot be empty")
	}

	return &ModeOfPaymentAccount{
		BaseEntity:     shared.NewBaseEntity(),
		ModeOfPayment:  modeOfPayment,
		Company:        company,
		DefaultAccount: defaultAccount,
	}, nil
}
