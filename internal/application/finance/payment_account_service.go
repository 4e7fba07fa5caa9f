package finance

import (
	"context"

	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SetAccountInput maps a mode of payment to its default account for a company
type SetAccountInput struct {
	ModeOfPayment  string `json:"mode_of_payment" binding:"required,max=140"`
	Company        string `json:"company" binding:"required,max=140"`
	DefaultAccount string `json:"default_account" binding:"required,max=140"`
}

// AccountResponse is the API view of a mode of payment account
type AccountResponse struct {
	ModeOfPayment  string `json:"mode_of_payment"`
	Company        string `json:"company"`
	DefaultAccount string `json:"default_account"`
}

// PaymentAccountService maintains the default receiving accounts used by
// Payment Entries
type PaymentAccountService struct {
	accountRepo finance.ModeOfPaymentAccountRepository
	logger      *zap.Logger
}

// NewPaymentAccountService creates a new payment account service
func NewPaymentAccountService(accountRepo finance.ModeOfPaymentAccountRepository, logger *zap.Logger) *PaymentAccountService {
	return &PaymentAccountService{accountRepo: accountRepo, logger: logger}
}

// Set creates or replaces the mapping for (mode of payment, company)
func (s *PaymentAccountService) Set(ctx context.Context, input SetAccountInput) (*AccountResponse, error) {
	account, err := finance.NewModeOfPaymentAccount(input.ModeOfPayment, input.Company, input.DefaultAccount)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Mode of payment account set",
		zap.String("mode_of_payment", account.ModeOfPayment),
		zap.String("company", account.Company),
		zap.String("account", account.DefaultAccount),
	)
	return &AccountResponse{
		ModeOfPayment:  account.ModeOfPayment,
		Company:        account.Company,
		DefaultAccount: account.DefaultAccount,
	}, nil
}

// Get returns the default account of a mode of payment in a company
func (s *PaymentAccountService) Get(ctx context.Context, modeOfPayment, company string) (*AccountResponse, error) {
	account, err := s.accountRepo.FindDefaultAccount(ctx, modeOfPayment, company)
	if err != nil {
		return nil, err
	}
	return &AccountResponse{
		ModeOfPayment:  modeOfPayment,
		Company:        company,
		DefaultAccount: account,
	}, nil
}
