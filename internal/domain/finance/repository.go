package finance

import "context"

// PaymentEntryRepository defines the interface for payment entry persistence
type PaymentEntryRepository interface {
	Create(ctx context.Context, entry *PaymentEntry) error
	Update(ctx context.Context, entry *PaymentEntry) error
	FindByName(ctx context.Context, name string) (*PaymentEntry, error)
	FindByReference(ctx context.Context, doctype, name string) ([]*PaymentEntry, error)
	NextName(ctx context.Context, prefix string) (string, error)
}

// ModeOfPaymentAccountRepository defines the interface for payment account mappings
type ModeOfPaymentAccountRepository interface {
	// FindDefaultAccount returns the default account or shared.ErrNotFound
	FindDefaultAccount(ctx context.Context, modeOfPayment, company string) (string, error)

	// Upsert creates or replaces the mapping for (mode of payment, company)
	Upsert(ctx context.Context, account *ModeOfPaymentAccount) error
}
