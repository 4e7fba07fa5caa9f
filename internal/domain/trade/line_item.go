package trade

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/shared"
)

// LineItem is the priced item row shared by quotations and sales orders
type LineItem struct {
	ItemCode    string
	ItemName    string
	Description string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	UOM         string
	Amount      decimal.Decimal
}

// NewLineItem validates a row and computes its amount
func NewLineItem(itemCode, itemName, description string, qty, rate decimal.Decimal, uom string) (LineItem, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return LineItem{}, shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if strings.TrimSpace(itemName) == "" {
		itemName = itemCode
	}
	if strings.TrimSpace(uom) == "" {
		uom = "Nos"
	}

	return LineItem{
		ItemCode:    itemCode,
		ItemName:    strings.TrimSpace(itemName),
		Description: strings.TrimSpace(description),
		Qty:         qty,
		Rate:        rate,
		UOM:         strings.TrimSpace(uom),
		Amount:      qty.Mul(rate).Round(2),
	}, nil
}

func sumAmounts(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
