package trade

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vellap/portal/internal/domain/trade"
)

// LineItemInput is a priced row of a new quotation
type LineItemInput struct {
	ItemCode    string          `json:"item_code" binding:"required,max=140"`
	ItemName    string          `json:"item_name" binding:"max=140"`
	Description string          `json:"description" binding:"max=2000"`
	Qty         decimal.Decimal `json:"qty" binding:"required,gt=0" swaggertype:"string"`
	Rate        decimal.Decimal `json:"rate" binding:"gte=0" swaggertype:"string"`
	UOM         string          `json:"uom" binding:"max=40"`
}

// CreateQuotationInput contains the fields of a new draft quotation
type CreateQuotationInput struct {
	PartyName       string          `json:"party_name" binding:"required,max=140"`
	Company         string          `json:"company" binding:"omitempty,max=140"`
	TransactionDate *time.Time      `json:"transaction_date"`
	Items           []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// ListQuotationsInput filters a quotation listing
type ListQuotationsInput struct {
	PartyName string `form:"party_name"`
	DocStatus *int   `form:"docstatus" binding:"omitempty,min=0,max=2"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse is a quotation row
type LineItemResponse struct {
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description,omitempty"`
	Qty         decimal.Decimal `json:"qty" swaggertype:"string"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string"`
	UOM         string          `json:"uom"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
}

// QuotationResponse is the API view of a quotation
type QuotationResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	PartyName       string             `json:"party_name"`
	Company         string             `json:"company"`
	TransactionDate time.Time          `json:"transaction_date"`
	Items           []LineItemResponse `json:"items"`
	GrandTotal      decimal.Decimal    `json:"grand_total" swaggertype:"string"`
	DocStatus       int                `json:"docstatus"`
	Status          string             `json:"status"`
	SubmittedAt     *time.Time         `json:"submitted_at,omitempty"`
}

// ToQuotationResponse converts a quotation to its API view
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	items := make([]LineItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = LineItemResponse{
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
			UOM:         item.UOM,
			Amount:      item.Amount,
		}
	}
	return QuotationResponse{
		ID:              q.ID.String(),
		Name:            q.Name,
		PartyName:       q.PartyName,
		Company:         q.Company,
		TransactionDate: q.TransactionDate,
		Items:           items,
		GrandTotal:      q.GrandTotal,
		DocStatus:       int(q.DocStatus),
		Status:          q.DocStatus.String(),
		SubmittedAt:     q.SubmittedAt,
	}
}
