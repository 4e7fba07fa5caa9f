package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	financeapp "github.com/vellap/portal/internal/application/finance"
)

// PaymentAccountService maintains Mode of Payment Accounts
type PaymentAccountService interface {
	Set(ctx context.Context, input financeapp.SetAccountInput) (*financeapp.AccountResponse, error)
	Get(ctx context.Context, modeOfPayment, company string) (*financeapp.AccountResponse, error)
}

// PaymentAccountHandler handles mode of payment account endpoints
type PaymentAccountHandler struct {
	BaseHandler
	accounts PaymentAccountService
}

// NewPaymentAccountHandler creates a new payment account handler
func NewPaymentAccountHandler(accounts PaymentAccountService) *PaymentAccountHandler {
	return &PaymentAccountHandler{accounts: accounts}
}

// accountQuery selects one mapping
type accountQuery struct {
	ModeOfPayment string `form:"mode_of_payment" binding:"required"`
	Company       string `form:"company" binding:"required"`
}

// Set handles PUT /mode-of-payment-accounts
//
// @Summary      Set a default receiving account
// @Description  Maps a mode of payment to the account Payment Entries are paid to, per company
// @Tags         mode-of-payment-accounts
// @Accept       json
// @Produce      json
// @Param        request body financeapp.SetAccountInput true "Mapping"
// @Success      200 {object} dto.Response{data=financeapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /mode-of-payment-accounts [put]
func (h *PaymentAccountHandler) Set(c *gin.Context) {
	var req financeapp.SetAccountInput
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Set(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Get handles GET /mode-of-payment-accounts?mode_of_payment=&company=
//
// @Summary      Get a default receiving account
// @Tags         mode-of-payment-accounts
// @Produce      json
// @Param        mode_of_payment query string true "Mode of payment"
// @Param        company query string true "Company"
// @Success      200 {object} dto.Response{data=financeapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /mode-of-payment-accounts [get]
func (h *PaymentAccountHandler) Get(c *gin.Context) {
	var q accountQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "mode_of_payment and company are required")
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), q.ModeOfPayment, q.Company)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
