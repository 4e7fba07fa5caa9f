package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/vellap/portal/internal/application/trade"
	"github.com/vellap/portal/internal/domain/shared"
)

// QuotationService is the quotation use case surface used by the desk API
type QuotationService interface {
	Create(ctx context.Context, input tradeapp.CreateQuotationInput) (*tradeapp.QuotationResponse, error)
	Get(ctx context.Context, name string) (*tradeapp.QuotationResponse, error)
	List(ctx context.Context, input tradeapp.ListQuotationsInput) (shared.Paginated[tradeapp.QuotationResponse], error)
	Cancel(ctx context.Context, name string) (*tradeapp.QuotationResponse, error)
}

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotations QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotations QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

// Create handles POST /quotations
//
// @Summary      Create a draft quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateQuotationInput true "Quotation"
// @Success      201 {object} dto.Response{data=tradeapp.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req tradeapp.CreateQuotationInput
	if !h.BindJSON(c, &req) {
		return
	}

	quotation, err := h.quotations.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// Get handles GET /quotations/:name
//
// @Summary      Get a quotation
// @Tags         quotations
// @Produce      json
// @Param        name path string true "Quotation name"
// @Success      200 {object} dto.Response{data=tradeapp.QuotationResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{name} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	quotation, err := h.quotations.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Cancel handles POST /quotations/:name/cancel
//
// @Summary      Cancel a submitted quotation
// @Tags         quotations
// @Produce      json
// @Param        name path string true "Quotation name"
// @Success      200 {object} dto.Response{data=tradeapp.QuotationResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{name}/cancel [post]
func (h *QuotationHandler) Cancel(c *gin.Context) {
	quotation, err := h.quotations.Cancel(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// List handles GET /quotations
//
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        party_name query string false "Customer"
// @Param        docstatus query int false "0 draft, 1 submitted, 2 cancelled" Enums(0, 1, 2)
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]tradeapp.QuotationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter tradeapp.ListQuotationsInput
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quotations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessWithMeta(c, page)
}
