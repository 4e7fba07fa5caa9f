package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/application/automation"
)

// TicketService is the Ticket Automation use case surface
type TicketService interface {
	Create(ctx context.Context, input automation.CreateTicketInput) (*automation.TicketResponse, error)
	Get(ctx context.Context, name string) (*automation.TicketResponse, error)
	Submit(ctx context.Context, name string) (*automation.CycleResult, error)
}

// TicketHandler handles Ticket Automation endpoints
type TicketHandler struct {
	BaseHandler
	tickets TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Create handles POST /tickets
//
// @Summary      Create a Ticket Automation
// @Description  Creates a draft ticket named <CustomerNameNoSpaces>-Ticket-#NN. Quotation rows without amount, status or date are filled from the quotation.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request body automation.CreateTicketInput true "Ticket"
// @Success      201 {object} dto.Response{data=automation.TicketResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req automation.CreateTicketInput
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// Get handles GET /tickets/:name
//
// @Summary      Get a Ticket Automation
// @Tags         tickets
// @Produce      json
// @Param        name path string true "Ticket name, with # sent as %23"
// @Success      200 {object} dto.Response{data=automation.TicketResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tickets/{name} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.tickets.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// Submit handles POST /tickets/:name/submit and runs the sales cycle.
// A stopped cycle is still a successful submission.
//
// @Summary      Submit a Ticket Automation
// @Description  Submits the ticket's quotations, creates one combined Sales Order and a Payment Entry for the ticket total, all in one transaction. A failed step rolls everything back and answers 422 with the notices collected so far.
// @Tags         tickets
// @Produce      json
// @Param        name path string true "Ticket name, with # sent as %23"
// @Success      200 {object} dto.Response{data=automation.CycleResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tickets/{name}/submit [post]
func (h *TicketHandler) Submit(c *gin.Context) {
	result, err := h.tickets.Submit(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
