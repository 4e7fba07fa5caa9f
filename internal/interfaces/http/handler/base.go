package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/application/automation"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/interfaces/http/dto"
	"github.com/vellap/portal/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a page of results with pagination meta
func SuccessWithMeta[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.PageSize, page.TotalPages))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON binds and validates the request body. On failure it writes a
// 400 validation response and returns false.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// HandleError converts service errors to HTTP responses. A failed sales
// cycle carries its notices; other domain errors keep their code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		h.InternalError(c, "An unexpected error occurred")
		return
	}

	resp := dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID)
	var cycleErr *automation.CycleError
	if errors.As(err, &cycleErr) {
		resp.Error.Notices = cycleErr.Notices
	}
	c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
}
