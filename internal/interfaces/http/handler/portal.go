package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/interfaces/http/middleware"
)

const msgLoggedOut = "Logged out."

// Registrar registers portal customers
type Registrar interface {
	RegisterCustomer(ctx context.Context, input identityapp.RegisterCustomerInput) *identityapp.RegistrationResult
}

// SessionManager logs portal users in and out
type SessionManager interface {
	Login(ctx context.Context, input identityapp.LoginInput) *identityapp.LoginResult
	Logout(ctx context.Context, sid string)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserInfo, error)
}

// PortalHandler serves the guest-facing customer portal. Its endpoints
// answer with the flat portal result rather than the API envelope.
type PortalHandler struct {
	BaseHandler
	registrar Registrar
	sessions  SessionManager
	cookie    config.SessionConfig
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(registrar Registrar, sessions SessionManager, cookie config.SessionConfig) *PortalHandler {
	return &PortalHandler{
		registrar: registrar,
		sessions:  sessions,
		cookie:    cookie,
	}
}

// RegisterCustomerRequest is the registration form
type RegisterCustomerRequest struct {
	Email        string `json:"email" binding:"required,email,max=140"`
	Password     string `json:"password" binding:"required,max=128"`
	FirstName    string `json:"first_name" binding:"max=140"`
	LastName     string `json:"last_name" binding:"max=140"`
	Phone        string `json:"phone" binding:"max=32"`
	CompanyName  string `json:"company_name" binding:"max=140"`
	AddressLine1 string `json:"address_line1" binding:"max=240"`
	AddressLine2 string `json:"address_line2" binding:"max=240"`
	City         string `json:"city" binding:"max=140"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=140"`
}

// LoginCustomerRequest carries portal credentials
type LoginCustomerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PortalMessage is the flat result of endpoints without further fields
type PortalMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RegisterCustomer handles POST /portal/register_customer
//
// @Summary      Register a portal customer
// @Description  Creates a website user, its customer, the Customer role grant and an address. An already registered email answers with status "exists" and a login redirect.
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        request body RegisterCustomerRequest true "Registration form"
// @Success      200 {object} identityapp.RegistrationResult
// @Failure      400 {object} PortalMessage
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} identityapp.RegistrationResult
// @Router       /portal/register_customer [post]
func (h *PortalHandler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PortalMessage{
			Status:  identityapp.StatusError,
			Message: identityapp.MsgRegistrationFailed + bindErrorSummary(err, middleware.GetRequestID(c)),
		})
		return
	}

	result := h.registrar.RegisterCustomer(c.Request.Context(), identityapp.RegisterCustomerInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	})
	if result.Session != nil {
		h.setSessionCookie(c, result.Session)
	}
	c.JSON(registrationStatus(result.Outcome), result)
}

// LoginCustomer handles POST /portal/login_customer
//
// @Summary      Log a portal customer in
// @Description  Starts a session, sets the sid cookie and returns a bearer token
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        request body LoginCustomerRequest true "Credentials"
// @Success      200 {object} identityapp.LoginResult
// @Failure      401 {object} identityapp.LoginResult
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /portal/login_customer [post]
func (h *PortalHandler) LoginCustomer(c *gin.Context) {
	var req LoginCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, PortalMessage{
			Status:  identityapp.StatusError,
			Message: identityapp.MsgLoginFailed,
		})
		return
	}

	result := h.sessions.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.Succeeded() {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	if result.Session != nil {
		h.setSessionCookie(c, result.Session)
	}
	c.JSON(http.StatusOK, result)
}

// Logout handles POST /portal/logout. It succeeds without a session.
//
// @Summary      Log out
// @Tags         portal
// @Produce      json
// @Success      200 {object} PortalMessage
// @Router       /portal/logout [post]
func (h *PortalHandler) Logout(c *gin.Context) {
	sid := ""
	if p := middleware.GetPrincipal(c); p != nil {
		sid = p.SessionID
	}
	if sid == "" {
		sid, _ = c.Cookie(h.cookie.CookieName)
	}
	h.sessions.Logout(c.Request.Context(), sid)
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, PortalMessage{Status: identityapp.StatusSuccess, Message: msgLoggedOut})
}

// Me handles GET /portal/me
//
// @Summary      Current user
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/me [get]
func (h *PortalHandler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	info, err := h.sessions.CurrentUser(c.Request.Context(), p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

func (h *PortalHandler) setSessionCookie(c *gin.Context, session *identity.Session) {
	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.CookieName, session.ID, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *PortalHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.CookieName, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func registrationStatus(outcome identityapp.RegistrationOutcome) int {
	switch outcome {
	case identityapp.OutcomeRegistered, identityapp.OutcomeExists:
		return http.StatusOK
	case identityapp.OutcomeInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bindErrorSummary renders binding errors as "field: message; ..."
func bindErrorSummary(err error, requestID string) string {
	resp := middleware.FormatValidationErrors(err, requestID)
	if len(resp.Error.Details) == 0 {
		return resp.Error.Message
	}
	parts := make([]string, len(resp.Error.Details))
	for i, d := range resp.Error.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return strings.Join(parts, "; ")
}
