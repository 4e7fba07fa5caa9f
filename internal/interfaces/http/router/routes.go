package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by Mount
type Handlers struct {
	Portal         *handler.PortalHandler
	Quotation      *handler.QuotationHandler
	Ticket         *handler.TicketHandler
	PaymentAccount *handler.PaymentAccountHandler
	Health         *handler.HealthHandler
	// Docs serves the generated API documentation, mounted at /swagger/*any
	Docs gin.HandlerFunc
}

// Guards are the access middleware applied per route group
type Guards struct {
	// Authenticate rejects anonymous requests
	Authenticate gin.HandlerFunc
	// OptionalAuthenticate resolves a principal when credentials are present
	OptionalAuthenticate gin.HandlerFunc
	// DeskRole restricts the desk API to back-office users
	DeskRole gin.HandlerFunc
	// LoginRateLimit throttles register_customer and login_customer
	LoginRateLimit gin.HandlerFunc
	// Principal runs after authentication, e.g. span tagging
	Principal []gin.HandlerFunc
	// DocsAccess decides who may read the API documentation
	DocsAccess gin.HandlerFunc
}

// PortalRoutes returns the guest-facing customer portal group
func PortalRoutes(h *handler.PortalHandler, g Guards) *DomainGroup {
	portal := NewDomainGroup("portal", "/portal")

	portal.POST("/register_customer", append(chain(g.LoginRateLimit), h.RegisterCustomer)...)
	portal.POST("/login_customer", append(chain(g.LoginRateLimit), h.LoginCustomer)...)

	portal.POST("/logout", append(g.authenticated(g.OptionalAuthenticate), h.Logout)...)
	portal.GET("/me", append(g.authenticated(g.Authenticate), h.Me)...)
	return portal
}

// DeskRoutes returns the back-office groups. Every route requires an
// authenticated principal holding the desk role.
func DeskRoutes(h Handlers, g Guards) []*DomainGroup {
	guard := append(g.authenticated(g.Authenticate), chain(g.DeskRole)...)

	quotations := NewDomainGroup("quotations", "/quotations").Use(guard...)
	quotations.
		POST("", h.Quotation.Create).
		GET("", h.Quotation.List).
		GET("/:name", h.Quotation.Get).
		POST("/:name/cancel", h.Quotation.Cancel)

	accounts := NewDomainGroup("mode-of-payment-accounts", "/mode-of-payment-accounts").Use(guard...)
	accounts.
		PUT("", h.PaymentAccount.Set).
		GET("", h.PaymentAccount.Get)

	tickets := NewDomainGroup("tickets", "/tickets").Use(guard...)
	tickets.
		POST("", h.Ticket.Create).
		GET("/:name", h.Ticket.Get).
		POST("/:name/submit", h.Ticket.Submit)

	return []*DomainGroup{quotations, accounts, tickets}
}

// Mount registers the health check, the API docs and the versioned API on
// engine
func Mount(engine *gin.Engine, h Handlers, g Guards, opts ...RouterOption) *Router {
	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	if h.Docs != nil {
		engine.GET("/swagger/*any", append(chain(g.DocsAccess), h.Docs)...)
	}

	r := NewRouter(engine, opts...)
	r.Register(PortalRoutes(h.Portal, g))
	for _, group := range DeskRoutes(h, g) {
		r.Register(group)
	}
	r.Setup()
	return r
}

func (g Guards) authenticated(authn gin.HandlerFunc) []gin.HandlerFunc {
	return append(chain(authn), g.Principal...)
}

// chain drops nil middleware
func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
