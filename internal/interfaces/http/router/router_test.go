package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.groups)
}

func TestRouterOptions(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine,
		WithAPIVersion("v2"),
		WithAPIMiddleware(func(c *gin.Context) {
			c.Header("X-API", "yes")
			c.Next()
		}),
	)
	assert.Equal(t, "v2", r.apiVersion)

	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(g).Setup()

	w := serve(engine, "GET", "/api/v2/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("tickets", "/tickets")
		assert.Equal(t, "tickets", g.Name())
		assert.Equal(t, "/tickets", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) }).
			POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			PUT("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/test/items").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, "POST", "/api/v1/test/items").Code)
		assert.Equal(t, "123", serve(engine, "PUT", "/api/v1/test/items/123").Body.String())
	})

	t.Run("guards run before every route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("tickets", "/tickets").Use(func(c *gin.Context) {
			c.Header("X-Guard", "1")
			c.Next()
		})
		g.GET("/:name", func(c *gin.Context) { c.String(http.StatusOK, c.Param("name")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, "GET", "/api/v1/tickets/Acme-Ticket-%2301")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Acme-Ticket-#01", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Guard"))
	})
}

func mountTestEngine(g Guards) *gin.Engine {
	engine := gin.New()
	Mount(engine, Handlers{
		Portal:         handler.NewPortalHandler(nil, nil, config.SessionConfig{CookieName: "sid"}),
		Quotation:      handler.NewQuotationHandler(nil),
		Ticket:         handler.NewTicketHandler(nil),
		PaymentAccount: handler.NewPaymentAccountHandler(nil),
		Health:         handler.NewHealthHandler("test", nil),
	}, g)
	return engine
}

func TestMount(t *testing.T) {
	t.Run("registers the portal and desk api", func(t *testing.T) {
		engine := mountTestEngine(Guards{})

		got := map[string]bool{}
		for _, route := range engine.Routes() {
			got[route.Method+" "+route.Path] = true
		}
		for _, want := range []string{
			"GET /health",
			"POST /api/v1/portal/register_customer",
			"POST /api/v1/portal/login_customer",
			"POST /api/v1/portal/logout",
			"GET /api/v1/portal/me",
			"POST /api/v1/quotations",
			"GET /api/v1/quotations",
			"GET /api/v1/quotations/:name",
			"POST /api/v1/quotations/:name/cancel",
			"PUT /api/v1/mode-of-payment-accounts",
			"GET /api/v1/mode-of-payment-accounts",
			"POST /api/v1/tickets",
			"GET /api/v1/tickets/:name",
			"POST /api/v1/tickets/:name/submit",
		} {
			assert.True(t, got[want], want)
		}
		assert.Len(t, got, 14)
	})

	t.Run("desk routes run authentication then role guard", func(t *testing.T) {
		var order []string
		record := func(name string, status int) gin.HandlerFunc {
			return func(c *gin.Context) {
				order = append(order, name)
				if status != 0 {
					c.AbortWithStatus(status)
					return
				}
				c.Next()
			}
		}
		engine := mountTestEngine(Guards{
			Authenticate:   record("authenticate", 0),
			DeskRole:       record("role", http.StatusForbidden),
			LoginRateLimit: record("ratelimit", http.StatusTooManyRequests),
			Principal:      []gin.HandlerFunc{record("principal", 0)},
		})

		w := serve(engine, "POST", "/api/v1/tickets/Acme-Ticket-%2301/submit")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, []string{"authenticate", "principal", "role"}, order)

		order = nil
		w = serve(engine, "POST", "/api/v1/portal/login_customer")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, []string{"ratelimit"}, order)
	})

	t.Run("me requires authentication", func(t *testing.T) {
		engine := mountTestEngine(Guards{
			Authenticate: func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
		})
		assert.Equal(t, http.StatusUnauthorized, serve(engine, "GET", "/api/v1/portal/me").Code)
	})

	t.Run("docs are mounted behind their access guard", func(t *testing.T) {
		engine := gin.New()
		Mount(engine, Handlers{
			Portal:         handler.NewPortalHandler(nil, nil, config.SessionConfig{CookieName: "sid"}),
			Quotation:      handler.NewQuotationHandler(nil),
			Ticket:         handler.NewTicketHandler(nil),
			PaymentAccount: handler.NewPaymentAccountHandler(nil),
			Docs:           func(c *gin.Context) { c.String(http.StatusOK, c.Param("any")) },
		}, Guards{
			DocsAccess: func(c *gin.Context) {
				if c.GetHeader("X-Docs") == "" {
					c.AbortWithStatus(http.StatusForbidden)
					return
				}
				c.Next()
			},
		})

		assert.Equal(t, http.StatusForbidden, serve(engine, "GET", "/swagger/index.html").Code)

		req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
		req.Header.Set("X-Docs", "1")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/doc.json", w.Body.String())
	})

	t.Run("health is outside the api group", func(t *testing.T) {
		engine := mountTestEngine(Guards{})
		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/health").Code)
	})
}
