package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(l *zap.Logger, skip ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-test")
		c.Next()
	})
	r.Use(Recovery(l), GinMiddleware(l, skip...))
	return r
}

func TestGinMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{name: "ok", status: http.StatusOK, level: zapcore.InfoLevel},
		{name: "client error", status: http.StatusConflict, level: zapcore.WarnLevel},
		{name: "server error", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			r := newTestRouter(zap.New(core))
			r.GET("/api/v1/tickets/:name", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/abc?x=1", nil)
			r.ServeHTTP(w, req)

			entries := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)

			fields := entries[0].ContextMap()
			assert.Equal(t, "req-test", fields["request_id"])
			assert.Equal(t, "/api/v1/tickets/:name", fields["route"])
			assert.Equal(t, "x=1", fields["query"])
			assert.EqualValues(t, tt.status, fields["status"])
		})
	}
}

func TestGinMiddleware_SkipsPaths(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core), "/health")
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 0, recorded.Len())
}

func TestGinMiddleware_AttachesRequestLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/me", func(c *gin.Context) {
		GetGinLogger(c).Info("from gin context")
		L(c.Request.Context()).Info("from request context")
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))

	for _, msg := range []string{"from gin context", "from request context"} {
		entries := recorded.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "req-test", entries[0].ContextMap()["request_id"])
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"An internal error occurred"}}`, w.Body.String())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
