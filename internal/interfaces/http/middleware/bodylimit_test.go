package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/interfaces/http/dto"
)

// registrationRouter mounts a register_customer stand-in that reports how
// many body bytes it could read
func registrationRouter(maxBytes int64, reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), BodyLimit(maxBytes))
	r.POST("/portal/register_customer", func(c *gin.Context) {
		*reached = true
		body, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeTooLarge, err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "read": len(body)})
	})
	return r
}

func registrationForm(size int) string {
	padding := size - len(`{"email":"jane@example.com","city":""}`)
	return `{"email":"jane@example.com","city":"` + strings.Repeat("x", padding) + `"}`
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("registration form under the limit is read whole", func(t *testing.T) {
		var reached bool
		form := registrationForm(200)
		req := httptest.NewRequest("POST", "/portal/register_customer", strings.NewReader(form))
		w := httptest.NewRecorder()
		registrationRouter(1024, &reached).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, reached)
		assert.JSONEq(t, `{"status":"success","read":200}`, w.Body.String())
	})

	t.Run("declared length over the limit gets the error envelope", func(t *testing.T) {
		var reached bool
		req := httptest.NewRequest("POST", "/portal/register_customer", strings.NewReader(registrationForm(300)))
		req.Header.Set(RequestIDHeader, "req-413")
		w := httptest.NewRecorder()
		registrationRouter(256, &reached).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.GetHTTPStatus(dto.ErrCodeTooLarge), w.Code)
		assert.False(t, reached, "handler must not run")

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeTooLarge, resp.Error.Code)
		assert.Equal(t, "Request body exceeds maximum allowed size", resp.Error.Message)
		assert.Equal(t, "req-413", resp.Error.RequestID)
	})

	t.Run("body without a length is cut at the limit", func(t *testing.T) {
		var reached bool
		req := httptest.NewRequest("POST", "/portal/register_customer", strings.NewReader(registrationForm(300)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		registrationRouter(64, &reached).ServeHTTP(w, req)

		assert.True(t, reached)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeTooLarge)
	})

	for _, limit := range []int64{0, -1} {
		t.Run("non-positive limit disables the check", func(t *testing.T) {
			var reached bool
			form := registrationForm(4096)
			req := httptest.NewRequest("POST", "/portal/register_customer", strings.NewReader(form))
			w := httptest.NewRecorder()
			registrationRouter(limit, &reached).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "limit %d", limit)
			assert.JSONEq(t, `{"status":"success","read":4096}`, w.Body.String())
		})
	}

	t.Run("bodyless requests pass", func(t *testing.T) {
		r := gin.New()
		r.Use(BodyLimit(10))
		r.GET("/portal/me", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := serve(r, "GET", "/portal/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
