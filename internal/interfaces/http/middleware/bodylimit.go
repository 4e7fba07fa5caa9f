package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies larger than maxBytes. A zero limit disables the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abort(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		// Streaming bodies without Content-Length are cut at the limit
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
