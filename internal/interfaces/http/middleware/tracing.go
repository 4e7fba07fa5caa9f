package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds client supplied request ids
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "vellap-portal",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin server span middleware. Span names
// follow "METHOD /route/pattern".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanErrorMarker tags the server span with the request id and marks it
// failed for responses of 400 and above. Place it after Tracing and RequestID.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if id := GetRequestID(c); id != "" && span.IsRecording() {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		msg := http.StatusText(status)
		if status >= http.StatusInternalServerError {
			msg = "Internal Server Error"
		}
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

// TagPrincipal adds the authenticated user to the current span. Place it
// after Authenticate.
func TagPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if p := GetPrincipal(c); p != nil && span.IsRecording() {
			span.SetAttributes(
				attribute.String("user_id", p.UserID.String()),
				attribute.String("auth_method", string(p.Method)),
			)
		}
		c.Next()
	}
}
