package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/interfaces/http/dto"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

// Ping calls f
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports liveness and dependency status
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]Pinger
}

// NewHealthHandler creates a new health handler. checks are keyed by
// dependency name ("database", "redis").
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
	}
}

// HealthResponse is the health report
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. Any failing check makes the response 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			resp.Checks[name] = "unhealthy: " + err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "healthy"
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
