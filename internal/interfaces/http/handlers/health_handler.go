package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing dependency
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and dependency readiness
type HealthHandler struct {
	service string
	version string
	checks  map[string]Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service, version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, version: version, checks: checks}
}

// Health reports that the process is up
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}

// Ready pings every dependency and answers 503 if any of them fails
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"checks": results})
}
