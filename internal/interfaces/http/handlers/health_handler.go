package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
)

// Pinger checks one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	components map[string]Pinger
	logger     logging.Logger
	timeout    time.Duration
}

// NewHealthHandler creates a HealthHandler. Components are optional; with
// none registered, readiness always succeeds.
func NewHealthHandler(logger logging.Logger) *HealthHandler {
	return &HealthHandler{
		components: make(map[string]Pinger),
		logger:     logger,
		timeout:    2 * time.Second,
	}
}

// Register adds a dependency to the readiness check.
func (h *HealthHandler) Register(name string, p Pinger) {
	h.components[name] = p
}

// Liveness reports the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings every registered dependency.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.components))
	for name, p := range h.components {
		if err := p.Ping(ctx); err != nil {
			components[name] = "down"
			status = http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed",
				logging.String("component", name), logging.Err(err))
			continue
		}
		components[name] = "up"
	}

	body := gin.H{"status": "ready"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(components) > 0 {
		body["components"] = components
	}
	c.JSON(status, body)
}
