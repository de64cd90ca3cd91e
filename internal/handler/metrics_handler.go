package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

const readinessTimeout = 2 * time.Second

type metricsSource interface {
	Handler() http.Handler
	Snapshot() models.SystemMetrics
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MetricsHandler exposes health, readiness and Prometheus endpoints.
type MetricsHandler struct {
	metrics      metricsSource
	dependencies map[string]Pinger
}

// NewMetricsHandler constructs a metrics handler. Dependencies are pinged by /ready.
func NewMetricsHandler(metrics metricsSource, dependencies map[string]Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, dependencies: dependencies}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Platform
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	data := gin.H{"status": "ok"}
	if h.metrics != nil {
		data["metrics"] = h.metrics.Snapshot()
	}
	response.JSON(c, http.StatusOK, data, nil)
}

// Ready godoc
// @Summary Readiness probe
// @Tags Platform
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.dependencies))
	status := http.StatusOK
	for name, dep := range h.dependencies {
		if dep == nil {
			continue
		}
		if err := dep.PingContext(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	if status != http.StatusOK {
		c.JSON(status, response.Envelope{Success: false, Message: "dependencies unavailable", Data: gin.H{"status": "degraded", "checks": checks}})
		return
	}
	response.JSON(c, status, gin.H{"status": "ready", "checks": checks}, nil)
}
