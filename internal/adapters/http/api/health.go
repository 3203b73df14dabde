package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/qaportal/pkg/metrics"
)

// HealthHandler serves liveness and Prometheus metrics.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}

// MetricsHandler serves the custom metrics registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
