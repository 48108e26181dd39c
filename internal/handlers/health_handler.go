package handlers

import (
	"encoding/json"
	"net/http"

	"narration-backend/internal/health"
	"narration-backend/internal/monitoring"
)

type HealthHandler struct {
	checker   *health.HealthChecker
	collector *monitoring.Collector
}

func NewHealthHandler(checker *health.HealthChecker, collector *monitoring.Collector) *HealthHandler {
	return &HealthHandler{checker: checker, collector: collector}
}

// BasicHealth - liveness probe
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ReadinessHealth - readiness probe
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(status)
}

// SystemStats - resource usage for the console's status panel
func (h *HealthHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats := h.collector.Collect(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}
