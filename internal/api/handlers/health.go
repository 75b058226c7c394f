package handlers

import (
	"context"
	"net/http"
	"time"

	"phishshield/internal/domain/services"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cache     *cache.RedisCache
	threatLog services.ThreatLog
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(c *cache.RedisCache, threatLog services.ThreatLog, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		cache:     c,
		threatLog: threatLog,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	respondJSON(w, http.StatusOK, response)
}

// Ready handles GET /ready - checks all dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := http.StatusOK
	overallStatus := "ready"

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.threatLog.Stats(ctx); err != nil {
		checks["threat_log"] = "unhealthy: " + err.Error()
		status = http.StatusServiceUnavailable
		overallStatus = "not ready"
	} else {
		checks["threat_log"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Version:   "1.0.0",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	respondJSON(w, status, response)
}
