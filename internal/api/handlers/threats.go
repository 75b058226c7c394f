package handlers

import (
	"net/http"
	"strconv"

	"phishshield/internal/domain/services"
	"phishshield/pkg/logger"
)

// ThreatsHandler serves the scan history and aggregate statistics
type ThreatsHandler struct {
	threatLog services.ThreatLog
	logger    *logger.Logger
}

// NewThreatsHandler creates a new ThreatsHandler
func NewThreatsHandler(threatLog services.ThreatLog, log *logger.Logger) *ThreatsHandler {
	return &ThreatsHandler{
		threatLog: threatLog,
		logger:    log.WithComponent("threats_handler"),
	}
}

// Recent handles GET /api/v1/threats
func (h *ThreatsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.threatLog.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load threat log")
		respondError(w, http.StatusInternalServerError, "failed to load threat log")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"threats": entries,
		"count":   len(entries),
	})
}

// Stats handles GET /api/v1/stats
func (h *ThreatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.threatLog.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load threat stats")
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
