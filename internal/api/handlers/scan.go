package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"phishshield/internal/domain/models"
	"phishshield/internal/domain/services"
	"phishshield/pkg/logger"
)

// ScanHandler handles phishing scan endpoints
type ScanHandler struct {
	service *services.ScanService
	logger  *logger.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(svc *services.ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		service: svc,
		logger:  log.WithComponent("scan_handler"),
	}
}

// ScanURL handles POST /api/v1/scan/url
func (h *ScanHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req models.URLScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	resp, err := h.service.ScanURL(r.Context(), req.URL)
	if err != nil {
		h.logger.Error().Err(err).Msg("url scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanURLBatch handles POST /api/v1/scan/url/batch
func (h *ScanHandler) ScanURLBatch(w http.ResponseWriter, r *http.Request) {
	var req models.URLBatchScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		respondError(w, http.StatusBadRequest, "urls is required")
		return
	}

	resp, err := h.service.ScanURLBatch(r.Context(), req.URLs)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanEmail handles POST /api/v1/scan/email
func (h *ScanHandler) ScanEmail(w http.ResponseWriter, r *http.Request) {
	var req models.EmailScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusBadRequest, "subject or body is required")
		return
	}

	resp, err := h.service.ScanEmail(r.Context(), req.Subject, req.Body, req.Sender)
	if err != nil {
		h.logger.Error().Err(err).Msg("email scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanSMS handles POST /api/v1/scan/sms
func (h *ScanHandler) ScanSMS(w http.ResponseWriter, r *http.Request) {
	var req models.SMSScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.service.ScanSMS(r.Context(), req.Message, req.Sender)
	if err != nil {
		h.logger.Error().Err(err).Msg("sms scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanSMSBatch handles POST /api/v1/scan/sms/batch
func (h *ScanHandler) ScanSMSBatch(w http.ResponseWriter, r *http.Request) {
	var req models.SMSBatchScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "messages is required")
		return
	}

	resp, err := h.service.ScanSMSBatch(r.Context(), req.Messages)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanWebsite handles POST /api/v1/scan/website
func (h *ScanHandler) ScanWebsite(w http.ResponseWriter, r *http.Request) {
	var req models.WebsiteScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	resp, err := h.service.ScanWebsite(r.Context(), req.URL, req.HTML, req.Title)
	if err != nil {
		h.logger.Error().Err(err).Msg("website scan failed")
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
