package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"phishshield/internal/domain/models"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

const (
	maxEmailURLs = 5
	maxSMSURLs   = 3
	maxBatchSize = 100

	safeCacheTTL     = 5 * time.Minute
	phishingCacheTTL = time.Hour
)

// ScanService orchestrates the detection engines, fuses their results and
// records every scan in the threat log.
type ScanService struct {
	urlAnalyzer   *URLAnalyzer
	nlpEngine     *NLPEngine
	domainChecker *DomainChecker
	visualEngine  *VisualEngine
	riskScorer    *RiskScorer
	threatLog     ThreatLog
	cache         *cache.RedisCache
	logger        *logger.Logger
}

// NewScanService wires the engines together. cache may be nil, in which case
// URL scan results are recomputed on every request.
func NewScanService(threatLog ThreatLog, redisCache *cache.RedisCache, log *logger.Logger) *ScanService {
	return &ScanService{
		urlAnalyzer:   NewURLAnalyzer(log),
		nlpEngine:     NewNLPEngine(log),
		domainChecker: NewDomainChecker(log),
		visualEngine:  NewVisualEngine(log),
		riskScorer:    NewRiskScorer(log),
		threatLog:     threatLog,
		cache:         redisCache,
		logger:        log.WithComponent("scan_service"),
	}
}

// ScanURL runs the URL and domain engines against a single URL.
func (s *ScanService) ScanURL(ctx context.Context, target string) (*models.ScanResponse, error) {
	if target == "" {
		return nil, fmt.Errorf("url is required")
	}

	if cached, ok := s.cachedResponse(ctx, target); ok {
		return cached, nil
	}

	results := make([]models.AnalysisResult, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = s.urlAnalyzer.Analyze(target)
	}()
	go func() {
		defer wg.Done()
		results[1] = s.domainChecker.Analyze(domainOf(target))
	}()
	wg.Wait()

	resp := s.finishScan(ctx, models.ScanTypeURL, target, results)
	s.cacheResponse(ctx, target, resp)
	return resp, nil
}

// ScanURLBatch scans up to 100 URLs.
func (s *ScanService) ScanURLBatch(ctx context.Context, urls []string) (*models.BatchScanResponse, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("urls are required")
	}
	if len(urls) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum of %d", len(urls), maxBatchSize)
	}

	batch := &models.BatchScanResponse{Results: make([]models.ScanResponse, 0, len(urls))}
	for _, u := range urls {
		resp, err := s.ScanURL(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", u, err)
		}
		batch.Results = append(batch.Results, *resp)
	}
	batch.Count = len(batch.Results)
	return batch, nil
}

// ScanEmail runs the text engine on the message plus the URL engine on up to
// 5 links extracted from the body.
func (s *ScanService) ScanEmail(ctx context.Context, subject, body, sender string) (*models.ScanResponse, error) {
	if body == "" && subject == "" {
		return nil, fmt.Errorf("email subject or body is required")
	}

	found := firstN(textURLRe.FindAllString(body, -1), maxEmailURLs)
	results := make([]models.AnalysisResult, 1+len(found))
	var wg sync.WaitGroup
	wg.Add(1 + len(found))
	go func() {
		defer wg.Done()
		results[0] = s.nlpEngine.Analyze(body, subject, sender, models.ContentTypeEmail)
	}()
	for i, u := range found {
		go func(i int, u string) {
			defer wg.Done()
			results[1+i] = s.urlAnalyzer.Analyze(u)
		}(i, u)
	}
	wg.Wait()

	target := sender
	if target == "" {
		target = truncate(subject, 50)
	}
	return s.finishScan(ctx, models.ScanTypeEmail, target, results), nil
}

// ScanSMS runs the text engine on an SMS plus the URL engine on up to 3 links.
func (s *ScanService) ScanSMS(ctx context.Context, message, sender string) (*models.ScanResponse, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	found := firstN(textURLRe.FindAllString(message, -1), maxSMSURLs)
	results := make([]models.AnalysisResult, 1+len(found))
	var wg sync.WaitGroup
	wg.Add(1 + len(found))
	go func() {
		defer wg.Done()
		results[0] = s.nlpEngine.Analyze(message, "", sender, models.ContentTypeSMS)
	}()
	for i, u := range found {
		go func(i int, u string) {
			defer wg.Done()
			results[1+i] = s.urlAnalyzer.Analyze(u)
		}(i, u)
	}
	wg.Wait()

	target := sender
	if target == "" {
		target = truncate(message, 50)
	}
	return s.finishScan(ctx, models.ScanTypeSMS, target, results), nil
}

// ScanSMSBatch scans up to 100 messages.
func (s *ScanService) ScanSMSBatch(ctx context.Context, messages []models.SMSScanRequest) (*models.BatchScanResponse, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}
	if len(messages) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum of %d", len(messages), maxBatchSize)
	}

	batch := &models.BatchScanResponse{Results: make([]models.ScanResponse, 0, len(messages))}
	for _, m := range messages {
		resp, err := s.ScanSMS(ctx, m.Message, m.Sender)
		if err != nil {
			return nil, err
		}
		batch.Results = append(batch.Results, *resp)
	}
	batch.Count = len(batch.Results)
	return batch, nil
}

// ScanWebsite runs the URL, domain and visual engines against a fetched page.
func (s *ScanService) ScanWebsite(ctx context.Context, target, html, title string) (*models.ScanResponse, error) {
	if target == "" {
		return nil, fmt.Errorf("url is required")
	}

	results := make([]models.AnalysisResult, 3)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		results[0] = s.urlAnalyzer.Analyze(target)
	}()
	go func() {
		defer wg.Done()
		results[1] = s.domainChecker.Analyze(domainOf(target))
	}()
	go func() {
		defer wg.Done()
		results[2] = s.visualEngine.Analyze(html, target, title)
	}()
	wg.Wait()

	return s.finishScan(ctx, models.ScanTypeWebsite, target, results), nil
}

// finishScan fuses engine results, appends the threat log entry and builds
// the response.
func (s *ScanService) finishScan(ctx context.Context, scanType models.ScanType, target string, results []models.AnalysisResult) *models.ScanResponse {
	assessment := s.riskScorer.CalculateRisk(results)
	now := time.Now().UTC()

	resp := &models.ScanResponse{
		ScanID:     uuid.New().String(),
		Type:       scanType,
		Target:     target,
		Assessment: assessment,
		Engines:    results,
		ScannedAt:  now,
	}

	entry := models.ThreatLogEntry{
		ID:         resp.ScanID,
		Type:       scanType,
		Target:     target,
		RiskScore:  assessment.RiskScore,
		RiskLevel:  assessment.RiskLevel,
		IsPhishing: assessment.IsPhishing,
		Timestamp:  now,
	}
	if err := s.threatLog.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("scan_id", resp.ScanID).Msg("failed to record threat log entry")
	}

	s.logger.Info().
		Str("scan_id", resp.ScanID).
		Str("type", string(scanType)).
		Float64("risk_score", assessment.RiskScore).
		Str("risk_level", string(assessment.RiskLevel)).
		Msg("scan completed")

	return resp
}

func (s *ScanService) cachedResponse(ctx context.Context, target string) (*models.ScanResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	var resp models.ScanResponse
	if err := s.cache.GetJSON(ctx, urlCacheKey(target), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (s *ScanService) cacheResponse(ctx context.Context, target string, resp *models.ScanResponse) {
	if s.cache == nil {
		return
	}
	ttl := safeCacheTTL
	if resp.Assessment.IsPhishing {
		ttl = phishingCacheTTL
	}
	if err := s.cache.SetJSON(ctx, urlCacheKey(target), resp, ttl); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache scan result")
	}
}

func urlCacheKey(target string) string {
	hash := sha256.Sum256([]byte(target))
	return cache.KeyScanPrefix + hex.EncodeToString(hash[:16])
}

// domainOf extracts the host portion of a URL for the domain engine.
func domainOf(target string) string {
	if idx := strings.Index(target, "://"); idx >= 0 {
		target = target[idx+3:]
	}
	return strings.SplitN(target, "/", 2)[0]
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
