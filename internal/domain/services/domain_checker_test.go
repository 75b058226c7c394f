package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

func newTestDomainChecker(t *testing.T) *DomainChecker {
	t.Helper()
	return NewDomainChecker(logger.NewDefault())
}

func TestDomainCheckerWhitelistedDomain(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("google.com")

	assert.Equal(t, models.EngineDomainChecker, result.Engine)
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.IsSuspicious)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	require.NotEmpty(t, result.Reasons)
	assert.Contains(t, result.Reasons[0], "whitelist")
}

func TestDomainCheckerStripsSchemeAndPath(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("https://www.google.com/accounts/login")

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, "google.com", result.Features["domain"])
}

func TestDomainCheckerHomoglyphSpoof(t *testing.T) {
	checker := newTestDomainChecker(t)

	// Cyrillic о in place of both Latin o characters
	result := checker.Analyze("gооgle.com")

	assert.Equal(t, 0.9, result.Score)
	assert.True(t, result.IsSuspicious)
	assert.Equal(t, true, result.Features["homoglyph_detected"])
	assert.Equal(t, 2, result.Features["homoglyph_count"])
	assert.Equal(t, "google.com", result.Features["best_match"])
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestDomainCheckerTyposquatOmission(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("gogle.com")

	assert.GreaterOrEqual(t, result.Score, 0.8)
	assert.True(t, result.IsSuspicious)
	assert.Equal(t, true, result.Features["typosquatting_detected"])
}

func TestDomainCheckerDigraphTyposquat(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("rnicrosoft.com")

	assert.GreaterOrEqual(t, result.Score, 0.8)
	assert.True(t, result.IsSuspicious)
	assert.Equal(t, true, result.Features["typosquatting_detected"])
}

func TestDomainCheckerBrandInSubdomain(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("paypal.secure-login.xyz")

	assert.GreaterOrEqual(t, result.Score, 0.7)
	assert.True(t, result.IsSuspicious)

	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "subdomain") {
			found = true
		}
	}
	assert.True(t, found, "expected a subdomain reason, got %v", result.Reasons)
}

func TestDomainCheckerSubdomainDepth(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("a.b.c.d.example-site.info")

	assert.Equal(t, 0.4, result.Score)
	assert.False(t, result.IsSuspicious)
	assert.Equal(t, 4, result.Features["subdomain_count"])
}

func TestDomainCheckerUnknownCleanDomain(t *testing.T) {
	checker := newTestDomainChecker(t)

	result := checker.Analyze("a-totally-unrelated-site.org")

	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.IsSuspicious)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("paypal", "paypal"))
	assert.Equal(t, 1, levenshteinDistance("paypa1", "paypal"))
	assert.Equal(t, 6, levenshteinDistance("", "paypal"))
	assert.Equal(t, 1, levenshteinDistance("goggle", "google"))
}

func TestStringSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, stringSimilarity("chase.com", "chase.com"))
	assert.InDelta(t, 0.8333, stringSimilarity("goggle", "google"), 0.001)
	assert.Equal(t, 1.0, stringSimilarity("", ""))
}
