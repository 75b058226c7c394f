package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

func newTestURLAnalyzer(t *testing.T) *URLAnalyzer {
	t.Helper()
	return NewURLAnalyzer(logger.NewDefault())
}

func TestURLAnalyzerCleanURL(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("https://example.com")

	assert.Equal(t, models.EngineURLAnalyzer, result.Engine)
	assert.False(t, result.IsSuspicious)
	assert.Less(t, result.Score, 0.2)
	assert.Equal(t, 1, result.Features["uses_https"])
}

func TestURLAnalyzerIPAddressHost(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("http://192.168.1.5/login")

	assert.True(t, result.IsSuspicious)
	assert.Greater(t, result.Score, 0.5)
	assert.Equal(t, 1, result.Features["has_ip_address"])

	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "IP address") {
			found = true
		}
	}
	assert.True(t, found, "expected an IP address reason, got %v", result.Reasons)
}

func TestURLAnalyzerAtRedirectTrick(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("http://google.com@evil.tk/login")

	assert.Equal(t, 1, result.Features["at_redirect_trick"])
	assert.Equal(t, "google.com", result.Features["at_spoof_domain"])
	assert.Equal(t, "evil.tk", result.Features["at_real_domain"])
	assert.True(t, result.IsSuspicious)
	assert.Greater(t, result.Score, 0.6)
}

func TestURLAnalyzerHomoglyphBrand(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("http://paypa1.com/secure-login")

	assert.Equal(t, 1, result.Features["homoglyph_brand_attack"])
	assert.Equal(t, "paypal", result.Features["brand_impersonation"])
	assert.GreaterOrEqual(t, result.Score, 0.9)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestURLAnalyzerPunycodeDomain(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("https://xn--pypal-4ve.com/login")

	assert.Equal(t, 1, result.Features["has_punycode"])
	require.NotEmpty(t, result.Reasons)

	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "Punycode") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestURLAnalyzerCanonicalBrandDomainNotFlagged(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("https://www.paypal.com/signin")

	assert.Equal(t, "", result.Features["brand_impersonation"])
	assert.False(t, result.IsSuspicious)
}

func TestURLAnalyzerSubdomainBrandSpoof(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	result := analyzer.Analyze("https://paypal.account-services.xyz/verify")

	assert.Equal(t, 1, result.Features["subdomain_brand_spoof"])
	assert.Equal(t, "paypal", result.Features["subdomain_spoof_brand"])
	assert.True(t, result.IsSuspicious)
}

func TestURLAnalyzerScoreBounds(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)

	urls := []string{
		"https://example.com",
		"http://paypa1.com/secure-login?token=abc&redirect=http%3A%2F%2Fevil.tk",
		"http://1.2.3.4:8080//verify-account.php?session=1",
		"bit.ly/3xYz",
	}
	for _, u := range urls {
		result := analyzer.Analyze(u)
		assert.GreaterOrEqual(t, result.Score, 0.0, u)
		assert.LessOrEqual(t, result.Score, 1.0, u)
	}
}

func TestURLAnalyzerDeterministic(t *testing.T) {
	analyzer := newTestURLAnalyzer(t)
	target := "http://secure-login.example.xyz/verify?token=a&session=b&redirect=c"

	first := analyzer.Analyze(target)
	for i := 0; i < 5; i++ {
		again := analyzer.Analyze(target)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Reasons, again.Reasons)
	}
}

func TestShannonEntropy(t *testing.T) {
	assert.Equal(t, 0.0, shannonEntropy(""))
	assert.Equal(t, 0.0, shannonEntropy("aaaa"))
	assert.Equal(t, 1.0, shannonEntropy("abab"))
}

func TestSplitURL(t *testing.T) {
	domain, path, query := splitURL("https://example.com/a/b?x=1#frag")
	assert.Equal(t, "example.com", domain)
	assert.Equal(t, "/a/b", path)
	assert.Equal(t, "x=1", query)

	domain, path, query = splitURL("http://google.com@evil.tk/login")
	assert.Equal(t, "google.com@evil.tk", domain)
	assert.Equal(t, "/login", path)
	assert.Equal(t, "", query)
}

func TestMaxConsecutiveConsonants(t *testing.T) {
	assert.Equal(t, 2, maxConsecutiveConsonants("google.com"))
	assert.Equal(t, 7, maxConsecutiveConsonants("xkcdbrq.com"))
}
