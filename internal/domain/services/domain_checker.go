package services

import (
	"fmt"
	"sort"
	"strings"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// homoglyphMap lists look-alike Unicode characters per ASCII letter.
var homoglyphMap = map[rune][]rune{
	'a': {'а', 'ɑ', 'α', 'ạ', 'ä', 'à', 'á', 'â', 'ã', 'å'},
	'b': {'Ь', 'ḃ', 'ɓ', 'ƀ'},
	'c': {'с', 'ç', 'ć', 'ĉ', 'ċ'},
	'd': {'ԁ', 'ḋ', 'ɗ', 'đ'},
	'e': {'е', 'ë', 'é', 'è', 'ê', 'ẹ', 'ė', 'ę'},
	'f': {'ƒ'},
	'g': {'ɡ', 'ĝ', 'ğ', 'ġ', 'ģ'},
	'h': {'һ', 'ĥ', 'ħ'},
	'i': {'і', 'ı', 'ì', 'í', 'î', 'ï', 'ĩ', 'ɪ', 'ị', 'ł'},
	'j': {'ϳ', 'ĵ'},
	'k': {'κ', 'ḳ', 'ḵ'},
	'l': {'ӏ', 'ĺ', 'ļ', 'ľ', 'ŀ', '1', '|'},
	'm': {'м', 'ṁ'},
	'n': {'п', 'ñ', 'ń', 'ņ', 'ŋ'},
	'o': {'о', 'ö', 'ó', 'ò', 'ô', 'õ', 'ọ', '0', 'ø'},
	'p': {'р', 'ṗ'},
	'q': {'ԛ'},
	'r': {'г', 'ŕ', 'ř'},
	's': {'ѕ', 'ś', 'š', 'ş', '$', '5'},
	't': {'τ', 'ṫ', 'ţ', 'ŧ'},
	'u': {'υ', 'ú', 'ù', 'û', 'ü', 'ũ', 'ụ', 'μ'},
	'v': {'ν', 'ṿ'},
	'w': {'ω', 'ẁ', 'ẃ', 'ẅ'},
	'x': {'х', 'ẋ', 'ẍ'},
	'y': {'у', 'ý', 'ÿ', 'ŷ'},
	'z': {'ź', 'ż', 'ž'},
}

// legitimateDomains are the domains phishers most often imitate.
var legitimateDomains = []string{
	"google.com", "gmail.com", "youtube.com", "facebook.com", "instagram.com",
	"twitter.com", "linkedin.com", "microsoft.com", "apple.com", "amazon.com",
	"netflix.com", "paypal.com", "ebay.com", "dropbox.com", "icloud.com",
	"outlook.com", "office365.com", "chase.com", "wellsfargo.com", "bank.com",
	"bankofamerica.com", "citibank.com", "usbank.com", "americanexpress.com",
	"whatsapp.com", "telegram.org", "signal.org", "zoom.us", "slack.com",
	"github.com", "gitlab.com", "stackoverflow.com", "reddit.com",
	"coinbase.com", "binance.com", "kraken.com", "blockchain.com",
	"adobe.com", "salesforce.com", "stripe.com", "shopify.com",
	"wordpress.com", "godaddy.com", "cloudflare.com", "aws.amazon.com",
	"yahoo.com", "aol.com", "hotmail.com", "live.com", "msn.com",
	"fidelity.com", "schwab.com", "vanguard.com", "robinhood.com",
	"dhl.com", "fedex.com", "ups.com", "usps.com",
}

// typoPatterns are digraphs that read as a single letter at a glance.
var typoPatterns = []struct {
	pattern     string
	replacement string
}{
	{"rn", "m"},
	{"cl", "d"},
	{"nn", "m"},
	{"vv", "w"},
	{"ii", "u"},
}

type domainMatch struct {
	domain       string
	similarity   float64
	editDistance int
}

type homoglyphScan struct {
	found      bool
	normalized string
	details    string
	count      int
}

// DomainChecker detects domain spoofing through edit distance analysis,
// Unicode homoglyph detection and typosquat patterns.
type DomainChecker struct {
	legitimateDomains []string
	reverseHomoglyph  map[rune]rune
	logger            *logger.Logger
}

// NewDomainChecker creates the engine with the default legitimate-domain list.
func NewDomainChecker(log *logger.Logger) *DomainChecker {
	reverse := make(map[rune]rune)
	for original, glyphs := range homoglyphMap {
		for _, g := range glyphs {
			reverse[g] = original
		}
	}
	return &DomainChecker{
		legitimateDomains: legitimateDomains,
		reverseHomoglyph:  reverse,
		logger:            log.WithComponent("domain_checker"),
	}
}

// Analyze scores a domain for spoofing and similarity to legitimate domains.
// It is a pure function of its input and never fails.
func (c *DomainChecker) Analyze(domain string) models.AnalysisResult {
	domain = cleanDomain(domain)

	score := 0.0
	reasons := []string{}
	homoglyphDetected := false
	typosquattingDetected := false
	features := map[string]any{"domain": domain}

	for _, legit := range c.legitimateDomains {
		if domain == legit {
			reasons = append(reasons, "Domain is in legitimate whitelist")
			features["homoglyph_detected"] = false
			features["typosquatting_detected"] = false
			features["match_count"] = 0
			return models.AnalysisResult{
				Engine:       models.EngineDomainChecker,
				Score:        0.0,
				Reasons:      reasons,
				Features:     features,
				IsSuspicious: false,
				Confidence:   models.ConfidenceHigh,
			}
		}
	}

	hg := c.detectHomoglyphs(domain)
	if hg.found {
		homoglyphDetected = true
		if score < 0.9 {
			score = 0.9
		}
		reasons = append(reasons, fmt.Sprintf("Homoglyph characters detected: %s", hg.details))
	}

	matches := c.findSimilarDomains(domain, hg)
	if len(matches) > 5 {
		matches = matches[:5]
	}
	if len(matches) > 0 {
		best := matches[0]
		if best.similarity >= 0.85 {
			if score < 0.85 {
				score = 0.85
			}
			reasons = append(reasons, fmt.Sprintf(
				"Very similar to legitimate domain '%s' (similarity: %.0f%%)",
				best.domain, best.similarity*100))
		} else if best.similarity >= 0.7 {
			if score < 0.6 {
				score = 0.6
			}
			reasons = append(reasons, fmt.Sprintf(
				"Moderately similar to '%s' (similarity: %.0f%%)",
				best.domain, best.similarity*100))
		}
		features["best_match"] = best.domain
		features["best_similarity"] = best.similarity
		features["best_edit_distance"] = best.editDistance
	}
	features["match_count"] = len(matches)

	if legit := c.detectTyposquatting(domain); legit != "" {
		typosquattingDetected = true
		if score < 0.8 {
			score = 0.8
		}
		reasons = append(reasons, fmt.Sprintf("Typosquatting pattern detected: resembles '%s'", legit))
	}

	if brand := c.brandInSubdomain(domain); brand != "" {
		if score < 0.7 {
			score = 0.7
		}
		reasons = append(reasons, fmt.Sprintf("Brand name '%s' found in subdomain", brand))
	}

	subdomainCount := strings.Count(domain, ".") - 1
	if subdomainCount > 2 {
		if score < 0.4 {
			score = 0.4
		}
		reasons = append(reasons, fmt.Sprintf("Excessive subdomain depth (%d levels)", subdomainCount))
	}

	features["homoglyph_detected"] = homoglyphDetected
	features["homoglyph_count"] = hg.count
	features["typosquatting_detected"] = typosquattingDetected
	features["subdomain_count"] = subdomainCount

	score = models.Round4(models.Clamp01(score))

	return models.AnalysisResult{
		Engine:       models.EngineDomainChecker,
		Score:        score,
		Reasons:      reasons,
		Features:     features,
		IsSuspicious: score > 0.5,
		Confidence:   domainConfidence(score, len(reasons)),
	}
}

func domainConfidence(score float64, signals int) models.Confidence {
	switch {
	case score > 0.75 && signals >= 2:
		return models.ConfidenceHigh
	case score > 0.4 || signals >= 2:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// cleanDomain lowercases and strips scheme, path, port and a leading www.
func cleanDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if idx := strings.Index(domain, "://"); idx >= 0 {
		domain = domain[idx+3:]
	}
	domain = strings.SplitN(domain, "/", 2)[0]
	domain = strings.SplitN(domain, ":", 2)[0]
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

func (c *DomainChecker) detectHomoglyphs(domain string) homoglyphScan {
	var normalized strings.Builder
	var details []string
	count := 0

	for _, r := range domain {
		if orig, ok := c.reverseHomoglyph[r]; ok {
			count++
			details = append(details, fmt.Sprintf("'%c' looks like '%c'", r, orig))
			normalized.WriteRune(orig)
		} else {
			normalized.WriteRune(r)
		}
	}

	return homoglyphScan{
		found:      count > 0,
		normalized: normalized.String(),
		details:    strings.Join(details, "; "),
		count:      count,
	}
}

// findSimilarDomains compares the raw domain (and its homoglyph-normalized
// form when one exists) against every legitimate domain, keeping anything
// above 0.5 similarity sorted best first.
func (c *DomainChecker) findSimilarDomains(domain string, hg homoglyphScan) []domainMatch {
	checkDomains := []string{domain}
	if hg.found {
		checkDomains = append(checkDomains, hg.normalized)
	}

	var matches []domainMatch
	for _, legit := range c.legitimateDomains {
		for _, check := range checkDomains {
			similarity := stringSimilarity(check, legit)
			if similarity > 0.5 {
				matches = append(matches, domainMatch{
					domain:       legit,
					similarity:   models.Round4(similarity),
					editDistance: levenshteinDistance(check, legit),
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	return matches
}

func (c *DomainChecker) detectTyposquatting(domain string) string {
	base := strings.SplitN(domain, ".", 2)[0]
	baseRunes := []rune(base)

	for _, legit := range c.legitimateDomains {
		legitBase := strings.SplitN(legit, ".", 2)[0]
		legitRunes := []rune(legitBase)

		// Adjacent character transposition
		for i := 0; i < len(baseRunes)-1; i++ {
			swapped := make([]rune, len(baseRunes))
			copy(swapped, baseRunes)
			swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
			if string(swapped) == legitBase {
				return legit
			}
		}

		// Single character omission from the legitimate name
		for i := range legitRunes {
			omitted := make([]rune, 0, len(legitRunes)-1)
			omitted = append(omitted, legitRunes[:i]...)
			omitted = append(omitted, legitRunes[i+1:]...)
			if string(omitted) == base {
				return legit
			}
		}

		// Doubled character
		for i := 0; i < len(baseRunes)-1; i++ {
			if baseRunes[i] == baseRunes[i+1] {
				deduped := make([]rune, 0, len(baseRunes)-1)
				deduped = append(deduped, baseRunes[:i]...)
				deduped = append(deduped, baseRunes[i+1:]...)
				if string(deduped) == legitBase {
					return legit
				}
			}
		}

		// Digraph confusions (rn reads as m, cl as d, ...)
		for _, tp := range typoPatterns {
			if strings.Contains(base, tp.pattern) {
				if strings.ReplaceAll(base, tp.pattern, tp.replacement) == legitBase {
					return legit
				}
			}
		}
	}

	return ""
}

// brandInSubdomain reports a brand name used as a subdomain of an unrelated
// registrable domain, e.g. paypal.secure-login.xyz.
func (c *DomainChecker) brandInSubdomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) <= 2 {
		return ""
	}

	subdomains := strings.Join(parts[:len(parts)-2], ".")
	mainPart := parts[len(parts)-2]

	for _, legit := range c.legitimateDomains {
		brand := strings.SplitN(legit, ".", 2)[0]
		if strings.Contains(subdomains, brand) && !strings.Contains(mainPart, brand) {
			return brand
		}
	}
	return ""
}

// levenshteinDistance computes the edit distance between two strings,
// counting runes rather than bytes.
func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, c1 := range r1 {
		curr[0] = i + 1
		for j, c2 := range r2 {
			cost := 0
			if c1 != c2 {
				cost = 1
			}
			curr[j+1] = minInt(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// stringSimilarity converts edit distance to a 0..1 ratio.
func stringSimilarity(s1, s2 string) float64 {
	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
