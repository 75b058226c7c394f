package services

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/idna"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// suspiciousTokens are keywords commonly found in phishing URLs.
var suspiciousTokens = []string{
	"login", "signin", "sign-in", "verify", "verification", "update", "secure",
	"account", "banking", "confirm", "password", "credential", "authenticate",
	"wallet", "payment", "paypal", "apple", "microsoft", "google", "amazon",
	"netflix", "facebook", "instagram", "twitter", "linkedin", "dropbox",
	"icloud", "outlook", "office365", "wellsfargo", "chase", "bankofamerica",
	"citibank", "usbank", "submit", "validate", "restore", "unlock", "suspend",
	"unusual", "activity", "limited", "expire", "urgent", "immediately",
	"click", "here", "free", "gift", "prize", "winner", "congratulations",
	"security", "alert", "warning", "notice", "action", "required",
	"invoice", "billing", "refund", "overdue", "unpaid", "kyc", "aadhaar",
	"pan", "parcel", "delivery", "shipment", "claim", "reward", "otp",
}

var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".club", ".online",
	".site", ".website", ".space", ".pw", ".cc", ".buzz", ".icu", ".rest",
	".fit", ".cam", ".surf", ".monster", ".quest", ".cyou", ".cfd", ".lol",
}

// highRiskTLDs are free-tier TLDs with the worst abuse track record.
var highRiskTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd", "buff.ly",
	"rebrand.ly", "tiny.cc", "shorturl.at", "cutt.ly", "rb.gy", "v.gd",
	"qr.ae", "short.io", "bl.ink", "snip.ly",
}

// brandDomains maps brand keywords to their canonical domains. Order matters:
// the first matching brand wins, so the table is a slice, not a map.
var brandDomains = []struct {
	Brand     string
	Canonical string
}{
	{"paypal", "paypal.com"},
	{"google", "google.com"},
	{"apple", "apple.com"},
	{"microsoft", "microsoft.com"},
	{"amazon", "amazon.com"},
	{"netflix", "netflix.com"},
	{"facebook", "facebook.com"},
	{"instagram", "instagram.com"},
	{"twitter", "twitter.com"},
	{"linkedin", "linkedin.com"},
	{"chase", "chase.com"},
	{"wellsfargo", "wellsfargo.com"},
	{"bankofamerica", "bankofamerica.com"},
	{"citibank", "citibank.com"},
	{"usbank", "usbank.com"},
	{"dropbox", "dropbox.com"},
	{"icloud", "icloud.com"},
	{"coinbase", "coinbase.com"},
	{"binance", "binance.com"},
	{"dhl", "dhl.com"},
	{"fedex", "fedex.com"},
	{"ups", "ups.com"},
	{"usps", "usps.com"},
	{"irs", "irs.gov"},
}

// brandHomoglyphReplacer maps digit/digraph lookalikes back to the letters
// they imitate, applied in a single pass so substitutions do not cascade.
var brandHomoglyphReplacer = strings.NewReplacer(
	"rn", "m", "cl", "d", "vv", "w", "nn", "m",
	"0", "o", "1", "l", "3", "e", "4", "a",
	"5", "s", "6", "b", "7", "t", "8", "b",
)

// blacklistPatterns emulate Safe Browsing / PhishTank style signatures.
var blacklistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
	regexp.MustCompile(`(?i)https?://[^/]+(paypal|apple|microsoft|amazon|google|chase|irs)[^/]*\.(tk|ml|ga|cf|gq|xyz|top|pw)`),
	regexp.MustCompile(`(?i)secure.{0,15}login|login.{0,15}secure`),
	regexp.MustCompile(`(?i)(verify|update|confirm).{0,20}(account|identity|info)`),
	regexp.MustCompile(`(?i)https?://[^/]+/[^/]*(phish|hack|steal|malware)`),
	regexp.MustCompile(`(?i)https?://[^/]*(-secure|-login|-verify|-update)\.`),
}

var suspiciousParams = map[string]bool{
	"session": true, "token": true, "auth": true, "redirect": true,
	"redir": true, "return": true, "returnurl": true, "next": true,
	"callback": true, "ref": true, "go": true, "goto": true,
	"dest": true, "destination": true, "forward": true, "target": true,
	"continue": true,
}

// atTrickBrands are checked when deciding whether the part before an @ is a
// decoy domain rather than plain credentials.
var atTrickBrands = []string{
	"google", "paypal", "apple", "microsoft", "amazon",
	"facebook", "instagram", "netflix", "linkedin",
	"chase", "wellsfargo", "bankofamerica", "coinbase",
}

var (
	schemeRe       = regexp.MustCompile(`^https?://`)
	ipHostRe       = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$|^\[[0-9a-fA-F:]+\]$|^0x[0-9a-fA-F]+$`)
	fileExtRe      = regexp.MustCompile(`\.\w{2,4}$`)
	dangerousExtRe = regexp.MustCompile(`\.(exe|zip|rar|js|vbs|scr|bat|cmd|ps1|dmg|apk)$`)
)

type brandHit struct {
	brand      string
	similarity float64
	homoglyph  bool
}

type urlFeatures struct {
	values map[string]any

	suspiciousTokensFound []string
	suspiciousParamsFound []string
	brand                 brandHit
	atSpoofDomain         string
	atRealDomain          string
}

// URLAnalyzer extracts 40+ lexical and structural features from a URL and
// applies multi-layer category scoring.
type URLAnalyzer struct {
	logger *logger.Logger
}

func NewURLAnalyzer(log *logger.Logger) *URLAnalyzer {
	return &URLAnalyzer{logger: log.WithComponent("url_analyzer")}
}

// Analyze scores a URL for phishing risk. Internal failures produce a
// neutral-elevated fallback result instead of an error.
func (a *URLAnalyzer) Analyze(rawURL string) models.AnalysisResult {
	features, err := a.extractFeatures(rawURL)
	if err != nil {
		return models.AnalysisResult{
			Engine:       models.EngineURLAnalyzer,
			Score:        0.5,
			Features:     map[string]any{},
			Reasons:      []string{fmt.Sprintf("Analysis error: %v", err)},
			Confidence:   models.ConfidenceLow,
			IsSuspicious: true,
		}
	}

	score, reasons, confidence := a.calculateScore(features)

	return models.AnalysisResult{
		Engine:       models.EngineURLAnalyzer,
		Score:        models.Round4(score),
		Features:     features.values,
		Reasons:      reasons,
		Confidence:   confidence,
		IsSuspicious: score > 0.5,
	}
}

func (a *URLAnalyzer) extractFeatures(rawURL string) (*urlFeatures, error) {
	work := rawURL
	if !strings.Contains(work, "://") {
		work = "http://" + work
	}

	parsed, err := url.Parse(work)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	// The authority segment is taken verbatim, userinfo and port included,
	// since tricks like trusted.com@evil.tk live there.
	domain, path, query := splitURL(work)
	if domain == "" {
		domain = strings.SplitN(parsed.Path, "/", 2)[0]
	}

	f := &urlFeatures{values: map[string]any{}}
	v := f.values

	v["url_length"] = len(rawURL)
	v["domain_length"] = len(domain)
	v["path_length"] = len(path)
	v["query_length"] = len(query)

	v["dot_count"] = strings.Count(rawURL, ".")
	v["hyphen_count"] = strings.Count(rawURL, "-")
	v["underscore_count"] = strings.Count(rawURL, "_")
	v["slash_count"] = strings.Count(rawURL, "/")
	v["at_sign"] = boolToInt(strings.Contains(rawURL, "@"))

	v["at_redirect_trick"] = 0
	v["at_spoof_domain"] = ""
	v["at_real_domain"] = ""
	if strings.Contains(rawURL, "@") {
		authority := strings.SplitN(schemeRe.ReplaceAllString(rawURL, ""), "/", 2)[0]
		if idx := strings.LastIndex(authority, "@"); idx >= 0 {
			decoy := authority[:idx]
			real := authority[idx+1:]
			decoyLooksLikeDomain := strings.Contains(decoy, ".")
			if !decoyLooksLikeDomain {
				lower := strings.ToLower(decoy)
				for _, b := range atTrickBrands {
					if strings.Contains(lower, b) {
						decoyLooksLikeDomain = true
						break
					}
				}
			}
			if decoyLooksLikeDomain && real != "" && !strings.EqualFold(decoy, real) {
				v["at_redirect_trick"] = 1
				v["at_spoof_domain"] = decoy
				v["at_real_domain"] = real
				f.atSpoofDomain = decoy
				f.atRealDomain = real
			}
		}
	}

	v["double_slash_redirect"] = 0
	if len(rawURL) > 8 && strings.Contains(rawURL[8:], "//") {
		v["double_slash_redirect"] = 1
	}

	digits, letters, specials := 0, 0, 0
	runeCount := 0
	for _, r := range rawURL {
		runeCount++
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
		if r < 128 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			specials++
		}
	}
	v["digit_count"] = digits
	v["special_char_count"] = specials
	v["digit_ratio"] = float64(digits) / math.Max(float64(runeCount), 1)
	v["letter_ratio"] = float64(letters) / math.Max(float64(runeCount), 1)

	v["has_ip_address"] = boolToInt(ipHostRe.MatchString(domain))
	v["subdomain_count"] = maxInt(strings.Count(domain, ".")-1, 0)
	v["has_suspicious_tld"] = boolToInt(hasAnySuffix(domain, suspiciousTLDs))
	v["has_high_risk_tld"] = boolToInt(hasAnySuffix(domain, highRiskTLDs))
	v["is_shortened"] = boolToInt(containsAny(domain, urlShorteners))
	v["domain_has_digits"] = boolToInt(strings.ContainsAny(strings.SplitN(domain, ".", 2)[0], "0123456789"))
	v["has_port"] = boolToInt(strings.Contains(domain, ":") && !strings.HasPrefix(domain, "["))

	v["url_entropy"] = shannonEntropy(rawURL)
	v["domain_entropy"] = shannonEntropy(domain)
	if path != "" {
		v["path_entropy"] = shannonEntropy(path)
	} else {
		v["path_entropy"] = 0.0
	}

	urlLower := strings.ToLower(rawURL)
	for _, token := range suspiciousTokens {
		if strings.Contains(urlLower, token) {
			f.suspiciousTokensFound = append(f.suspiciousTokensFound, token)
		}
	}
	v["suspicious_token_count"] = len(f.suspiciousTokensFound)
	v["suspicious_tokens_found"] = strings.Join(firstN(f.suspiciousTokensFound, 5), ", ")

	v["uses_https"] = boolToInt(parsed.Scheme == "https")
	v["has_www"] = boolToInt(strings.HasPrefix(domain, "www."))

	if path != "" {
		v["path_depth"] = strings.Count(path, "/") - 1
	} else {
		v["path_depth"] = 0
	}
	pathLower := strings.ToLower(path)
	v["has_file_extension"] = boolToInt(fileExtRe.MatchString(path))
	v["has_php"] = boolToInt(strings.Contains(pathLower, ".php"))
	v["has_suspicious_extension"] = boolToInt(dangerousExtRe.MatchString(pathLower))

	params, _ := url.ParseQuery(query)
	v["query_param_count"] = len(params)
	v["has_encoded_chars"] = boolToInt(strings.Contains(rawURL, "%"))

	for p := range params {
		if suspiciousParams[strings.ToLower(p)] {
			f.suspiciousParamsFound = append(f.suspiciousParamsFound, p)
		}
	}
	// map iteration order is random, keep output reproducible
	sort.Strings(f.suspiciousParamsFound)
	v["has_suspicious_params"] = boolToInt(len(f.suspiciousParamsFound) > 0)
	v["suspicious_params_found"] = strings.Join(f.suspiciousParamsFound, ", ")

	v["has_punycode"] = boolToInt(strings.Contains(strings.ToLower(domain), "xn--"))
	v["idn_decoded"] = ""
	if v["has_punycode"] == 1 {
		if decoded, derr := idna.ToUnicode(domain); derr == nil {
			v["idn_decoded"] = decoded
		} else {
			v["idn_decoded"] = domain
		}
	}

	v["subdomain_brand_spoof"] = 0
	v["subdomain_spoof_brand"] = ""
	domainParts := strings.Split(strings.ReplaceAll(strings.ToLower(domain), "www.", ""), ".")
	if len(domainParts) >= 3 {
		subdomains := strings.Join(domainParts[:len(domainParts)-2], ".")
		rootDomain := strings.Join(domainParts[len(domainParts)-2:], ".")
		for _, b := range brandDomains {
			if strings.Contains(subdomains, b.Brand) && !strings.Contains(rootDomain, b.Brand) {
				v["subdomain_brand_spoof"] = 1
				v["subdomain_spoof_brand"] = b.Brand
				break
			}
		}
	}

	v["consecutive_consonants_max"] = maxConsecutiveConsonants(domain)
	v["vowel_ratio"] = vowelRatio(domain)

	f.brand = detectBrandImpersonation(domain, urlLower)
	v["brand_impersonation"] = f.brand.brand
	v["brand_similarity"] = f.brand.similarity
	v["homoglyph_brand_attack"] = boolToInt(f.brand.homoglyph)

	v["blacklist_pattern_match"] = boolToInt(matchesBlacklist(rawURL))
	v["likely_new_domain"] = boolToInt(likelyNewDomain(domain))

	return f, nil
}

// urlCategoryWeights combine the seven category buckets into the base score.
var urlCategoryWeights = []struct {
	name   string
	weight float64
}{
	{"blacklist", 0.25},
	{"brand", 0.20},
	{"domain", 0.22},
	{"structure", 0.15},
	{"tokens", 0.10},
	{"entropy", 0.05},
	{"length", 0.03},
}

func (a *URLAnalyzer) calculateScore(f *urlFeatures) (float64, []string, models.Confidence) {
	v := f.values
	reasons := []string{}
	buckets := map[string]float64{}

	if v["blacklist_pattern_match"] == 1 {
		buckets["blacklist"] += 0.9
		reasons = append(reasons, "Matches known phishing URL pattern (Safe Browsing / PhishTank rules)")
	}

	if f.brand.brand != "" {
		switch {
		case f.brand.homoglyph:
			buckets["brand"] += 0.85
			reasons = append(reasons, fmt.Sprintf(
				"Homoglyph brand attack: domain mimics '%s' using lookalike characters", f.brand.brand))
		case f.brand.similarity >= 0.8:
			buckets["brand"] += 0.75
			reasons = append(reasons, fmt.Sprintf(
				"High-confidence brand impersonation: '%s' (%.0f%% similarity)", f.brand.brand, f.brand.similarity*100))
		default:
			buckets["brand"] += 0.5
			reasons = append(reasons, fmt.Sprintf(
				"Possible brand impersonation: '%s' detected in URL", f.brand.brand))
		}
	}

	urlLength := v["url_length"].(int)
	if urlLength > 75 {
		buckets["length"] += 0.25
		reasons = append(reasons, fmt.Sprintf("Unusually long URL (%d chars)", urlLength))
	}
	if urlLength > 150 {
		buckets["length"] += 0.25
		reasons = append(reasons, "Extremely long URL, common obfuscation tactic")
	}

	if v["has_ip_address"] == 1 {
		buckets["domain"] += 0.85
		reasons = append(reasons, "URL uses raw IP address instead of domain name")
	}
	if sub := v["subdomain_count"].(int); sub > 2 {
		buckets["domain"] += 0.4
		reasons = append(reasons, fmt.Sprintf("Excessive subdomains (%d), common in free-hosting phishing", sub))
	}
	if v["has_high_risk_tld"] == 1 {
		buckets["domain"] += 0.55
		reasons = append(reasons, "High-risk free TLD (.tk/.ml/.ga/.cf/.gq), heavily abused by phishers")
	} else if v["has_suspicious_tld"] == 1 {
		buckets["domain"] += 0.40
		reasons = append(reasons, "Suspicious top-level domain")
	}
	if v["is_shortened"] == 1 {
		buckets["domain"] += 0.40
		reasons = append(reasons, "URL shortener detected, hides true destination")
	}
	if v["domain_has_digits"] == 1 {
		buckets["domain"] += 0.2
		reasons = append(reasons, "Domain contains digits (brand-mimicry pattern)")
	}
	if v["has_port"] == 1 {
		buckets["domain"] += 0.35
		reasons = append(reasons, "Non-standard port in URL")
	}
	if v["likely_new_domain"] == 1 {
		buckets["domain"] += 0.25
		reasons = append(reasons, "Domain appears newly registered (age heuristic)")
	}

	if v["at_redirect_trick"] == 1 {
		buckets["structure"] += 0.90
		reasons = append(reasons, fmt.Sprintf(
			"URL redirection trick: displays '%s' before '@' but actually sends browser to '%s'",
			f.atSpoofDomain, f.atRealDomain))
	} else if v["at_sign"] == 1 {
		buckets["structure"] += 0.60
		reasons = append(reasons, "@ symbol in URL: browser treats everything before @ as credentials and redirects to the domain after it")
	}
	if v["double_slash_redirect"] == 1 {
		buckets["structure"] += 0.4
		reasons = append(reasons, "// redirect detected in URL path")
	}
	if hyphens := v["hyphen_count"].(int); hyphens > 3 {
		buckets["structure"] += 0.3
		reasons = append(reasons, fmt.Sprintf("Excessive hyphens (%d), phishing domain pattern", hyphens))
	}
	if dots := v["dot_count"].(int); dots > 4 {
		buckets["structure"] += 0.3
		reasons = append(reasons, fmt.Sprintf("Excessive dots (%d)", dots))
	}
	if v["uses_https"] == 0 {
		buckets["structure"] += 0.30
		reasons = append(reasons, "No HTTPS: unencrypted connection")
	}

	if count := v["suspicious_token_count"].(int); count > 0 {
		buckets["tokens"] += math.Min(float64(count)*0.15, 0.85)
		reasons = append(reasons, fmt.Sprintf("Suspicious keywords in URL: %s",
			strings.Join(firstN(f.suspiciousTokensFound, 4), ", ")))
	}

	if v["has_suspicious_params"] == 1 {
		buckets["structure"] += 0.30
		reasons = append(reasons, fmt.Sprintf("Suspicious URL parameters detected: %s",
			strings.Join(firstN(f.suspiciousParamsFound, 4), ", ")))
	}

	if v["has_punycode"] == 1 {
		buckets["domain"] += 0.70
		reason := "Punycode/IDN domain detected (xn--), used to create unicode look-alike domains"
		if decoded := v["idn_decoded"].(string); decoded != "" {
			reason += fmt.Sprintf(": decoded as '%s'", decoded)
		}
		reasons = append(reasons, reason)
	}

	if v["subdomain_brand_spoof"] == 1 {
		brand := v["subdomain_spoof_brand"].(string)
		buckets["brand"] += 0.80
		reasons = append(reasons, fmt.Sprintf(
			"Subdomain spoofing: '%s' used as subdomain to appear legitimate, actual domain is different", brand))
	}

	if v["url_entropy"].(float64) > 4.5 {
		buckets["entropy"] += 0.3
		reasons = append(reasons, fmt.Sprintf("High URL entropy (%.2f), possible character obfuscation", v["url_entropy"].(float64)))
	}
	if v["domain_entropy"].(float64) > 3.8 {
		buckets["entropy"] += 0.3
		reasons = append(reasons, fmt.Sprintf("High domain entropy (%.2f), random or generated domain", v["domain_entropy"].(float64)))
	}

	if v["has_encoded_chars"] == 1 {
		buckets["structure"] += 0.15
		reasons = append(reasons, "Encoded characters (%xx) in URL")
	}
	if v["has_suspicious_extension"] == 1 {
		buckets["structure"] += 0.55
		reasons = append(reasons, "Suspicious file extension (.exe/.apk/.ps1 etc.)")
	}
	if v["consecutive_consonants_max"].(int) > 4 {
		buckets["domain"] += 0.2
		reasons = append(reasons, "Domain contains unusual consonant clusters")
	}

	score := 0.0
	for _, cw := range urlCategoryWeights {
		score += math.Min(buckets[cw.name], 1.0) * cw.weight
	}
	score = models.Clamp01(score)

	// Brand impersonation combined with suspicious keywords escalates the
	// weighted score, never lowers it.
	if f.brand.similarity > 0.75 && len(f.suspiciousTokensFound) > 0 {
		if boosted := math.Min(score*1.35, 1.0); boosted > score {
			score = boosted
			reasons = append(reasons, fmt.Sprintf(
				"HIGH RISK: brand impersonation ('%s', %.0f%% similarity) combined with %d suspicious keyword(s)",
				f.brand.brand, f.brand.similarity*100, len(f.suspiciousTokensFound)))
		}
	}

	flagged := 0
	for _, cw := range urlCategoryWeights {
		if buckets[cw.name] > 0.2 {
			flagged++
		}
	}
	if flagged >= 4 {
		score = math.Min(score*1.5, 1.0)
		reasons = append(reasons, "Multiple high-risk categories triggered simultaneously")
	} else if flagged >= 3 {
		score = math.Min(score*1.3, 1.0)
		reasons = append(reasons, "Multiple risk categories triggered")
	}

	var confidence models.Confidence
	switch {
	case score > 0.75 && flagged >= 3:
		confidence = models.ConfidenceHigh
	case score > 0.4 || flagged >= 2:
		confidence = models.ConfidenceMedium
	default:
		confidence = models.ConfidenceLow
	}

	return score, reasons, confidence
}

// detectBrandImpersonation looks for brand keywords via exact substring,
// homoglyph normalization and path placement. Brands are checked in table
// order and the first hit wins.
func detectBrandImpersonation(domain, urlLower string) brandHit {
	domainClean := strings.ReplaceAll(strings.ToLower(domain), "www.", "")
	normalized := brandHomoglyphReplacer.Replace(domainClean)
	result := brandHit{}

	for _, b := range brandDomains {
		if domainClean == b.Canonical || strings.HasSuffix(domainClean, "."+b.Canonical) {
			return result
		}

		if strings.Contains(domainClean, b.Brand) && !strings.Contains(domainClean, b.Canonical) {
			return brandHit{brand: b.Brand, similarity: 0.85}
		}

		if strings.Contains(normalized, b.Brand) && !strings.Contains(domainClean, b.Brand) {
			return brandHit{brand: b.Brand, similarity: 0.95, homoglyph: true}
		}

		if result.brand == "" && strings.Contains(urlLower, b.Brand) && !strings.Contains(domainClean, b.Canonical) {
			result = brandHit{brand: b.Brand, similarity: 0.65}
		}
	}

	return result
}

func matchesBlacklist(rawURL string) bool {
	for _, p := range blacklistPatterns {
		if p.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// likelyNewDomain is a structural stand-in for a WHOIS age lookup: random
// digit-heavy names on free TLDs, or hyphenated names on suspicious TLDs.
func likelyNewDomain(domain string) bool {
	base := strings.SplitN(domain, ".", 2)[0]
	digits := 0
	for _, r := range base {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	digitRatio := float64(digits) / math.Max(float64(len(base)), 1)
	if digitRatio > 0.3 && hasAnySuffix(domain, highRiskTLDs) {
		return true
	}
	return strings.Contains(domain, "-") && hasAnySuffix(domain, suspiciousTLDs)
}

// splitURL carves the raw URL into authority, path and query segments
// without decoding anything.
func splitURL(raw string) (domain, path, query string) {
	rest := raw
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	}
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		domain = rest[:idx]
		rest = rest[idx:]
	} else {
		return rest, "", ""
	}
	if idx := strings.IndexAny(rest, "?#"); idx >= 0 {
		path = rest[:idx]
		if rest[idx] == '?' {
			query = rest[idx+1:]
			if h := strings.Index(query, "#"); h >= 0 {
				query = query[:h]
			}
		}
	} else {
		path = rest
	}
	return domain, path, query
}

// shannonEntropy computes character entropy in bits, truncated to 4 decimals.
func shannonEntropy(text string) float64 {
	if text == "" {
		return 0.0
	}
	freq := map[rune]int{}
	length := 0
	for _, r := range text {
		freq[r]++
		length++
	}
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(length)
		entropy -= p * math.Log2(p)
	}
	return models.Round4(entropy)
}

func maxConsecutiveConsonants(text string) int {
	maxCount, current := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) && !strings.ContainsRune("aeiouAEIOU", r) {
			current++
			if current > maxCount {
				maxCount = current
			}
		} else {
			current = 0
		}
	}
	return maxCount
}

func vowelRatio(text string) float64 {
	if text == "" {
		return 0.0
	}
	vowels, letters := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if strings.ContainsRune("aeiou", unicode.ToLower(r)) {
				vowels++
			}
		}
	}
	return float64(vowels) / math.Max(float64(letters), 1)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
