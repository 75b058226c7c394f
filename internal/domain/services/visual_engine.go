package services

import (
	"fmt"
	"regexp"
	"strings"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// spoofedBrands lists brand page fingerprints, checked in order with the
// first matching brand winning.
var spoofedBrands = []struct {
	Name     string
	Logos    []string
	Elements []string
}{
	{"google",
		[]string{"google-logo", "google_logo", "google.svg", "google-icon"},
		[]string{"gmail", "google account", "sign in with google", "google drive", "google pay"}},
	{"microsoft",
		[]string{"microsoft-logo", "msft-logo", "office-logo", "ms-logo"},
		[]string{"microsoft", "outlook", "office 365", "office365", "windows live", "azure"}},
	{"apple",
		[]string{"apple-logo", "apple-icon"},
		[]string{"apple id", "icloud", "find my", "apple store"}},
	{"facebook",
		[]string{"facebook-logo", "fb-logo", "meta-logo"},
		[]string{"facebook", "log into facebook", "meta", "instagram login", "connect with facebook"}},
	{"paypal",
		[]string{"paypal-logo", "paypal-icon"},
		[]string{"paypal", "pay with paypal", "paypal checkout", "log in to paypal"}},
	{"amazon",
		[]string{"amazon-logo", "amazon-icon"},
		[]string{"amazon", "sign-in", "amazon prime", "aws console", "amazon web services"}},
	{"netflix",
		[]string{"netflix-logo"},
		[]string{"netflix", "continue watching", "your netflix account"}},
	{"chase",
		[]string{"chase-logo"},
		[]string{"chase bank", "jpmorgan chase", "sign in to chase"}},
	{"wellsfargo",
		[]string{"wellsfargo-logo"},
		[]string{"wells fargo", "sign on to wells fargo"}},
	{"coinbase",
		[]string{"coinbase-logo"},
		[]string{"coinbase", "sign into coinbase", "coinbase wallet"}},
	{"metamask",
		[]string{"metamask-logo", "fox-logo"},
		[]string{"metamask", "connect wallet", "seed phrase", "recovery phrase", "private key"}},
	{"dhl",
		[]string{"dhl-logo"},
		[]string{"dhl express", "track your shipment", "dhl delivery"}},
	{"sbi",
		[]string{"sbi-logo"},
		[]string{"state bank of india", "sbi net banking", "onlinesbi"}},
	{"hdfc",
		[]string{"hdfc-logo"},
		[]string{"hdfc bank", "hdfc netbanking", "hdfc credit card"}},
}

var dangerousInputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)type=["']?password["']?`),
	regexp.MustCompile(`(?i)name=["']?(pin|otp|cvv|cvc|card.?number|pan.[card]?|aadhaar|ssn|routing)["']?`),
	regexp.MustCompile(`(?i)placeholder=["']?(enter (your )?(otp|pin|cvv|card number|credit card))`),
	regexp.MustCompile(`(?i)autocomplete=["']?(cc-number|cc-csc|cc-exp)`),
}

var (
	passwordFieldRe = regexp.MustCompile(`type=["']?password["']?`)
	otpFieldRe      = regexp.MustCompile(`(otp|one.?time.?pass|verification\s*code)`)
	cardFieldRe     = regexp.MustCompile(`(credit.?card|debit.?card|card.?number|cvv|cvc|cc-number)`)
	sensitiveIDRe   = regexp.MustCompile(`(pan\s*card|aadhaar|ssn|social.?security)`)
	pinFieldRe      = regexp.MustCompile(`name=["']?pin["']?|placeholder=["']?.*pin`)
	formActionRe    = regexp.MustCompile(`<form[^>]*action\s*=\s*["']([^"']+)`)
	hiddenFieldRe   = regexp.MustCompile(`type\s*=\s*["']hidden["']`)
	scriptBodyRe    = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
	obfuscationRe   = regexp.MustCompile(`(eval\s*\(|unescape\s*\(|atob\s*\(|fromCharCode)`)
	keyloggerRe     = regexp.MustCompile(`(onkeypress|onkeydown|addEventListener.*key)`)
	clipboardRe     = regexp.MustCompile(`(clipboard|navigator\.clipboard|document\.execCommand.*copy)`)
	antiInspectRe   = regexp.MustCompile(`(?i)(disable|prevent)\s*(select|copy|paste|inspect)`)
)

var credFormTokens = []string{"login", "password", "username", "email", "signin"}

var loginUIKeywords = []string{
	"forgot password", "remember me", "keep me signed in",
	"create account", "sign up", "register",
}

// legitLoginHosts exempt real login pages from the fake-login fingerprint.
var legitLoginHosts = []string{"google.com", "microsoft.com", "apple.com", "amazon.com"}

// VisualEngine analyzes page HTML for fake login pages, credential
// harvesting forms and brand impersonation.
type VisualEngine struct {
	logger *logger.Logger
}

func NewVisualEngine(log *logger.Logger) *VisualEngine {
	return &VisualEngine{logger: log.WithComponent("visual_engine")}
}

// Analyze scores page markup. Empty HTML yields a fixed low-confidence 0.3.
func (e *VisualEngine) Analyze(htmlContent, pageURL, pageTitle string) models.AnalysisResult {
	if htmlContent == "" {
		return models.AnalysisResult{
			Engine:       models.EngineVisual,
			Score:        0.3,
			Reasons:      []string{"No HTML content available"},
			Features:     map[string]any{},
			IsSuspicious: false,
			Confidence:   models.ConfidenceLow,
		}
	}

	html := strings.ToLower(htmlContent)
	score := 0.0
	reasons := []string{}
	brandDetected := ""

	hasPassword := passwordFieldRe.MatchString(html)
	hasOTP := otpFieldRe.MatchString(html)
	hasCC := cardFieldRe.MatchString(html)
	hasSensitiveID := sensitiveIDRe.MatchString(html)
	hasPIN := pinFieldRe.MatchString(html)

	credTokens := 0
	for _, t := range credFormTokens {
		if strings.Contains(html, t) {
			credTokens++
		}
	}
	hasCredForm := credTokens >= 2

	formExternal := false
	if pageURL != "" {
		host := strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(pageURL, "https://"), "http://"), "/", 2)[0]
		for _, m := range formActionRe.FindAllStringSubmatch(html, -1) {
			action := m[1]
			if strings.HasPrefix(action, "http") && host != "" && !strings.Contains(action, host) {
				formExternal = true
				break
			}
		}
	}

	hiddenCount := len(hiddenFieldRe.FindAllString(html, -1))

	if hasPassword {
		score += 0.20
		reasons = append(reasons, "Password input field detected")
	}
	if hasOTP {
		score += 0.30
		reasons = append(reasons, "OTP / one-time code input field detected")
	}
	if hasCC {
		score += 0.45
		reasons = append(reasons, "Credit / debit card input field detected")
	}
	if hasSensitiveID {
		score += 0.40
		reasons = append(reasons, "Sensitive ID field (PAN/Aadhaar/SSN) detected")
	}
	if hasPIN {
		score += 0.30
		reasons = append(reasons, "PIN input field detected")
	}
	if hasCredForm {
		score += 0.20
		reasons = append(reasons, "Credential collection form detected")
	}
	if formExternal {
		score += 0.55
		reasons = append(reasons, "Form submits credentials to external domain")
	}
	if hiddenCount > 3 {
		score += 0.20
		reasons = append(reasons, fmt.Sprintf("Multiple hidden fields (%d), possible data collection", hiddenCount))
	}

	if !hasCC && !hasPIN {
		for _, p := range dangerousInputPatterns {
			if p.MatchString(html) {
				score += 0.15
				reasons = append(reasons, "Sensitive input pattern detected")
				break
			}
		}
	}

	urlLower := strings.ToLower(pageURL)
	titleLower := strings.ToLower(pageTitle)
	for _, brand := range spoofedBrands {
		elementHits := 0
		for _, el := range brand.Elements {
			if strings.Contains(html, el) {
				elementHits++
			}
		}
		logoHits := 0
		for _, lg := range brand.Logos {
			if strings.Contains(html, lg) {
				logoHits++
			}
		}
		titleHit := 0
		if strings.Contains(titleLower, brand.Name) {
			titleHit = 1
		}

		if elementHits+logoHits+titleHit >= 2 && pageURL != "" && !strings.Contains(urlLower, brand.Name) {
			penalty := 0.4 + float64(elementHits)*0.1
			if penalty > 0.75 {
				penalty = 0.75
			}
			score += penalty
			reasons = append(reasons, fmt.Sprintf(
				"Brand impersonation detected: '%s' (elements: %d, logos: %d)",
				titleCase(brand.Name), elementHits, logoHits))
			brandDetected = brand.Name
			break
		}
	}

	loginKeywords := 0
	for _, kw := range loginUIKeywords {
		if strings.Contains(html, kw) {
			loginKeywords++
		}
	}
	if loginKeywords >= 2 && hasPassword && !containsAny(pageURL, legitLoginHosts) {
		score += 0.25
		reasons = append(reasons, "Fake login page fingerprint (login UI on non-legitimate domain)")
	}

	isMinimal := !strings.Contains(html, "<nav") && !strings.Contains(html, "<footer") && len(html) < 5000
	if isMinimal && hasPassword {
		score += 0.25
		reasons = append(reasons, "Minimal page (no nav/footer) with login form")
	}
	if strings.Contains(html, "<iframe") {
		score += 0.15
		reasons = append(reasons, "Iframe embedded, potential content injection")
	}

	var scriptParts []string
	for _, m := range scriptBodyRe.FindAllStringSubmatch(html, -1) {
		scriptParts = append(scriptParts, m[1])
	}
	scripts := strings.Join(scriptParts, " ")
	if obfuscationRe.MatchString(scripts) {
		score += 0.25
		reasons = append(reasons, "Obfuscated JavaScript (eval/atob/fromCharCode)")
	}
	if keyloggerRe.MatchString(scripts) {
		score += 0.60
		reasons = append(reasons, "Keylogger pattern detected in JavaScript")
	}
	if clipboardRe.MatchString(scripts) {
		score += 0.40
		reasons = append(reasons, "Clipboard access detected, possible wallet drainer")
	}
	if strings.Contains(html, "oncontextmenu") && strings.Contains(html, "return false") {
		score += 0.15
		reasons = append(reasons, "Right-click disabled on page")
	}

	if antiInspectRe.MatchString(html) {
		score += 0.20
		reasons = append(reasons, "Anti-inspection measures detected")
	}

	finalScore := models.Round4(models.Clamp01(score))

	var confidence models.Confidence
	switch {
	case finalScore > 0.75:
		confidence = models.ConfidenceHigh
	case finalScore > 0.4:
		confidence = models.ConfidenceMedium
	default:
		confidence = models.ConfidenceLow
	}

	return models.AnalysisResult{
		Engine:  models.EngineVisual,
		Score:   finalScore,
		Reasons: reasons,
		Features: map[string]any{
			"has_password":       hasPassword,
			"has_otp":            hasOTP,
			"has_credit_card":    hasCC,
			"has_sensitive_id":   hasSensitiveID,
			"form_external":      formExternal,
			"hidden_count":       hiddenCount,
			"brand_impersonated": brandDetected,
		},
		IsSuspicious: finalScore > 0.5,
		Confidence:   confidence,
	}
}
