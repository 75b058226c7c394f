package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

var (
	textURLRe       = regexp.MustCompile(`https?://\S+`)
	textEmailRe     = regexp.MustCompile(`\S+@\S+\.\S+`)
	textPhoneRe     = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	textMoneyRe     = regexp.MustCompile(`\$[\d,]+(\.\d{2})?|\d+\s*(dollars?|USD|£|€|₹|INR)`)
	textHTMLRe      = regexp.MustCompile(`<[^>]+>`)
	anchorTagRe     = regexp.MustCompile(`(?i)<a[^>]+href\s*=\s*["']([^"']+)["'][^>]*>([^<]+)</a>`)
	urlHostRe       = regexp.MustCompile(`://([^/]+)`)
	displayNameRe   = regexp.MustCompile(`([^<]+)<`)
	emailPartRe     = regexp.MustCompile(`<(.+)>`)
	senderDigitsRe  = regexp.MustCompile(`\d{3,}@`)
	noReplyRe       = regexp.MustCompile(`(?i)(noreply|no-reply|donotreply)[^@]*@(\S*)`)
	senderDomainRe  = regexp.MustCompile(`@([^\s>]+)`)
	subjectUrgentRe = regexp.MustCompile(`(?i)\b(urgent|action\s+required|verify|suspended|locked|frozen|invoice|billing)\b`)
	subjectReRe     = regexp.MustCompile(`(?i)\bre:\s`)
	credentialCueRe = regexp.MustCompile(`(verify|confirm|sign.?in|login|password|account)`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	freeMailRe      = regexp.MustCompile(`@(gmail|yahoo|hotmail|outlook|aol)\.`)
)

// bigProviderDomains exempt no-reply senders from the unknown-domain penalty.
var bigProviderDomains = []string{"google", "apple", "microsoft", "amazon"}

type textFeatures struct {
	wordCount        int
	charCount        int
	exclamationCount int
	uppercaseRatio   float64
	urlCount         int
	moneyReferences  int
	hasHTML          bool
	linkTextMismatch bool
}

// NLPEngine analyzes message text for phishing language across email, SMS
// and voice transcript channels.
type NLPEngine struct {
	logger *logger.Logger
}

func NewNLPEngine(log *logger.Logger) *NLPEngine {
	return &NLPEngine{logger: log.WithComponent("nlp_engine")}
}

// Analyze scores message text. Subject and sender may be empty; channel
// selects which pattern categories apply.
func (e *NLPEngine) Analyze(text, subject, sender string, channel models.ContentType) models.AnalysisResult {
	fullText := strings.TrimSpace(subject + " " + text)

	if fullText == "" {
		return models.AnalysisResult{
			Engine:       models.EngineNLP,
			Score:        0.0,
			Reasons:      []string{"Empty text content"},
			Features:     map[string]any{"content_type": string(channel)},
			IsSuspicious: false,
			Confidence:   models.ConfidenceLow,
		}
	}

	features := extractTextFeatures(fullText)
	featureMap := textFeatureMap(fullText, sender, features, channel)

	urgencyScore, urgencyReasons := analyzePatterns(fullText, urgencyPatterns, "Urgency")
	credentialScore, credentialReasons := analyzePatterns(fullText, credentialPatterns, "Credential Request")
	socialScore, socialReasons := analyzePatterns(fullText, socialEngineeringPatterns, "Social Engineering")
	impersonationScore, impersonationReasons := analyzePatterns(fullText, impersonationPatterns, "Impersonation")
	financialScore, financialReasons := analyzePatterns(fullText, financialScamPatterns, "Financial Scam")

	senderScore, senderReasons := analyzeSender(sender, fullText)

	// Subject reasons feed the score only; the reason list carries the body
	// category matches.
	var subjectScore float64
	if subject != "" {
		subjectScore, _ = analyzeSubject(subject)
	}

	linguisticScore, linguisticReasons := analyzeLinguistic(features)

	var regionalScore, techScore float64
	var regionalReasons, techReasons []string
	if channel == models.ContentTypeSMS {
		regionalScore, regionalReasons = analyzePatterns(fullText, regionalSMSPatterns, "Regional SMS Scam")
	}
	if channel == models.ContentTypeSMS || channel == models.ContentTypeVoice {
		techScore, techReasons = analyzePatterns(fullText, techSupportPatterns, "Tech Support Scam")
	}

	brandScore, brandReasons := detectTextBrandImpersonation(fullText, sender)

	legitCount := 0
	for _, p := range legitimateIndicators {
		if p.MatchString(fullText) {
			legitCount++
		}
	}
	legitReduction := math.Min(float64(legitCount)*0.05, 0.15)

	var score float64
	if channel == models.ContentTypeSMS {
		score = urgencyScore*0.20 + credentialScore*0.20 + socialScore*0.10 +
			financialScore*0.15 + senderScore*0.10 + linguisticScore*0.05 +
			regionalScore*0.10 + techScore*0.05 + brandScore*0.05
	} else {
		score = urgencyScore*0.15 + credentialScore*0.20 + socialScore*0.10 +
			impersonationScore*0.08 + financialScore*0.15 + senderScore*0.12 +
			subjectScore*0.05 + linguisticScore*0.08 + brandScore*0.07
	}

	score = math.Max(score-legitReduction, 0.0)

	flagged := 0
	for _, s := range []float64{urgencyScore, credentialScore, socialScore, financialScore, senderScore, brandScore} {
		if s > 0.3 {
			flagged++
		}
	}
	var amplificationReasons []string
	if flagged >= 4 {
		score = math.Min(score*1.5, 1.0)
		amplificationReasons = append(amplificationReasons, "Multiple phishing categories simultaneously triggered")
	} else if flagged >= 3 {
		score = math.Min(score*1.4, 1.0)
		amplificationReasons = append(amplificationReasons, "Multiple phishing indicator categories detected")
	}

	if urgencyScore > 0.3 && textURLRe.MatchString(fullText) && financialScore > 0.3 {
		score = math.Min(score*1.3, 1.0)
		amplificationReasons = append(amplificationReasons, "Triple threat: urgency + embedded link + financial request detected")
	}

	finalScore := models.Round4(models.Clamp01(score))

	allReasons := []string{}
	allReasons = append(allReasons, urgencyReasons...)
	allReasons = append(allReasons, credentialReasons...)
	allReasons = append(allReasons, socialReasons...)
	allReasons = append(allReasons, impersonationReasons...)
	allReasons = append(allReasons, financialReasons...)
	allReasons = append(allReasons, senderReasons...)
	allReasons = append(allReasons, linguisticReasons...)
	allReasons = append(allReasons, brandReasons...)
	allReasons = append(allReasons, regionalReasons...)
	allReasons = append(allReasons, techReasons...)
	topReasons := firstN(allReasons, 10)
	topReasons = append(topReasons, amplificationReasons...)

	var confidence models.Confidence
	switch {
	case finalScore > 0.75 && flagged >= 3:
		confidence = models.ConfidenceHigh
	case finalScore > 0.4:
		confidence = models.ConfidenceMedium
	default:
		confidence = models.ConfidenceLow
	}

	featureMap["urgency_score"] = urgencyScore
	featureMap["credential_score"] = credentialScore
	featureMap["social_score"] = socialScore
	featureMap["impersonation_score"] = impersonationScore
	featureMap["financial_score"] = financialScore
	featureMap["sender_score"] = senderScore
	featureMap["subject_score"] = subjectScore
	featureMap["linguistic_score"] = linguisticScore
	featureMap["brand_score"] = brandScore
	featureMap["regional_score"] = regionalScore
	featureMap["tech_support_score"] = techScore

	return models.AnalysisResult{
		Engine:       models.EngineNLP,
		Score:        finalScore,
		Reasons:      topReasons,
		Features:     featureMap,
		IsSuspicious: finalScore > 0.5,
		Confidence:   confidence,
	}
}

func extractTextFeatures(text string) textFeatures {
	upper, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return textFeatures{
		wordCount:        len(strings.Fields(text)),
		charCount:        total,
		exclamationCount: strings.Count(text, "!"),
		uppercaseRatio:   float64(upper) / math.Max(float64(total), 1),
		urlCount:         len(textURLRe.FindAllString(text, -1)),
		moneyReferences:  len(textMoneyRe.FindAllString(text, -1)),
		hasHTML:          textHTMLRe.MatchString(text),
		linkTextMismatch: checkLinkTextMismatch(text),
	}
}

func textFeatureMap(text, sender string, f textFeatures, channel models.ContentType) map[string]any {
	words := strings.Fields(text)
	totalWordLen := 0
	for _, w := range words {
		totalWordLen += len(w)
	}
	sentences := 0
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	senderFree := boolToInt(freeMailRe.MatchString(sender))
	return map[string]any{
		"content_type":       string(channel),
		"word_count":         f.wordCount,
		"char_count":         f.charCount,
		"sentence_count":     sentences,
		"avg_word_length":    float64(totalWordLen) / math.Max(float64(len(words)), 1),
		"exclamation_count":  f.exclamationCount,
		"question_count":     strings.Count(text, "?"),
		"uppercase_ratio":    f.uppercaseRatio,
		"url_count":          f.urlCount,
		"email_count":        len(textEmailRe.FindAllString(text, -1)),
		"phone_count":        len(textPhoneRe.FindAllString(text, -1)),
		"money_references":   f.moneyReferences,
		"has_html":           boolToInt(f.hasHTML),
		"link_text_mismatch": f.linkTextMismatch,
		"sender_domain_free": senderFree,
	}
}

// analyzePatterns counts matching patterns in a category and records up to 3
// example matches as reasons.
func analyzePatterns(text string, patterns []*regexp.Regexp, category string) (float64, []string) {
	var matches []string
	for _, p := range patterns {
		if m := p.FindString(text); m != "" {
			matches = append(matches, strings.TrimSpace(m))
		}
	}
	if len(matches) == 0 {
		return 0.0, nil
	}
	score := math.Min(float64(len(matches))*0.25, 1.0)
	reasons := make([]string, 0, 3)
	for _, m := range firstN(matches, 3) {
		reasons = append(reasons, fmt.Sprintf("%s: '%s' detected", category, m))
	}
	return score, reasons
}

func analyzeSender(sender, fullText string) (float64, []string) {
	if sender == "" {
		return 0.0, nil
	}

	score := 0.0
	var reasons []string

	if strings.ContainsAny(sender, "<>") {
		if dn := displayNameRe.FindStringSubmatch(sender); dn != nil {
			name := strings.ToLower(strings.TrimSpace(dn[1]))
			for _, brand := range impersonatedBrands {
				if strings.Contains(name, brand) {
					if ep := emailPartRe.FindStringSubmatch(sender); ep != nil && !strings.Contains(strings.ToLower(ep[1]), brand) {
						score += 0.75
						reasons = append(reasons, fmt.Sprintf(
							"Sender display name contains '%s' but email domain doesn't match", brand))
						break
					}
				}
			}
		}
	}

	if senderDigitsRe.MatchString(sender) {
		score += 0.3
		reasons = append(reasons, "Sender has many digits before @, likely auto-generated address")
	}

	if m := noReplyRe.FindStringSubmatch(sender); m != nil {
		afterAt := strings.ToLower(m[2])
		known := false
		for _, p := range bigProviderDomains {
			if strings.HasPrefix(afterAt, p) {
				known = true
				break
			}
		}
		if !known {
			score += 0.2
			reasons = append(reasons, "No-reply address from unrecognized domain")
		}
	}

	if m := senderDomainRe.FindStringSubmatch(sender); m != nil {
		senderDomain := strings.ToLower(m[1])
		textLower := strings.ToLower(fullText)
		for _, brand := range impersonatedBrands {
			if !strings.Contains(textLower, brand) {
				continue
			}
			expected := []string{brand + ".com", brand + ".org", brand + ".gov"}
			if !containsAny(senderDomain, expected) && !containsAny(senderDomain, knownESPs) {
				score += 0.35
				reasons = append(reasons, fmt.Sprintf(
					"Sender-domain mismatch: message mentions '%s' but sent from '%s'", brand, senderDomain))
				break
			}
		}
	}

	return math.Min(score, 1.0), reasons
}

func analyzeSubject(subject string) (float64, []string) {
	score := 0.0
	var reasons []string

	if isAllUpper(subject) {
		score += 0.3
		reasons = append(reasons, "Subject line is ALL CAPS")
	}
	if strings.Count(subject, "!") > 1 {
		score += 0.2
		reasons = append(reasons, "Multiple exclamation marks in subject")
	}
	if subjectUrgentRe.MatchString(subject) {
		score += 0.4
		reasons = append(reasons, "Subject contains urgency/action keywords")
	}
	if subjectReRe.MatchString(subject) && len(subject) < 20 {
		score += 0.15
		reasons = append(reasons, "Short reply-format subject (fake thread)")
	}

	return math.Min(score, 1.0), reasons
}

func analyzeLinguistic(f textFeatures) (float64, []string) {
	score := 0.0
	var reasons []string

	if f.uppercaseRatio > 0.3 {
		score += 0.2
		reasons = append(reasons, "Excessive use of uppercase letters")
	}
	if f.exclamationCount > 3 {
		score += 0.15
		reasons = append(reasons, fmt.Sprintf("Excessive exclamation marks (%d)", f.exclamationCount))
	}
	if f.urlCount > 3 {
		score += 0.2
		reasons = append(reasons, fmt.Sprintf("Multiple embedded URLs (%d)", f.urlCount))
	}
	if f.moneyReferences > 0 {
		score += 0.15
		reasons = append(reasons, "Contains monetary references")
	}
	if f.linkTextMismatch {
		score += 0.4
		reasons = append(reasons, "Link display text doesn't match actual URL")
	}
	if f.hasHTML && f.urlCount > 0 {
		score += 0.1
		reasons = append(reasons, "HTML content with embedded links")
	}

	return math.Min(score, 1.0), reasons
}

// detectTextBrandImpersonation flags a brand mentioned in the body that the
// sender's domain does not back up. First matching brand wins.
func detectTextBrandImpersonation(text, sender string) (float64, []string) {
	score := 0.0
	var reasons []string
	textLower := strings.ToLower(text)
	senderLower := strings.ToLower(sender)

	for _, brand := range impersonatedBrands {
		if !strings.Contains(textLower, brand) {
			continue
		}
		if senderLower != "" && strings.Contains(senderLower, "@") {
			parts := strings.Split(senderLower, "@")
			senderDomain := parts[len(parts)-1]
			if !strings.Contains(senderDomain, brand) {
				score += 0.45
				reasons = append(reasons, fmt.Sprintf(
					"Brand impersonation: '%s' mentioned in body but not sender domain", titleCase(brand)))
				break
			}
		}
		if credentialCueRe.MatchString(textLower) {
			score += 0.35
			reasons = append(reasons, fmt.Sprintf(
				"'%s' impersonation + credential request", titleCase(brand)))
			break
		}
	}

	return math.Min(score, 1.0), reasons
}

// checkLinkTextMismatch reports anchor tags whose display text is itself a
// URL pointing at a different host than the href.
func checkLinkTextMismatch(text string) bool {
	for _, m := range anchorTagRe.FindAllStringSubmatch(text, -1) {
		href, display := m[1], m[2]
		if !strings.HasPrefix(display, "http://") && !strings.HasPrefix(display, "https://") {
			continue
		}
		hrefHost := urlHostRe.FindStringSubmatch(href)
		displayHost := urlHostRe.FindStringSubmatch(display)
		if hrefHost != nil && displayHost != nil && hrefHost[1] != displayHost[1] {
			return true
		}
	}
	return false
}

// isAllUpper mirrors the usual "all caps" check: at least one cased letter
// and no lowercase letters.
func isAllUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
