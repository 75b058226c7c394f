package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

func newTestNLPEngine(t *testing.T) *NLPEngine {
	t.Helper()
	return NewNLPEngine(logger.NewDefault())
}

func TestNLPEngineEmptyText(t *testing.T) {
	engine := newTestNLPEngine(t)

	result := engine.Analyze("", "", "", models.ContentTypeEmail)

	assert.Equal(t, models.EngineNLP, result.Engine)
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.IsSuspicious)
	require.Len(t, result.Reasons, 1)
	assert.Equal(t, "Empty text content", result.Reasons[0])
}

func TestNLPEnginePhishingEmail(t *testing.T) {
	engine := newTestNLPEngine(t)

	body := "Dear valued customer, your PayPal account has been suspended. " +
		"Verify your account immediately at http://paypal-secure.tk/login " +
		"or your payment of $500 will fail."
	result := engine.Analyze(body, "URGENT: Action Required", "PayPal Support <support@secure-alerts.xyz>", models.ContentTypeEmail)

	assert.True(t, result.IsSuspicious)
	assert.Greater(t, result.Score, 0.5)
	assert.NotEmpty(t, result.Reasons)
	assert.Greater(t, result.Features["urgency_score"].(float64), 0.0)
	assert.Greater(t, result.Features["credential_score"].(float64), 0.0)
	assert.Greater(t, result.Features["brand_score"].(float64), 0.0)
	assert.Equal(t, "email", result.Features["content_type"])
}

func TestNLPEngineBenignNewsletter(t *testing.T) {
	engine := newTestNLPEngine(t)

	body := "Here is our monthly update with product news. " +
		"You can unsubscribe at any time or view our privacy policy online. " +
		"Manage your preferences from your profile page."
	result := engine.Analyze(body, "Monthly newsletter", "news@mailchimp.com", models.ContentTypeEmail)

	assert.False(t, result.IsSuspicious)
	assert.Less(t, result.Score, 0.4)
}

func TestNLPEngineRegionalPatternsOnlySMS(t *testing.T) {
	engine := newTestNLPEngine(t)
	text := "Your KYC verification is pending, complete it to avoid SIM blocked status"

	sms := engine.Analyze(text, "", "", models.ContentTypeSMS)
	email := engine.Analyze(text, "", "", models.ContentTypeEmail)

	assert.Greater(t, sms.Features["regional_score"].(float64), 0.0)
	assert.Equal(t, 0.0, email.Features["regional_score"].(float64))
}

func TestNLPEngineTechSupportVoice(t *testing.T) {
	engine := newTestNLPEngine(t)
	text := "This is Microsoft support, your computer is infected. Please install anydesk and share your screen."

	voice := engine.Analyze(text, "", "", models.ContentTypeVoice)

	assert.Greater(t, voice.Features["tech_support_score"].(float64), 0.0)
}

func TestNLPEngineSenderSpoofedDisplayName(t *testing.T) {
	engine := newTestNLPEngine(t)

	result := engine.Analyze(
		"Please verify your account details today.",
		"",
		"Amazon Billing <billing@random-mailer.info>",
		models.ContentTypeEmail,
	)

	assert.Greater(t, result.Features["sender_score"].(float64), 0.0)
}

func TestNLPEngineLinkTextMismatch(t *testing.T) {
	assert.True(t, checkLinkTextMismatch(
		`<a href="http://evil.tk/x">https://www.paypal.com/signin</a>`))
	assert.False(t, checkLinkTextMismatch(
		`<a href="https://example.com/a">https://example.com/b</a>`))
	assert.False(t, checkLinkTextMismatch(
		`<a href="http://evil.tk/x">click here</a>`))
}

func TestNLPEngineDeterministic(t *testing.T) {
	engine := newTestNLPEngine(t)
	body := "URGENT: verify your account now at http://chase-login.xyz, unusual activity detected, invoice overdue!"

	first := engine.Analyze(body, "Final warning", "alerts@chase-login.xyz", models.ContentTypeEmail)
	for i := 0; i < 5; i++ {
		again := engine.Analyze(body, "Final warning", "alerts@chase-login.xyz", models.ContentTypeEmail)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Reasons, again.Reasons)
	}
}

func TestNLPEngineSubjectScoresWithoutReasons(t *testing.T) {
	engine := newTestNLPEngine(t)

	result := engine.Analyze(
		"Please see the attached agenda for tomorrow.",
		"URGENT!! ACT NOW",
		"colleague@example.com",
		models.ContentTypeEmail,
	)

	assert.Greater(t, result.Features["subject_score"], 0.0)
	assert.NotContains(t, result.Reasons, "Subject line is ALL CAPS")
	assert.NotContains(t, result.Reasons, "Multiple exclamation marks in subject")
	assert.NotContains(t, result.Reasons, "Subject contains urgency/action keywords")
}

func TestIsAllUpper(t *testing.T) {
	assert.True(t, isAllUpper("ACT NOW!"))
	assert.False(t, isAllUpper("Act now"))
	assert.False(t, isAllUpper("1234!"))
}
