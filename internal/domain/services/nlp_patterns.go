package services

import "regexp"

// Compiled pattern tables for the text engine. Grouped by category; each
// category contributes matches*0.25 (capped at 1.0) to its score.

var urgencyPatterns = compilePatterns(
	`\burgent\b`, `\bimmediately\b`, `\basap\b`, `\bright\s+now\b`,
	`\bact\s+now\b`, `\bdon'?t\s+delay\b`, `\bexpir(e|es|ed|ing)\b`,
	`\blast\s+chance\b`, `\blimited\s+time\b`, `\btime\s+sensitive\b`,
	`\bhurry\b`, `\bfinal\s+(warning|notice)\b`, `\bwithin\s+\d+\s+(hour|day|minute)s?\b`,
	`\bsuspend(ed)?\b`, `\bterminat(e|ed|ion)\b`, `\brestrict(ed)?\b`,
	`\bdeadline\b`, `\bcritical\b`, `\baction\s+required\b`, `\bdo\s+not\s+ignore\b`,
)

var credentialPatterns = compilePatterns(
	`\b(verify|confirm|update|validate)\s+(your\s+)?(account|identity|information|details)\b`,
	`\b(enter|provide|submit|type)\s+(your\s+)?(password|credentials|login|ssn|credit\s+card)\b`,
	`\b(sign|log)\s*(in|on)\s+(to\s+)?(verify|confirm|update)\b`,
	`\bclick\s+(here|below|the\s+link)\b`,
	`\b(reset|change|update)\s+password\b`,
	`\bunusual\s+(activity|sign[- ]?in|login)\b`,
	`\bsecurity\s+(alert|warning|notice|update)\b`,
	`\bverification\s+(required|needed|code)\b`,
	`\bconfirm\s+(your\s+)?identity\b`,
	`\benter\s+(your\s+)?(otp|one[- ]time\s+password|pin)\b`,
)

var socialEngineeringPatterns = compilePatterns(
	`\b(dear\s+)?(valued\s+)?(customer|user|member|client)\b`,
	`\b(we\s+)?(have\s+)?(detected|noticed|found)\s+(suspicious|unusual|unauthorized)\b`,
	`\bif\s+you\s+(did\s+)?not\s+(authorize|recognize|initiate)\b`,
	`\byour\s+account\s+(has\s+been|will\s+be|is)\s+(locked|suspended|restricted|disabled)\b`,
	`\bwin(ner)?\b.*\b(prize|gift|reward|lottery)\b`,
	`\bcongratulations\b`,
	`\bfree\s+(gift|offer|trial)\b`,
	`\binheritance\b`,
	`\b(prince|princess|royalty|diplomat)\b`,
	`\bmillion\s+dollars?\b`,
)

var impersonationPatterns = compilePatterns(
	`\b(support|help|service)\s*@`,
	`\b(team|department|division)\s+at\s`,
	`\b(official|authorized|certified)\s+(notice|communication|message)\b`,
	`\bdo\s+not\s+reply\b`,
	`\bautomated\s+message\b`,
	`\bthis\s+is\s+(a\s+)?(reminder|notification|alert)\b`,
)

var financialScamPatterns = compilePatterns(
	`\binvoice\s+(#?\d+|attached|due|overdue|unpaid)\b`,
	`\bpayment\s+(failed|declined|pending|overdue|required)\b`,
	`\bbilling\s+(issue|problem|error|update)\b`,
	`\b(outstanding|unpaid)\s+balance\b`,
	`\byour\s+(subscription|plan)\s+(has\s+)?(expired|renewal|charge)\b`,
	`\bcharge\s+of\s+\$[\d,.]+\b`,
	`\btransaction\s+(failed|declined|blocked|flagged)\b`,
	`\brefund\s+(pending|approved|processed|request)\b`,
	`\bbank\s+(transfer|wire|deposit)\b`,
	`\b(gift\s+card|google\s+play|itunes|amazon)\s+(code|card|payment)\b`,
	`\bcrypto|bitcoin|ethereum|usdt\s+(transfer|payment|wallet)\b`,
)

// India-focused plus global parcel/delivery keywords, SMS channel only.
var regionalSMSPatterns = compilePatterns(
	`\bkyc\s*(expired?|update|pending|verification)\b`,
	`\baadhaar\s*(link|update|verify|blocked)\b`,
	`\bpan\s*(card)?\s*(update|verify|link|blocked)\b`,
	`\btrai\s*(block|sim|disconnect)\b`,
	`\bsim\s+(blocked|suspended|deactivat)\b`,
	`\b(upi|paytm|phonepe|gpay|bhim)\s*(fraud|blocked|verify)\b`,
	`\bincome\s+tax\s+(notice|refund|demand)\b`,
	`\bparcel\s+(held|on\s+hold|detention|pending\s+customs)\b`,
	`\bcustoms\s+(fee|duty|clearance|charge)\b`,
	`\bredelivery\s+(fee|charge|attempt)\b`,
	`\b(loan|emi)\s+(approved|offer|overdue|pending)\b`,
	`\binsurance\s+(claim|expire|renewal)\b`,
	`\b(cashback|reward|bonus)\s+(credited|expire|claim)\b`,
)

var techSupportPatterns = compilePatterns(
	`\bremote\s+(access|control|session|desktop)\b`,
	`\b(install|download|open)\s+(anydesk|teamviewer|ultraviewer|remote\s*pc)\b`,
	`\bshare\s+(your\s+)?(screen|access\s+code|session\s+code|control)\b`,
	`\btech(nical)?\s+support\b`,
	`\bwindows\s+(license|has\s+expired|activation)\b`,
	`\b(your\s+)?computer\s+(is\s+)?(hacked|infected|virus|compromised)\b`,
	`\bcall\s+(this\s+)?(number|toll[- ]?free)\b`,
	`\b(microsoft|apple|google)\s+(support|technician|engineer)\b`,
	`\ballow\s+(me|us)\s+to\s+(access|connect|fix)\b`,
	`\bdo\s+not\s+(close|shut|turn\s+off)\b`,
)

// Markers of legitimate bulk mail; each match subtracts 0.05, capped at 0.15.
var legitimateIndicators = compilePatterns(
	`\bunsubscribe\b`,
	`\bprivacy\s+policy\b`,
	`\bterms\s+(of|and)\s+(service|use)\b`,
	`\bmanage\s+(your\s+)?preferences\b`,
	`\bview\s+in\s+browser\b`,
	`\bopt[- ]?out\b`,
)

// impersonatedBrands are checked in order; the first brand found wins.
var impersonatedBrands = []string{
	"paypal", "amazon", "apple", "google", "microsoft", "netflix", "facebook",
	"instagram", "twitter", "linkedin", "chase", "wellsfargo", "bankofamerica",
	"citibank", "usbank", "dhl", "fedex", "usps", "ups", "irs", "sbi", "hdfc",
	"icici", "axis", "airtel", "jio", "vodafone", "trai",
}

var knownESPs = []string{
	"mailchimp", "sendgrid", "constantcontact", "hubspot",
	"salesforce", "marketo", "klaviyo", "mailgun",
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile("(?i)"+expr))
	}
	return compiled
}
