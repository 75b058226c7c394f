package models

import "time"

// ScanType identifies which kind of artifact was scanned.
type ScanType string

const (
	ScanTypeURL     ScanType = "url"
	ScanTypeEmail   ScanType = "email"
	ScanTypeSMS     ScanType = "sms"
	ScanTypeWebsite ScanType = "website"
)

// ContentType selects the channel the text engine analyzes.
type ContentType string

const (
	ContentTypeEmail ContentType = "email"
	ContentTypeSMS   ContentType = "sms"
	ContentTypeVoice ContentType = "voice"
)

// URLScanRequest asks for a URL scan
type URLScanRequest struct {
	URL string `json:"url"`
}

// URLBatchScanRequest asks for multiple URL scans
type URLBatchScanRequest struct {
	URLs []string `json:"urls"`
}

// EmailScanRequest asks for an email scan
type EmailScanRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

// SMSScanRequest asks for an SMS scan
type SMSScanRequest struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// SMSBatchScanRequest asks for multiple SMS scans
type SMSBatchScanRequest struct {
	Messages []SMSScanRequest `json:"messages"`
}

// WebsiteScanRequest asks for a website scan (URL plus fetched page content)
type WebsiteScanRequest struct {
	URL   string `json:"url"`
	HTML  string `json:"html"`
	Title string `json:"title"`
}

// ScanResponse is the full result of one scan: the fused assessment plus the
// per-engine results that produced it.
type ScanResponse struct {
	ScanID     string           `json:"scan_id"`
	Type       ScanType         `json:"type"`
	Target     string           `json:"target"`
	Assessment RiskAssessment   `json:"assessment"`
	Engines    []AnalysisResult `json:"engines"`
	ScannedAt  time.Time        `json:"scanned_at"`
}

// BatchScanResponse wraps the results of a batch scan
type BatchScanResponse struct {
	Results []ScanResponse `json:"results"`
	Count   int            `json:"count"`
}

// ThreatLogEntry is one recorded scan in the threat log.
type ThreatLogEntry struct {
	ID         string    `json:"id"`
	Type       ScanType  `json:"type"`
	Target     string    `json:"target"`
	RiskScore  float64   `json:"risk_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
	IsPhishing bool      `json:"is_phishing"`
	Timestamp  time.Time `json:"timestamp"`
}

// ThreatStats summarizes the threat log.
type ThreatStats struct {
	TotalScans       int              `json:"total_scans"`
	PhishingDetected int              `json:"phishing_detected"`
	SafeCount        int              `json:"safe_count"`
	DetectionRate    float64          `json:"detection_rate"`
	ByType           map[ScanType]int `json:"by_type"`
}
