package models

import "math"

// Engine name constants. The aggregator keys its weights on these, so they
// must match what each engine reports.
const (
	EngineURLAnalyzer   = "url_analyzer"
	EngineNLP           = "nlp_engine"
	EngineDomainChecker = "domain_checker"
	EngineVisual        = "visual_engine"
)

// Confidence expresses how much signal diversity backs an engine's score.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// AnalysisResult is the output of a single detection engine. Score is always
// in [0,1], truncated to 4 decimal places.
type AnalysisResult struct {
	Engine       string         `json:"engine"`
	Score        float64        `json:"score"`
	Reasons      []string       `json:"reasons"`
	Features     map[string]any `json:"features"`
	IsSuspicious bool           `json:"is_suspicious"`
	Confidence   Confidence     `json:"confidence"`
}

// RiskLevel is one of five fixed score bands.
type RiskLevel string

const (
	RiskLevelSafe     RiskLevel = "SAFE"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// EngineScore records one engine's contribution to a fused assessment.
type EngineScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// RiskAssessment is the aggregator's fused, explainable verdict. It is
// created once per scan and never mutated afterwards.
type RiskAssessment struct {
	RiskScore      float64                `json:"risk_score"`
	RiskLevel      RiskLevel              `json:"risk_level"`
	RiskColor      string                 `json:"risk_color"`
	RiskIcon       string                 `json:"risk_icon"`
	IsPhishing     bool                   `json:"is_phishing"`
	EngineScores   map[string]EngineScore `json:"engine_scores"`
	Reasons        []string               `json:"reasons"`
	Explanation    string                 `json:"explanation"`
	Recommendation string                 `json:"recommendation"`
}

// Round4 truncates a score to 4 decimal places (toward zero, not banker's
// rounding) so outputs stay stable and comparable.
func Round4(v float64) float64 {
	return math.Trunc(v*10000) / 10000
}

// Clamp01 clamps a score into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
