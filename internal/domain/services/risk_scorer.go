package services

import (
	"fmt"
	"math"
	"strings"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// riskBands map fused scores onto display levels via half-open intervals;
// the upper bound of the last band is inclusive.
var riskBands = []struct {
	low, high float64
	level     models.RiskLevel
	color     string
	icon      string
}{
	{0.0, 0.2, models.RiskLevelSafe, "#22c55e", "✅"},
	{0.2, 0.4, models.RiskLevelLow, "#84cc16", "🟢"},
	{0.4, 0.6, models.RiskLevelMedium, "#eab308", "🟡"},
	{0.6, 0.8, models.RiskLevelHigh, "#f97316", "🟠"},
	{0.8, 1.01, models.RiskLevelCritical, "#ef4444", "🔴"},
}

// engineWeights are the fixed fusion weights; engines not listed here
// default to defaultEngineWeight.
var engineWeights = map[string]float64{
	models.EngineURLAnalyzer:   0.30,
	models.EngineNLP:           0.25,
	models.EngineDomainChecker: 0.25,
	models.EngineVisual:        0.20,
}

const defaultEngineWeight = 0.15

// RiskScorer fuses per-engine results into a single explainable assessment.
type RiskScorer struct {
	logger *logger.Logger
}

func NewRiskScorer(log *logger.Logger) *RiskScorer {
	return &RiskScorer{logger: log.WithComponent("risk_scorer")}
}

// CalculateRisk combines engine results with renormalized per-engine weights.
// An empty input produces a zero-score SAFE assessment, never an error.
func (s *RiskScorer) CalculateRisk(results []models.AnalysisResult) models.RiskAssessment {
	weightedScore := 0.0
	totalWeight := 0.0
	var allReasons []string
	engineScores := make(map[string]models.EngineScore, len(results))

	for _, r := range results {
		weight, ok := engineWeights[r.Engine]
		if !ok {
			weight = defaultEngineWeight
		}
		weightedScore += r.Score * weight
		totalWeight += weight
		allReasons = append(allReasons, r.Reasons...)
		engineScores[r.Engine] = models.EngineScore{Score: r.Score, Weight: weight}
	}

	finalScore := weightedScore / math.Max(totalWeight, 0.01)

	highScores := 0
	for _, r := range results {
		if r.Score > 0.6 {
			highScores++
		}
	}
	if highScores >= 3 {
		finalScore = math.Min(finalScore*1.2, 1.0)
		allReasons = append(allReasons, "Multiple engines agree on high risk")
	}

	finalScore = models.Round4(models.Clamp01(finalScore))

	band := bandFor(finalScore)
	uniqueReasons := dedupeStrings(allReasons)
	capped := firstN(uniqueReasons, 15)

	return models.RiskAssessment{
		RiskScore:      finalScore,
		RiskLevel:      band.level,
		RiskColor:      band.color,
		RiskIcon:       band.icon,
		IsPhishing:     finalScore > 0.6,
		EngineScores:   engineScores,
		Reasons:        capped,
		Explanation:    buildExplanation(finalScore, band.level, results, engineScores, uniqueReasons),
		Recommendation: recommendationFor(finalScore),
	}
}

func bandFor(score float64) struct {
	low, high float64
	level     models.RiskLevel
	color     string
	icon      string
} {
	for _, b := range riskBands {
		if score >= b.low && score < b.high {
			return b
		}
	}
	return riskBands[len(riskBands)-1]
}

// buildExplanation renders the verdict, leading reasons and a per-engine
// breakdown in input order.
func buildExplanation(score float64, level models.RiskLevel, results []models.AnalysisResult, engines map[string]models.EngineScore, reasons []string) string {
	parts := []string{fmt.Sprintf("Risk Assessment: %s (%.0f%% confidence).\n", level, score*100)}
	if score > 0.6 {
		parts = append(parts, "This content exhibits strong phishing indicators:\n")
	}
	for i, reason := range firstN(reasons, 5) {
		parts = append(parts, fmt.Sprintf("  %d. %s", i+1, reason))
	}
	parts = append(parts, "\nEngine breakdown:")
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.Engine] {
			continue
		}
		seen[r.Engine] = true
		parts = append(parts, fmt.Sprintf("  - %s: %.0f%%", r.Engine, engines[r.Engine].Score*100))
	}
	return strings.Join(parts, "\n")
}

func recommendationFor(score float64) string {
	switch {
	case score > 0.8:
		return "CRITICAL: Do NOT interact. Report as phishing immediately."
	case score > 0.6:
		return "HIGH RISK: Avoid clicking links or providing information. Verify sender through official channels."
	case score > 0.4:
		return "CAUTION: Some suspicious indicators found. Verify the source before proceeding."
	case score > 0.2:
		return "LOW RISK: Minor indicators detected. Exercise normal caution."
	default:
		return "SAFE: No significant phishing indicators detected."
	}
}

// dedupeStrings drops exact duplicates, keeping first occurrence order.
func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
