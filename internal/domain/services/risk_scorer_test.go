package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

func newTestRiskScorer(t *testing.T) *RiskScorer {
	t.Helper()
	return NewRiskScorer(logger.NewDefault())
}

func TestRiskScorerEmptyInput(t *testing.T) {
	scorer := newTestRiskScorer(t)

	assessment := scorer.CalculateRisk(nil)

	assert.Equal(t, 0.0, assessment.RiskScore)
	assert.Equal(t, models.RiskLevelSafe, assessment.RiskLevel)
	assert.False(t, assessment.IsPhishing)
	assert.Empty(t, assessment.Reasons)
}

func TestRiskScorerWeightedFusion(t *testing.T) {
	scorer := newTestRiskScorer(t)

	results := []models.AnalysisResult{
		{Engine: models.EngineURLAnalyzer, Score: 0.5, Reasons: []string{"url reason"}},
		{Engine: models.EngineDomainChecker, Score: 0.1, Reasons: []string{"domain reason"}},
	}
	assessment := scorer.CalculateRisk(results)

	// (0.5*0.30 + 0.1*0.25) / 0.55
	assert.InDelta(t, 0.3181, assessment.RiskScore, 0.0001)
	assert.Equal(t, models.RiskLevelLow, assessment.RiskLevel)
	assert.False(t, assessment.IsPhishing)
	require.Contains(t, assessment.EngineScores, models.EngineURLAnalyzer)
	assert.Equal(t, 0.30, assessment.EngineScores[models.EngineURLAnalyzer].Weight)
}

func TestRiskScorerConsensusBoost(t *testing.T) {
	scorer := newTestRiskScorer(t)

	results := []models.AnalysisResult{
		{Engine: models.EngineURLAnalyzer, Score: 0.9, Reasons: []string{"a"}},
		{Engine: models.EngineNLP, Score: 0.7, Reasons: []string{"b"}},
		{Engine: models.EngineDomainChecker, Score: 0.8, Reasons: []string{"c"}},
	}
	assessment := scorer.CalculateRisk(results)

	assert.Equal(t, models.RiskLevelCritical, assessment.RiskLevel)
	assert.True(t, assessment.IsPhishing)
	assert.Contains(t, assessment.Reasons, "Multiple engines agree on high risk")
	assert.Greater(t, assessment.RiskScore, 0.8)
}

func TestRiskScorerUnknownEngineDefaultWeight(t *testing.T) {
	scorer := newTestRiskScorer(t)

	results := []models.AnalysisResult{
		{Engine: "experimental_engine", Score: 1.0},
	}
	assessment := scorer.CalculateRisk(results)

	assert.Equal(t, defaultEngineWeight, assessment.EngineScores["experimental_engine"].Weight)
	assert.Equal(t, 1.0, assessment.RiskScore)
}

func TestRiskScorerReasonDeduplication(t *testing.T) {
	scorer := newTestRiskScorer(t)

	results := []models.AnalysisResult{
		{Engine: models.EngineURLAnalyzer, Score: 0.4, Reasons: []string{"shared reason", "url only"}},
		{Engine: models.EngineNLP, Score: 0.4, Reasons: []string{"shared reason", "nlp only"}},
	}
	assessment := scorer.CalculateRisk(results)

	count := 0
	for _, r := range assessment.Reasons {
		if r == "shared reason" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRiskScorerExplanationContainsBreakdown(t *testing.T) {
	scorer := newTestRiskScorer(t)

	results := []models.AnalysisResult{
		{Engine: models.EngineURLAnalyzer, Score: 0.9, Reasons: []string{"bad url"}},
		{Engine: models.EngineVisual, Score: 0.2},
	}
	assessment := scorer.CalculateRisk(results)

	assert.True(t, strings.Contains(assessment.Explanation, "Engine breakdown:"))
	assert.True(t, strings.Contains(assessment.Explanation, models.EngineURLAnalyzer))
	assert.True(t, strings.Contains(assessment.Explanation, models.EngineVisual))
}

func TestRiskScorerBandBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		level models.RiskLevel
	}{
		{0.0, models.RiskLevelSafe},
		{0.19, models.RiskLevelSafe},
		{0.2, models.RiskLevelLow},
		{0.4, models.RiskLevelMedium},
		{0.6, models.RiskLevelHigh},
		{0.8, models.RiskLevelCritical},
		{1.0, models.RiskLevelCritical},
	}
	for _, tc := range cases {
		band := bandFor(tc.score)
		assert.Equal(t, tc.level, band.level, "score %.2f", tc.score)
	}
}

func TestRecommendationThresholds(t *testing.T) {
	assert.Contains(t, recommendationFor(0.9), "CRITICAL")
	assert.Contains(t, recommendationFor(0.7), "HIGH RISK")
	assert.Contains(t, recommendationFor(0.5), "CAUTION")
	assert.Contains(t, recommendationFor(0.3), "LOW RISK")
	assert.Contains(t, recommendationFor(0.1), "SAFE")
}
