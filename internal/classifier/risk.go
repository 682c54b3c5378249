package classifier

import (
	"strings"

	"RiskMonitor/internal/domain"
)

const (
	highRiskTitle   = 25
	highRiskBody    = 10
	mediumRiskTitle = 15
	mediumRiskBody  = 5

	negativeAdjustment = 15
	positiveAdjustment = 10
	responseAdjustment = 10
)

// Risk scores the article, computing sentiment itself.
func (t Tables) Risk(title, description string) (domain.RiskLevel, int) {
	return t.RiskWithSentiment(title, description, t.Sentiment(title, description))
}

// RiskWithSentiment scores the article using a precomputed sentiment.
//
// The positive adjustment floors the running total at zero before the response
// bonus is added, so a positive article needing a response still scores 10.
func (t Tables) RiskWithSentiment(title, description string, sentiment domain.Sentiment) (domain.RiskLevel, int) {
	scan := scanText(title, description)
	lowerTitle := strings.ToLower(title)

	score := weigh(lowerTitle, scan, t.HighRiskTerms, highRiskTitle, highRiskBody)
	score += weigh(lowerTitle, scan, t.MediumRiskTerms, mediumRiskTitle, mediumRiskBody)

	switch sentiment {
	case domain.SentimentNegative:
		score += negativeAdjustment
	case domain.SentimentPositive:
		score = max(0, score-positiveAdjustment)
	}

	if t.NeedsResponse(title, description) {
		score += responseAdjustment
	}

	score = domain.ClampScore(score)
	return domain.LevelForScore(score), score
}
