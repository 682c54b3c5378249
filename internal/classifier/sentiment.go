package classifier

import (
	"strings"

	"RiskMonitor/internal/domain"
)

const (
	sentimentTitleWeight = 2
	sentimentBodyWeight  = 1
)

// Sentiment scores the article tone from the negative and positive tables.
func (t Tables) Sentiment(title, description string) domain.Sentiment {
	scan := scanText(title, description)
	lowerTitle := strings.ToLower(title)

	negative := weigh(lowerTitle, scan, t.NegativeTerms, sentimentTitleWeight, sentimentBodyWeight)
	positive := weigh(lowerTitle, scan, t.PositiveTerms, sentimentTitleWeight, sentimentBodyWeight)

	switch {
	case negative > positive && negative >= 1:
		return domain.SentimentNegative
	case positive > negative && positive >= 1:
		return domain.SentimentPositive
	default:
		return domain.SentimentNeutral
	}
}
