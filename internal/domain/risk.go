package domain

// Sentiment is the coarse tone of an article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// RiskLevel buckets a risk score into a review tier.
type RiskLevel string

const (
	RiskRed   RiskLevel = "red"
	RiskAmber RiskLevel = "amber"
	RiskGreen RiskLevel = "green"
)

const (
	RedThreshold   = 70
	AmberThreshold = 40
	MaxRiskScore   = 100
)

// LevelForScore maps a 0-100 score onto its tier. Every component that stores,
// filters or overrides risk goes through this function.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= RedThreshold:
		return RiskRed
	case score >= AmberThreshold:
		return RiskAmber
	default:
		return RiskGreen
	}
}

// ClampScore bounds a raw score to [0, MaxRiskScore].
func ClampScore(score int) int {
	return min(MaxRiskScore, max(0, score))
}

// ParseRiskLevel reports whether s names a known tier.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskRed, RiskAmber, RiskGreen:
		return RiskLevel(s), true
	}
	return "", false
}

// ParseSentiment reports whether s names a known sentiment.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s), true
	}
	return "", false
}

// RiskCounts tallies articles per tier.
type RiskCounts struct {
	Red   int `json:"red"`
	Amber int `json:"amber"`
	Green int `json:"green"`
}

// Add increments the counter for level.
func (c *RiskCounts) Add(level RiskLevel) {
	switch level {
	case RiskRed:
		c.Red++
	case RiskAmber:
		c.Amber++
	default:
		c.Green++
	}
}

// Total returns the sum of all tiers.
func (c RiskCounts) Total() int {
	return c.Red + c.Amber + c.Green
}
