package domain

import "time"

// Candidate is a raw article yielded by an upstream source before classification.
type Candidate struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Classification is the deterministic engine output for a single article.
type Classification struct {
	IsRelevant      bool      `json:"is_relevant"`
	Category        string    `json:"category,omitempty"`
	Confidence      float64   `json:"confidence"`
	MatchedKeywords []string  `json:"matched_keywords"`
	Sentiment       Sentiment `json:"sentiment"`
	NeedsResponse   bool      `json:"needs_response"`
	RiskLevel       RiskLevel `json:"risk_level"`
	RiskScore       int       `json:"risk_score"`
}

// ClassifiedArticle pairs a candidate with its classification, ready for persistence.
type ClassifiedArticle struct {
	Candidate
	Classification
}

// ActionItem is a single follow-up task attached to a reviewed article.
type ActionItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Enrichment holds the optional AI analysis that may override engine risk fields.
type Enrichment struct {
	Summary      string
	RiskAnalysis string
	RiskLevel    RiskLevel
	RiskScore    int
	ActionItems  []ActionItem
	SimilarCases []string
}

// Article is a stored, classified record moving through the review workflow.
type Article struct {
	ID int64
	Candidate
	Classification

	Status       Status
	AssigneeID   *int64
	AISummary    string
	RiskAnalysis string
	ActionItems  []ActionItem
	SimilarCases []string
	ResolvedAt   *time.Time
	ResolvedByID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplyEnrichment overwrites the AI-owned fields of the record.
func (a *Article) ApplyEnrichment(e Enrichment) {
	a.AISummary = e.Summary
	a.RiskAnalysis = e.RiskAnalysis
	a.RiskLevel = e.RiskLevel
	a.RiskScore = e.RiskScore
	a.ActionItems = e.ActionItems
	a.SimilarCases = e.SimilarCases
}
