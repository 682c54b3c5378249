package httpapi

import (
	"time"

	"RiskMonitor/internal/domain"
)

// ArticleResponse is the JSON shape of a stored article.
type ArticleResponse struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	URL             string              `json:"url"`
	Source          string              `json:"source"`
	PublishedDate   *string             `json:"published_date"`
	IsRelevant      bool                `json:"is_relevant"`
	Category        *string             `json:"category"`
	Keywords        []string            `json:"keywords"`
	ConfidenceScore float64             `json:"confidence_score"`
	Sentiment       domain.Sentiment    `json:"sentiment"`
	NeedsResponse   bool                `json:"needs_response"`
	RiskLevel       domain.RiskLevel    `json:"risk_level"`
	RiskScore       int                 `json:"risk_score"`
	Status          domain.Status       `json:"status"`
	AssigneeID      *int64              `json:"assignee_id"`
	AISummary       *string             `json:"ai_summary"`
	AIRiskAnalysis  *string             `json:"ai_risk_analysis"`
	ActionItems     []domain.ActionItem `json:"action_items"`
	SimilarCases    []string            `json:"similar_cases"`
	ResolvedAt      *string             `json:"resolved_at"`
	ResolvedByID    *int64              `json:"resolved_by_id"`
	CreatedAt       *string             `json:"created_at"`
	UpdatedAt       *string             `json:"updated_at"`
}

// ListResponse is one page of articles.
type ListResponse struct {
	Articles   []ArticleResponse `json:"articles"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// ArticleUpdateResponse acknowledges a mutation and echoes the article.
type ArticleUpdateResponse struct {
	Message string          `json:"message"`
	Article ArticleResponse `json:"article"`
}

// StatusRequest moves an article through the workflow. ActorID is recorded as
// the resolver when resolving.
type StatusRequest struct {
	Status  string `json:"status" binding:"required"`
	ActorID *int64 `json:"actor_id"`
}

// AssigneeRequest sets or clears (null) the reviewer.
type AssigneeRequest struct {
	AssigneeID *int64 `json:"assignee_id"`
}

// ClassifyRequest runs the engine over ad-hoc text.
type ClassifyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func toArticleResponse(a domain.Article) ArticleResponse {
	keywords := a.MatchedKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		URL:             a.URL,
		Source:          a.Source,
		PublishedDate:   isoTime(a.PublishedAt),
		IsRelevant:      a.IsRelevant,
		Category:        optional(a.Category),
		Keywords:        keywords,
		ConfidenceScore: a.Confidence,
		Sentiment:       a.Sentiment,
		NeedsResponse:   a.NeedsResponse,
		RiskLevel:       a.RiskLevel,
		RiskScore:       a.RiskScore,
		Status:          a.Status,
		AssigneeID:      a.AssigneeID,
		AISummary:       optional(a.AISummary),
		AIRiskAnalysis:  optional(a.RiskAnalysis),
		ActionItems:     a.ActionItems,
		SimilarCases:    a.SimilarCases,
		ResolvedAt:      isoTimePtr(a.ResolvedAt),
		ResolvedByID:    a.ResolvedByID,
		CreatedAt:       isoTime(a.CreatedAt),
		UpdatedAt:       isoTime(a.UpdatedAt),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func isoTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return isoTime(*t)
}
