package domain

import "time"

// ArticleFilter narrows the review list. Zero values mean "no constraint".
type ArticleFilter struct {
	Category        string
	Source          string
	Keyword         string
	From            time.Time
	To              time.Time
	Sentiment       Sentiment
	NeedsResponse   bool
	RiskLevel       RiskLevel
	Status          Status
	AssigneeID      *int64
	ExcludeResolved bool
	Page            int
	PerPage         int
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps paging to sane bounds.
func (f ArticleFilter) Normalize() ArticleFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PerPage < 1:
		f.PerPage = DefaultPerPage
	case f.PerPage > MaxPerPage:
		f.PerPage = MaxPerPage
	}
	return f
}

// ArticlePage is one page of the review list.
type ArticlePage struct {
	Articles   []Article
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}
