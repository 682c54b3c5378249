package ports

import (
	"context"
	"time"

	"RiskMonitor/internal/domain"
)

// ArticleSource pulls fresh candidate articles from upstream providers.
type ArticleSource interface {
	FetchDaily(ctx context.Context, day time.Time) ([]domain.Candidate, error)
}

// ArticleClassifier turns candidates into relevant, classified articles.
type ArticleClassifier interface {
	ClassifyParallel(ctx context.Context, articles []domain.Candidate, workers int) ([]domain.ClassifiedArticle, error)
}

// ArticleRepository persists classified articles keyed by unique URL.
type ArticleRepository interface {
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	Save(ctx context.Context, article domain.ClassifiedArticle) (int64, bool, error)
	Get(ctx context.Context, id int64) (domain.Article, error)
	SaveEnrichment(ctx context.Context, id int64, enrichment domain.Enrichment) error
}

// Enricher optionally layers AI analysis over the deterministic classification.
type Enricher interface {
	Enrich(ctx context.Context, article domain.Article) (domain.Enrichment, error)
}

// Notifier streams alerts to chat channels.
type Notifier interface {
	NotifyCritical(ctx context.Context, article domain.Article) error
	SendDailySummary(ctx context.Context, counts domain.RiskCounts) error
}

// AlertDeduper reports whether an alert for key has not been sent before.
// Release forgets key so an undelivered alert is retried on the next run.
type AlertDeduper interface {
	FirstAlert(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
