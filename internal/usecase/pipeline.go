package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source            ports.ArticleSource
	Classifier        ports.ArticleClassifier
	Repository        ports.ArticleRepository
	Enricher          ports.Enricher
	Notifier          ports.Notifier
	Deduper           ports.AlertDeduper
	Workers           int
	EnrichConcurrency int
	Logger            *slog.Logger
}

// Pipeline implements the collect, classify, store, enrich and alert workflow.
type Pipeline struct {
	source            ports.ArticleSource
	classifier        ports.ArticleClassifier
	repository        ports.ArticleRepository
	enricher          ports.Enricher
	notifier          ports.Notifier
	deduper           ports.AlertDeduper
	workers           int
	enrichConcurrency int
	logger            *slog.Logger
}

// RunStats summarises one pipeline run.
type RunStats struct {
	RunID    string            `json:"run_id"`
	Fetched  int               `json:"fetched"`
	Relevant int               `json:"relevant"`
	Skipped  int               `json:"skipped"`
	Saved    int               `json:"saved"`
	Enriched int               `json:"enriched"`
	Alerted  int               `json:"alerted"`
	Counts   domain.RiskCounts `json:"counts"`
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:            deps.Source,
		classifier:        deps.Classifier,
		repository:        deps.Repository,
		enricher:          deps.Enricher,
		notifier:          deps.Notifier,
		deduper:           deps.Deduper,
		workers:           max(1, deps.Workers),
		enrichConcurrency: max(1, deps.EnrichConcurrency),
		logger:            logger.With("component", "pipeline"),
	}
}

// ProcessDay runs the workflow for the articles published around day.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) (RunStats, error) {
	stats := RunStats{RunID: uuid.NewString()}
	if p.source == nil || p.classifier == nil {
		return stats, nil
	}
	log := p.logger.With("run_id", stats.RunID)
	log.Info("pipeline started", "day", day.Format(time.DateOnly))

	candidates, err := p.source.FetchDaily(ctx, day)
	if err != nil {
		return stats, fmt.Errorf("fetch daily: %w", err)
	}
	stats.Fetched = len(candidates)

	classified, err := p.classifier.ClassifyParallel(ctx, candidates, p.workers)
	if err != nil {
		return stats, fmt.Errorf("classify: %w", err)
	}
	stats.Relevant = len(classified)

	saved, err := p.store(ctx, classified, &stats)
	if err != nil {
		return stats, err
	}
	stats.Saved = len(saved)

	if stats.Enriched, err = p.enrich(ctx, saved, log); err != nil {
		return stats, err
	}

	for _, article := range saved {
		stats.Counts.Add(article.RiskLevel)
	}
	stats.Alerted = p.alert(ctx, saved, log)
	p.summarize(ctx, stats.Counts, log)

	log.Info("pipeline finished",
		"fetched", stats.Fetched,
		"relevant", stats.Relevant,
		"skipped", stats.Skipped,
		"saved", stats.Saved,
		"enriched", stats.Enriched,
		"alerted", stats.Alerted,
		"red", stats.Counts.Red,
		"amber", stats.Counts.Amber,
		"green", stats.Counts.Green,
	)
	return stats, nil
}

func (p *Pipeline) store(ctx context.Context, classified []domain.ClassifiedArticle, stats *RunStats) ([]domain.Article, error) {
	if p.repository == nil {
		saved := make([]domain.Article, 0, len(classified))
		for _, c := range classified {
			saved = append(saved, newArticle(0, c))
		}
		return saved, nil
	}

	urls := make([]string, len(classified))
	for i, c := range classified {
		urls[i] = c.URL
	}
	existing, err := p.repository.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("load existing: %w", err)
	}

	saved := make([]domain.Article, 0, len(classified))
	for _, c := range classified {
		if existing[c.URL] {
			stats.Skipped++
			continue
		}
		id, inserted, err := p.repository.Save(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("persist article %s: %w", c.URL, err)
		}
		if !inserted {
			stats.Skipped++
			continue
		}
		saved = append(saved, newArticle(id, c))
	}
	return saved, nil
}

func newArticle(id int64, c domain.ClassifiedArticle) domain.Article {
	return domain.Article{
		ID:             id,
		Candidate:      c.Candidate,
		Classification: c.Classification,
		Status:         domain.StatusPending,
	}
}

// enrich updates articles in place. Individual failures are logged and leave
// the engine classification untouched.
func (p *Pipeline) enrich(ctx context.Context, articles []domain.Article, log *slog.Logger) (int, error) {
	if p.enricher == nil || len(articles) == 0 {
		return 0, nil
	}

	enriched := make([]bool, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.enrichConcurrency)

	for i := range articles {
		g.Go(func() error {
			e, err := p.enricher.Enrich(gctx, articles[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("enrichment failed", "url", articles[i].URL, "err", err)
				return nil
			}
			if p.repository != nil {
				if err := p.repository.SaveEnrichment(gctx, articles[i].ID, e); err != nil {
					log.Warn("save enrichment failed", "article_id", articles[i].ID, "err", err)
					return nil
				}
			}
			articles[i].ApplyEnrichment(e)
			enriched[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("enrich: %w", err)
	}

	count := 0
	for _, ok := range enriched {
		if ok {
			count++
		}
	}
	return count, nil
}

func (p *Pipeline) alert(ctx context.Context, articles []domain.Article, log *slog.Logger) int {
	if p.notifier == nil {
		return 0
	}

	alerted := 0
	for _, article := range articles {
		if article.RiskLevel != domain.RiskRed {
			continue
		}
		if p.deduper != nil {
			first, err := p.deduper.FirstAlert(ctx, article.URL)
			if err != nil {
				log.Warn("alert dedupe unavailable", "url", article.URL, "err", err)
			} else if !first {
				continue
			}
		}
		if err := p.notifier.NotifyCritical(ctx, article); err != nil {
			log.Error("critical alert failed", "url", article.URL, "err", err)
			if p.deduper != nil {
				if err := p.deduper.Release(ctx, article.URL); err != nil {
					log.Warn("release alert key", "url", article.URL, "err", err)
				}
			}
			continue
		}
		alerted++
	}
	return alerted
}

func (p *Pipeline) summarize(ctx context.Context, counts domain.RiskCounts, log *slog.Logger) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.SendDailySummary(ctx, counts); err != nil {
		log.Error("daily summary failed", "err", err)
	}
}
