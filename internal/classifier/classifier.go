package classifier

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"RiskMonitor/internal/domain"
)

// Classify runs the full engine over one article. Articles that are not relevant
// carry safe defaults: no category, neutral, no response, green, zero.
func (t Tables) Classify(title, description string) domain.Classification {
	rel := t.Relevance(title, description)
	result := domain.Classification{
		IsRelevant:      rel.IsRelevant,
		Confidence:      rel.Confidence,
		MatchedKeywords: rel.MatchedKeywords,
		Sentiment:       domain.SentimentNeutral,
		RiskLevel:       domain.RiskGreen,
	}
	if !rel.IsRelevant {
		return result
	}

	result.Category = t.Category(scanText(title, description))
	result.Sentiment = t.Sentiment(title, description)
	result.NeedsResponse = t.NeedsResponse(title, description)
	result.RiskLevel, result.RiskScore = t.RiskWithSentiment(title, description, result.Sentiment)
	return result
}

// Classifier applies a fixed set of tables to articles.
type Classifier struct {
	tables Tables
	logger *slog.Logger
}

// New builds a classifier over tables. A nil logger disables logging.
func New(tables Tables, logger *slog.Logger) *Classifier {
	return &Classifier{tables: tables, logger: logger}
}

// Classify classifies a single article.
func (c *Classifier) Classify(title, description string) domain.Classification {
	return c.tables.Classify(title, description)
}

// Risk exposes the deterministic risk score so enrichment backends can fall back to it.
func (c *Classifier) Risk(title, description string) (domain.RiskLevel, int) {
	return c.tables.Risk(title, description)
}

// BatchClassify classifies every candidate and returns the relevant ones in input order.
func (c *Classifier) BatchClassify(articles []domain.Candidate) []domain.ClassifiedArticle {
	classified := make([]domain.ClassifiedArticle, 0, len(articles))
	for _, article := range articles {
		classified = append(classified, domain.ClassifiedArticle{
			Candidate:      article,
			Classification: c.tables.Classify(article.Title, article.Description),
		})
	}
	return c.keepRelevant(classified)
}

// ClassifyParallel has the BatchClassify contract but spreads the work over at
// most workers goroutines. It fails only when ctx is cancelled.
func (c *Classifier) ClassifyParallel(ctx context.Context, articles []domain.Candidate, workers int) ([]domain.ClassifiedArticle, error) {
	if workers < 1 {
		workers = 1
	}

	classified := make([]domain.ClassifiedArticle, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			classified[i] = domain.ClassifiedArticle{
				Candidate:      articles[i],
				Classification: c.tables.Classify(articles[i].Title, articles[i].Description),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return c.keepRelevant(classified), nil
}

func (c *Classifier) keepRelevant(classified []domain.ClassifiedArticle) []domain.ClassifiedArticle {
	relevant := make([]domain.ClassifiedArticle, 0, len(classified))
	for _, article := range classified {
		if article.IsRelevant {
			relevant = append(relevant, article)
		}
	}

	if c.logger != nil {
		c.logger.Info("classification done", "total", len(classified), "relevant", len(relevant))
	}
	return relevant
}
