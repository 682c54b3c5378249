package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"RiskMonitor/internal/config"
	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/ports"
	"RiskMonitor/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	limit    int
	lookback time.Duration
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites. limit caps
// the number of articles per run and lookback bounds how old an article may be.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, limit int, lookback time.Duration, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		limit:    limit,
		lookback: lookback,
		logger:   log,
	}
}

// FetchDaily iterates over configured sites, executes their scanners and drops
// URLs already yielded by an earlier site.
func (s *StrategySource) FetchDaily(ctx context.Context, day time.Time) ([]domain.Candidate, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch daily", "sites", len(s.sites), "day", day.Format("2006-01-02"))

	var since time.Time
	if s.lookback > 0 {
		since = day.Add(-s.lookback)
	}

	var aggregated []domain.Candidate
	seen := map[string]struct{}{}
	for _, site := range s.sites {
		remaining := 0
		if s.limit > 0 {
			remaining = s.limit - len(aggregated)
			if remaining <= 0 {
				break
			}
		}

		s.debug("process site", "site", site.Name, "scanner", site.Scanner, "queries", len(site.Queries))
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			Day:      day,
			Since:    since,
			SiteName: site.Name,
			Queries:  site.Queries,
			Limit:    remaining,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		added := 0
		for _, article := range results {
			if article.URL == "" {
				continue
			}
			if _, dup := seen[article.URL]; dup {
				continue
			}
			seen[article.URL] = struct{}{}
			if article.Source == "" {
				article.Source = site.Name
			}
			aggregated = append(aggregated, article)
			added++
		}
		s.debug("site produced articles", "site", site.Name, "count", len(results), "added", added)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
