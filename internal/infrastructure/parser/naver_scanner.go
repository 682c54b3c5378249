package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"RiskMonitor/internal/config"
	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/scanner"
)

const (
	naverMaxDisplay = 100
	naverMaxStart   = 1000
	naverSource     = "naver"
)

// NaverScanner queries the Naver news search API for each configured term.
type NaverScanner struct {
	endpoint     string
	clientID     string
	clientSecret string
	display      int
	client       *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

var _ scanner.Scanner = (*NaverScanner)(nil)

// NewNaverScanner wires an HTTP client; display is capped at 100 per page.
func NewNaverScanner(cfg config.NaverConfig, client *http.Client, logger *slog.Logger) *NaverScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	display := cfg.Display
	if display <= 0 || display > naverMaxDisplay {
		display = naverMaxDisplay
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &NaverScanner{
		endpoint:     cfg.Endpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		display:      display,
		client:       client,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger,
	}
}

// Name identifies the strategy inside the registry.
func (n *NaverScanner) Name() string {
	return "naver"
}

// Scan pages through date-sorted results for every query until the items are
// older than req.Since, the API start cap is hit or req.Limit articles are collected.
func (n *NaverScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	if n.clientID == "" || n.clientSecret == "" {
		return nil, fmt.Errorf("naver scanner misconfigured: missing client credentials")
	}
	if len(req.Queries) == 0 {
		return nil, fmt.Errorf("no queries provided for site %s", req.SiteName)
	}

	results := make([]domain.Candidate, 0)
	seen := map[string]struct{}{}

	for _, query := range req.Queries {
		for start := 1; start <= naverMaxStart; start += n.display {
			if req.Limit > 0 && len(results) >= req.Limit {
				return results, nil
			}

			page, err := n.search(ctx, query, start)
			if err != nil {
				return nil, fmt.Errorf("query %q: %w", query, err)
			}

			shouldContinue := len(page.Items) == n.display
			for _, item := range page.Items {
				article := item.toCandidate()
				if !req.Since.IsZero() && article.PublishedAt.Before(req.Since) {
					shouldContinue = false
					continue
				}
				if _, ok := seen[article.URL]; ok {
					continue
				}
				seen[article.URL] = struct{}{}
				results = append(results, article)
				if req.Limit > 0 && len(results) >= req.Limit {
					break
				}
			}

			n.debug("naver page", "query", query, "start", start, "items", len(page.Items), "total", page.Total)
			if !shouldContinue {
				break
			}
		}
	}

	return results, nil
}

type naverResponse struct {
	Total int         `json:"total"`
	Start int         `json:"start"`
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

func (n *NaverScanner) search(ctx context.Context, query string, start int) (naverResponse, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return naverResponse{}, fmt.Errorf("rate limit: %w", err)
	}

	pageURL, err := buildSearchURL(n.endpoint, query, start, n.display)
	if err != nil {
		return naverResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return naverResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", n.clientID)
	req.Header.Set("X-Naver-Client-Secret", n.clientSecret)
	req.Header.Set("User-Agent", "RiskMonitor/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return naverResponse{}, fmt.Errorf("request search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return naverResponse{}, fmt.Errorf("naver returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var page naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return naverResponse{}, fmt.Errorf("decode search response: %w", err)
	}
	return page, nil
}

func (item naverItem) toCandidate() domain.Candidate {
	link := strings.TrimSpace(item.OriginalLink)
	if link == "" {
		link = strings.TrimSpace(item.Link)
	}

	publishedAt := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC1123Z, item.PubDate); err == nil {
		publishedAt = parsed
	}

	return domain.Candidate{
		Title:       cleanText(item.Title),
		Description: cleanText(item.Description),
		URL:         link,
		Source:      sourceFromLink(link),
		PublishedAt: publishedAt,
	}
}

func sourceFromLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Hostname() == "" {
		return naverSource
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func buildSearchURL(base, query string, start, display int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %s: %w", base, err)
	}

	q := parsed.Query()
	q.Set("query", query)
	q.Set("display", strconv.Itoa(display))
	q.Set("start", strconv.Itoa(start))
	q.Set("sort", "date")
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func (n *NaverScanner) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
