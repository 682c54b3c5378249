package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskMonitor/internal/classifier"
	"RiskMonitor/internal/domain"
)

type fakeSource struct {
	articles []domain.Candidate
	err      error
}

func (f fakeSource) FetchDaily(context.Context, time.Time) ([]domain.Candidate, error) {
	return f.articles, f.err
}

type fakeRepo struct {
	mu          sync.Mutex
	existing    map[string]bool
	saved       []domain.ClassifiedArticle
	enrichments map[int64]domain.Enrichment
}

func newFakeRepo(existing ...string) *fakeRepo {
	r := &fakeRepo{existing: map[string]bool{}, enrichments: map[int64]domain.Enrichment{}}
	for _, url := range existing {
		r.existing[url] = true
	}
	return r
}

func (r *fakeRepo) ExistingURLs(_ context.Context, urls []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, url := range urls {
		if r.existing[url] {
			out[url] = true
		}
	}
	return out, nil
}

func (r *fakeRepo) Save(_ context.Context, a domain.ClassifiedArticle) (int64, bool, error) {
	r.saved = append(r.saved, a)
	return int64(len(r.saved)), true, nil
}

func (r *fakeRepo) Get(context.Context, int64) (domain.Article, error) {
	return domain.Article{}, errors.New("not used")
}

func (r *fakeRepo) SaveEnrichment(_ context.Context, id int64, e domain.Enrichment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrichments[id] = e
	return nil
}

type fakeEnricher map[string]domain.Enrichment

func (f fakeEnricher) Enrich(_ context.Context, a domain.Article) (domain.Enrichment, error) {
	e, ok := f[a.URL]
	if !ok {
		return domain.Enrichment{}, errors.New("backend down")
	}
	return e, nil
}

type fakeNotifier struct {
	critical    []string
	summaries   []domain.RiskCounts
	criticalErr error
}

func (n *fakeNotifier) NotifyCritical(_ context.Context, a domain.Article) error {
	if n.criticalErr != nil {
		return n.criticalErr
	}
	n.critical = append(n.critical, a.URL)
	return nil
}

func (n *fakeNotifier) SendDailySummary(_ context.Context, c domain.RiskCounts) error {
	n.summaries = append(n.summaries, c)
	return nil
}

type seenDeduper map[string]bool

func (d seenDeduper) FirstAlert(_ context.Context, key string) (bool, error) {
	if d[key] {
		return false, nil
	}
	d[key] = true
	return true, nil
}

func (d seenDeduper) Release(_ context.Context, key string) error {
	delete(d, key)
	return nil
}

var candidates = []domain.Candidate{
	{Title: "해시드, 투자 사기 혐의로 검찰 수사", URL: "https://n/red"},
	{Title: "해시드, 시리즈 A 투자 유치", URL: "https://n/green"},
	{Title: "How passwords are hashed and stored", URL: "https://n/noise"},
	{Title: "해시드 신규 펀드 결성", URL: "https://n/old"},
}

func newTestPipeline(repo *fakeRepo, enricher fakeEnricher, notifier *fakeNotifier, deduper seenDeduper) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source:            fakeSource{articles: candidates},
		Classifier:        classifier.New(classifier.DefaultTables(), nil),
		Repository:        repo,
		Enricher:          enricher,
		Notifier:          notifier,
		Deduper:           deduper,
		Workers:           2,
		EnrichConcurrency: 2,
	})
}

func TestPipeline_ProcessDay(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo("https://n/old")
	notifier := &fakeNotifier{}
	enricher := fakeEnricher{
		"https://n/green": {Summary: "요약", RiskLevel: domain.RiskAmber, RiskScore: 50},
	}

	stats, err := newTestPipeline(repo, enricher, notifier, seenDeduper{}).ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 4, stats.Fetched)
	assert.Equal(t, 3, stats.Relevant)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 1, stats.Enriched)
	assert.Equal(t, 1, stats.Alerted)
	assert.Equal(t, domain.RiskCounts{Red: 1, Amber: 1}, stats.Counts)

	require.Len(t, repo.saved, 2)
	assert.Equal(t, "https://n/red", repo.saved[0].URL)
	assert.Equal(t, domain.RiskRed, repo.saved[0].RiskLevel)
	assert.Equal(t, "요약", repo.enrichments[2].Summary)

	assert.Equal(t, []string{"https://n/red"}, notifier.critical)
	assert.Equal(t, []domain.RiskCounts{{Red: 1, Amber: 1}}, notifier.summaries)
}

func TestPipeline_DedupesAlerts(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	deduper := seenDeduper{"https://n/red": true}

	stats, err := newTestPipeline(newFakeRepo(), fakeEnricher{}, notifier, deduper).ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Zero(t, stats.Alerted)
	assert.Empty(t, notifier.critical)
	assert.Len(t, notifier.summaries, 1, "summary is still sent")
}

func TestPipeline_FailedAlertIsRetried(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{criticalErr: errors.New("all channels down")}
	deduper := seenDeduper{}

	stats, err := newTestPipeline(newFakeRepo(), fakeEnricher{}, notifier, deduper).ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.Alerted)
	assert.NotContains(t, deduper, "https://n/red")

	notifier.criticalErr = nil
	stats, err = newTestPipeline(newFakeRepo(), fakeEnricher{}, notifier, deduper).ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Alerted)
	assert.Equal(t, []string{"https://n/red"}, notifier.critical)
}

func TestPipeline_WithoutOptionalAdapters(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{
		Source:     fakeSource{articles: candidates},
		Classifier: classifier.New(classifier.DefaultTables(), nil),
	})

	stats, err := p.ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Saved)
	assert.Zero(t, stats.Enriched)
}

func TestPipeline_Errors(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{
		Source:     fakeSource{err: errors.New("naver down")},
		Classifier: classifier.New(classifier.DefaultTables(), nil),
	})
	_, err := p.ProcessDay(context.Background(), time.Now())
	assert.ErrorContains(t, err, "fetch daily")

	stats, err := NewPipeline(PipelineDeps{}).ProcessDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.Fetched)
}

func TestPipeline_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(newFakeRepo(), fakeEnricher{}, &fakeNotifier{}, seenDeduper{}).ProcessDay(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
