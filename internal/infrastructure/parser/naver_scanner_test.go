package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"RiskMonitor/internal/config"
	"RiskMonitor/internal/scanner"
)

func TestBuildSearchURL(t *testing.T) {
	t.Parallel()

	u, err := buildSearchURL("https://openapi.naver.com/v1/search/news.json", "해시드", 101, 100)
	if err != nil {
		t.Fatalf("buildSearchURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	q := parsed.Query()
	if q.Get("query") != "해시드" {
		t.Fatalf("expected query=해시드, got %s", q.Get("query"))
	}
	if q.Get("start") != "101" || q.Get("display") != "100" || q.Get("sort") != "date" {
		t.Fatalf("unexpected paging params: %s", parsed.RawQuery)
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	got := cleanText("<b>해시드</b>, &quot;Series B&quot;   투자\n 유치")
	if got != `해시드, "Series B" 투자 유치` {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
	if cleanText("") != "" {
		t.Fatal("empty input must stay empty")
	}
}

func TestToCandidate(t *testing.T) {
	t.Parallel()

	item := naverItem{
		Title:        "<b>해시드</b> 대표 인터뷰",
		OriginalLink: "https://www.example.co.kr/news/1",
		Link:         "https://n.news.naver.com/1",
		Description:  "블록체인 &amp; 투자",
		PubDate:      "Thu, 15 Oct 2026 09:30:00 +0900",
	}

	got := item.toCandidate()

	if got.Title != "해시드 대표 인터뷰" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.Description != "블록체인 & 투자" {
		t.Fatalf("unexpected description: %q", got.Description)
	}
	if got.URL != "https://www.example.co.kr/news/1" || got.Source != "example.co.kr" {
		t.Fatalf("unexpected url/source: %s %s", got.URL, got.Source)
	}
	want := time.Date(2026, time.October, 15, 0, 30, 0, 0, time.UTC)
	if !got.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published date: %v", got.PublishedAt)
	}

	fallback := naverItem{Link: "not a url"}.toCandidate()
	if fallback.Source != naverSource || fallback.URL != "not a url" {
		t.Fatalf("unexpected fallback: %+v", fallback)
	}
}

func newNaverServer(t *testing.T, pages map[string][]naverItem) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Naver-Client-Id") != "id" || r.Header.Get("X-Naver-Client-Secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		key := r.URL.Query().Get("query") + "@" + r.URL.Query().Get("start")
		items := pages[key]
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		_ = json.NewEncoder(w).Encode(naverResponse{Total: len(items), Start: start, Items: items})
	}))
}

func TestNaverScannerScan(t *testing.T) {
	t.Parallel()

	pages := map[string][]naverItem{
		"해시드@1": {
			{Title: "fresh one", OriginalLink: "https://a.kr/1", PubDate: "Thu, 15 Oct 2026 09:00:00 +0900"},
			{Title: "fresh two", OriginalLink: "https://a.kr/2", PubDate: "Thu, 15 Oct 2026 08:00:00 +0900"},
		},
		"해시드@3": {
			{Title: "stale", OriginalLink: "https://a.kr/3", PubDate: "Mon, 12 Oct 2026 08:00:00 +0900"},
			{Title: "older", OriginalLink: "https://a.kr/4", PubDate: "Sun, 11 Oct 2026 08:00:00 +0900"},
		},
		"Hashed@1": {
			{Title: "duplicate", OriginalLink: "https://a.kr/1", PubDate: "Thu, 15 Oct 2026 09:00:00 +0900"},
		},
	}
	server := newNaverServer(t, pages)
	defer server.Close()

	sc := NewNaverScanner(config.NaverConfig{
		Endpoint:     server.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		Display:      2,
	}, server.Client(), nil)

	req := scanner.Request{
		SiteName: "naver-news",
		Queries:  []string{"해시드", "Hashed"},
		Since:    time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC),
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d: %+v", len(articles), articles)
	}
	if articles[0].Title != "fresh one" || articles[1].Title != "fresh two" {
		t.Fatalf("unexpected order: %+v", articles)
	}
}

func TestNaverScannerScan_Limit(t *testing.T) {
	t.Parallel()

	items := make([]naverItem, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, naverItem{Title: fmt.Sprintf("n%d", i), OriginalLink: fmt.Sprintf("https://a.kr/%d", i)})
	}
	server := newNaverServer(t, map[string][]naverItem{"q@1": items})
	defer server.Close()

	sc := NewNaverScanner(config.NaverConfig{Endpoint: server.URL, ClientID: "id", ClientSecret: "secret", Display: 3}, server.Client(), nil)

	articles, err := sc.Scan(context.Background(), scanner.Request{Queries: []string{"q"}, Limit: 2})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(articles))
	}
}

func TestNaverScannerScan_Errors(t *testing.T) {
	t.Parallel()

	sc := NewNaverScanner(config.NaverConfig{Endpoint: "http://unused"}, nil, nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{Queries: []string{"q"}}); err == nil {
		t.Fatal("expected misconfiguration error")
	}

	server := newNaverServer(t, nil)
	defer server.Close()

	bad := NewNaverScanner(config.NaverConfig{Endpoint: server.URL, ClientID: "id", ClientSecret: "wrong"}, server.Client(), nil)
	if _, err := bad.Scan(context.Background(), scanner.Request{Queries: []string{"q"}}); err == nil {
		t.Fatal("expected error on 401")
	}
}
