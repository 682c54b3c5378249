package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/notify"
	"RiskMonitor/internal/ports"
)

// Notifier posts Block Kit messages to an incoming webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds a notifier for webhookURL.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type element struct {
	Type string `json:"type"`
	Text text   `json:"text"`
	URL  string `json:"url,omitempty"`
}

type block struct {
	Type     string    `json:"type"`
	Text     *text     `json:"text,omitempty"`
	Fields   []text    `json:"fields,omitempty"`
	Elements []element `json:"elements,omitempty"`
}

type payload struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks,omitempty"`
}

func markdown(s string) text {
	return text{Type: "mrkdwn", Text: s}
}

// NotifyCritical posts a header, the tier and category, the title, an excerpt
// and a link button.
func (n *Notifier) NotifyCritical(ctx context.Context, article domain.Article) error {
	alert := notify.NewCriticalAlert(article)
	title := markdown("*제목:*\n" + alert.Title)
	excerpt := markdown("*요약:*\n" + alert.Excerpt)

	return n.post(ctx, payload{
		Text: "🚨 심각 리스크 기사: " + alert.Title,
		Blocks: []block{
			{Type: "header", Text: &text{Type: "plain_text", Text: notify.CriticalHeader, Emoji: true}},
			{Type: "section", Fields: []text{
				markdown("*리스크 레벨:*\n" + alert.Level),
				markdown("*카테고리:*\n" + alert.Category),
			}},
			{Type: "section", Text: &title},
			{Type: "section", Text: &excerpt},
			{Type: "actions", Elements: []element{{
				Type: "button",
				Text: text{Type: "plain_text", Text: notify.OpenArticle},
				URL:  alert.URL,
			}}},
		},
	})
}

// SendDailySummary posts the per-tier counts as plain mrkdwn text.
func (n *Notifier) SendDailySummary(ctx context.Context, counts domain.RiskCounts) error {
	lines := append([]string{"*" + notify.SummaryHeader + "*", ""}, notify.SummaryLines(counts)...)
	return n.post(ctx, payload{Text: strings.Join(lines, "\n")})
}

func (n *Notifier) post(ctx context.Context, p payload) error {
	if n == nil || n.webhookURL == "" || n.client == nil {
		return fmt.Errorf("slack notifier misconfigured")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack error %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
