package telegram

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/notify"
	"RiskMonitor/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends alerts to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithAPIBase points the notifier at another Bot API host.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// NotifyCritical posts an HTML alert for a red article.
func (n *Notifier) NotifyCritical(ctx context.Context, article domain.Article) error {
	return n.send(ctx, criticalMessage(notify.NewCriticalAlert(article)))
}

// SendDailySummary posts the per-tier counts.
func (n *Notifier) SendDailySummary(ctx context.Context, counts domain.RiskCounts) error {
	var b strings.Builder
	b.WriteString("<b>" + notify.SummaryHeader + "</b>\n\n")
	b.WriteString(strings.Join(notify.SummaryLines(counts), "\n"))
	return n.send(ctx, b.String())
}

func criticalMessage(alert notify.CriticalAlert) string {
	e := html.EscapeString
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", notify.CriticalHeader)
	fmt.Fprintf(&b, "<b>리스크 레벨:</b> %s\n", e(alert.Level))
	fmt.Fprintf(&b, "<b>카테고리:</b> %s\n\n", e(alert.Category))
	fmt.Fprintf(&b, "<b>제목:</b>\n%s\n\n", e(alert.Title))
	fmt.Fprintf(&b, "<b>요약:</b>\n%s\n\n", e(alert.Excerpt))
	fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", e(alert.URL), notify.OpenArticle)
	return b.String()
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n == nil || n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
