package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/ports"
)

const maxTokens = 500

var errNoBackend = errors.New("ai backend not configured")

// RiskScorer is the deterministic risk score used when the backend cannot answer.
type RiskScorer interface {
	Risk(title, description string) (domain.RiskLevel, int)
}

// Enricher asks an OpenAI-compatible model for a summary, a risk assessment and
// action items. Each part independently falls back to deterministic output.
type Enricher struct {
	client ChatCompleter
	model  string
	scorer RiskScorer
	logger *slog.Logger
}

var _ ports.Enricher = (*Enricher)(nil)

// NewEnricher wires the backend. A nil client always uses the fallbacks.
func NewEnricher(client ChatCompleter, model string, scorer RiskScorer, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enricher{
		client: client,
		model:  model,
		scorer: scorer,
		logger: logger.With("component", "llm"),
	}
}

// Enrich produces the AI-owned fields of an article. It only fails when ctx is done.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) (domain.Enrichment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Enrichment{}, err
	}

	level, score, analysis := e.risk(ctx, article)
	return domain.Enrichment{
		Summary:      e.summary(ctx, article),
		RiskAnalysis: analysis,
		RiskLevel:    level,
		RiskScore:    score,
		ActionItems:  e.actionItems(ctx, article, level),
	}, nil
}

func (e *Enricher) summary(ctx context.Context, a domain.Article) string {
	text, err := e.complete(ctx, summaryPrompt(a))
	if err == nil && text != "" {
		return text
	}
	e.fallback("summary", a, err)
	return fallbackSummary(a.Title, a.Description)
}

type riskReply struct {
	Level    string  `json:"level"`
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

func (e *Enricher) risk(ctx context.Context, a domain.Article) (domain.RiskLevel, int, string) {
	text, err := e.complete(ctx, riskPrompt(a))
	if err == nil {
		var reply riskReply
		if err = json.Unmarshal([]byte(stripFence(text)), &reply); err == nil {
			// the tier always follows the score
			score := int(math.Round(min(float64(domain.MaxRiskScore), max(0, reply.Score))))
			return domain.LevelForScore(score), score, strings.TrimSpace(reply.Analysis)
		}
		err = fmt.Errorf("parse risk reply: %w", err)
	}
	e.fallback("risk", a, err)

	level, score := domain.RiskGreen, 0
	if e.scorer != nil {
		level, score = e.scorer.Risk(a.Title, a.Description)
	}
	return level, score, fallbackAnalysis[level]
}

type actionReply struct {
	Text string `json:"text"`
}

func (e *Enricher) actionItems(ctx context.Context, a domain.Article, level domain.RiskLevel) []domain.ActionItem {
	text, err := e.complete(ctx, actionItemsPrompt(a, level))
	if err == nil {
		var replies []actionReply
		if err = json.Unmarshal([]byte(stripFence(text)), &replies); err == nil {
			items := make([]domain.ActionItem, 0, len(replies))
			for _, r := range replies {
				if t := strings.TrimSpace(r.Text); t != "" {
					items = append(items, domain.ActionItem{Text: t})
				}
			}
			if len(items) > 0 {
				return items
			}
			err = errors.New("no action items in reply")
		} else {
			err = fmt.Errorf("parse action items: %w", err)
		}
	}
	e.fallback("action_items", a, err)
	return fallbackActionItems(level)
}

func (e *Enricher) complete(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", errNoBackend
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (e *Enricher) fallback(part string, a domain.Article, err error) {
	if errors.Is(err, errNoBackend) {
		return
	}
	e.logger.Warn("ai enrichment fallback", "part", part, "url", a.URL, "err", err)
}
