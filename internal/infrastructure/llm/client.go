package llm

import (
	"context"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"RiskMonitor/internal/config"
)

// ChatCompleter is the slice of the OpenAI client the enricher needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds an OpenAI-compatible client from configuration. It
// returns nil when no API key is configured so callers fall back to the
// deterministic engine.
func NewOpenAIClient(cfg config.AIConfig) ChatCompleter {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	clientCfg.OrgID = cfg.Organization
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return openai.NewClientWithConfig(clientCfg)
}
