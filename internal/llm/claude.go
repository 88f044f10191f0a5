package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"news-pulse/internal/api"
	"news-pulse/internal/logger"
	"news-pulse/internal/store"
)

// ClaudeProvider classifies articles via the Anthropic messages API
type ClaudeProvider struct {
	cfg    *store.Config
	client *api.Client
}

func NewClaudeProvider(cfg *store.Config) *ClaudeProvider {
	// If you use a proxy, set endpoint via CLAUDE_API_ENDPOINT env var
	endpoint := "https://api.anthropic.com"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeProvider{
		cfg:    cfg,
		client: api.NewClient(api.WithBaseURL(endpoint)),
	}
}

func (p *ClaudeProvider) Name() string { return "claude" }

func (p *ClaudeProvider) ClassifyArticle(ctx context.Context, title, content string) (Classification, error) {
	ctx, span := logger.StartSpan(ctx, "claude-classify-article")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		err := errors.New("ANTHROPIC_API_KEY missing")
		logger.ErrorWithErr(ctx, "Claude API key not configured", err)
		return Classification{}, err
	}

	body := map[string]any{
		"model":      p.cfg.Classifier.Model,
		"max_tokens": p.cfg.Classifier.MaxTokens,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": buildClassifyPrompt(title, content)},
		},
	}

	resp, err := p.client.POST(ctx, "/v1/messages", body, map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return Classification{}, err
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return Classification{}, err
	}

	if len(r.Content) == 0 {
		return Classification{}, errors.New("no content")
	}

	out := stripJSONFences(strings.TrimSpace(r.Content[0].Text))

	var result Classification
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return Classification{}, fmt.Errorf("invalid JSON response: %w", err)
	}

	return result, nil
}
