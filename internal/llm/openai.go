package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"news-pulse/internal/api"
	"news-pulse/internal/store"
	"news-pulse/internal/trace"
)

// OpenAIProvider classifies articles via the OpenAI chat completions API
type OpenAIProvider struct {
	cfg    *store.Config
	client *api.Client
}

func NewOpenAIProvider(cfg *store.Config) *OpenAIProvider {
	return &OpenAIProvider{
		cfg:    cfg,
		client: api.NewClient(api.WithBaseURL("https://api.openai.com")),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) ClassifyArticle(ctx context.Context, title, content string) (Classification, error) {
	ctx, span := trace.StartSpan(ctx, "openai-classify-article")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return Classification{}, errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": p.cfg.Classifier.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildClassifyPrompt(title, content)},
		},
		"temperature": p.cfg.Classifier.Temperature,
		"max_tokens":  p.cfg.Classifier.MaxTokens,
	}

	resp, err := p.client.POST(ctx, "/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		return Classification{}, err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return Classification{}, err
	}

	if len(r.Choices) == 0 {
		return Classification{}, errors.New("no choices")
	}

	out := stripJSONFences(strings.TrimSpace(r.Choices[0].Message.Content))

	var result Classification
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return Classification{}, fmt.Errorf("invalid JSON response: %w", err)
	}

	return result, nil
}
