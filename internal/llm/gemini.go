package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"news-pulse/internal/store"
	"news-pulse/internal/trace"
)

// GeminiProvider classifies articles via the Google Gemini SDK
type GeminiProvider struct {
	cfg    *store.Config
	client *genai.Client
}

func NewGeminiProvider(cfg *store.Config) (*GeminiProvider, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY missing")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{cfg: cfg, client: client}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Close releases the underlying gRPC connection
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) ClassifyArticle(ctx context.Context, title, content string) (Classification, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-classify-article")
	defer span.End()

	model := p.client.GenerativeModel(p.cfg.Classifier.Model)
	model.SetTemperature(p.cfg.Classifier.Temperature)
	model.SetMaxOutputTokens(int32(p.cfg.Classifier.MaxTokens))

	prompt := systemPrompt + "\n\n" + buildClassifyPrompt(title, content)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Classification{}, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Classification{}, errors.New("no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	// Gemini tends to wrap JSON in markdown fences
	out := stripJSONFences(sb.String())

	var result Classification
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return Classification{}, fmt.Errorf("invalid JSON response: %w", err)
	}

	return result, nil
}
