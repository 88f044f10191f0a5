package llm

import (
	"context"
	"fmt"
	"strings"

	"news-pulse/internal/store"
)

// Classification is the raw per-article output of an LLM provider, before the
// classify adapter normalizes it. Sentiment and topics arrive as whatever
// strings the model produced.
type Classification struct {
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	Topics     []string `json:"topics"`
}

// Provider performs one classification call per article
type Provider interface {
	Name() string
	ClassifyArticle(ctx context.Context, title, content string) (Classification, error)
}

// NewProvider returns the provider selected by config
func NewProvider(cfg *store.Config) (Provider, error) {
	switch cfg.Classifier.Provider {
	case "OPENAI":
		return NewOpenAIProvider(cfg), nil
	case "CLAUDE":
		return NewClaudeProvider(cfg), nil
	case "GEMINI":
		return NewGeminiProvider(cfg)
	case "STATIC":
		return NewStaticProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Classifier.Provider)
	}
}

const classifySchema = `{
  "sentiment": "positive|negative|neutral",
  "confidence": 0.0 to 1.0 (float),
  "topics": ["short normalized theme keywords"]
}`

const systemPrompt = "You are a media analyst expert at classifying the tone of press coverage. Respond ONLY with valid JSON."

// maxPromptContent caps article text sent to the model to stay inside token limits
const maxPromptContent = 2000

// buildClassifyPrompt creates the per-article classification prompt
func buildClassifyPrompt(title, content string) string {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent] + "..."
	}

	return fmt.Sprintf(`Classify the sentiment of this news article.

Article Title: %s
Content: %s

Evaluate:
1. Overall sentiment of the coverage (positive, negative, or neutral)
2. Your confidence in that label from 0.0 to 1.0
3. The key topics discussed, as short lowercase keywords

Respond ONLY with valid JSON matching this schema:
%s`, title, content, classifySchema)
}

// stripJSONFences removes markdown code fences some models wrap around JSON
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") && strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "```json"), "```")
	} else if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	}
	return strings.TrimSpace(s)
}
