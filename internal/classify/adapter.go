package classify

import (
	"context"
	"sort"
	"strings"

	"news-pulse/internal/llm"
	"news-pulse/internal/logger"
	"news-pulse/internal/types"
)

// Result is the tagged per-article outcome: exactly one of Classified or
// Failure is set. Unvalidated provider shapes never leave this package.
type Result struct {
	Classified *types.ClassifiedArticle
	Failure    *types.ClassificationFailure
}

// Adapter wraps a provider and normalizes its output into the fixed
// ClassifiedArticle schema. One provider call per article, no retries; retry
// policy belongs to the caller.
type Adapter struct {
	provider llm.Provider
}

func NewAdapter(provider llm.Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Classify runs one classification call and normalizes the outcome
func (a *Adapter) Classify(ctx context.Context, article types.Article) Result {
	raw, err := a.provider.ClassifyArticle(ctx, article.Title, article.Content)
	if err != nil {
		logger.Warn(ctx, "Article classification failed",
			"article_id", article.ID, "provider", a.provider.Name(), "error", err)
		return Result{Failure: &types.ClassificationFailure{
			ArticleID: article.ID,
			Reason:    err.Error(),
		}}
	}

	sentiment, confidence := normalizeSentiment(ctx, article.ID, raw.Sentiment, raw.Confidence)

	return Result{Classified: &types.ClassifiedArticle{
		Article:    article,
		Sentiment:  sentiment,
		Confidence: confidence,
		Topics:     normalizeTopics(raw.Topics),
	}}
}

// normalizeSentiment maps a provider label onto the three-way enum.
// Unrecognized labels become neutral with zero confidence.
func normalizeSentiment(ctx context.Context, articleID, label string, confidence float64) (types.Sentiment, float64) {
	if confidence < 0 || confidence > 1 {
		confidence = 0.0
	}

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return types.SentimentPositive, confidence
	case "negative":
		return types.SentimentNegative, confidence
	case "neutral":
		return types.SentimentNeutral, confidence
	default:
		logger.Warn(ctx, "Unrecognized sentiment label, defaulting to neutral",
			"article_id", articleID, "label", label)
		return types.SentimentNeutral, 0.0
	}
}

// normalizeTopics lower-cases, trims, deduplicates and sorts topic strings so
// downstream set operations are stable.
func normalizeTopics(topics []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
