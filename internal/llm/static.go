package llm

import (
	"context"
	"strings"

	"news-pulse/internal/logger"
)

// StaticProvider is an offline fallback classifier used when no LLM is
// configured. It scores articles against a small keyword lexicon and derives
// topics from title words, so dry runs produce deterministic output without
// network access.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) Name() string { return "static" }

var positiveWords = []string{
	"growth", "profit", "gain", "surge", "record", "beat", "expansion",
	"innovation", "partnership", "upgrade", "strong", "rally", "award",
}

var negativeWords = []string{
	"lawsuit", "loss", "decline", "drop", "fraud", "probe", "layoff",
	"recall", "fine", "downgrade", "weak", "scandal", "bankruptcy",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "news": {}, "after": {}, "over": {}, "into": {}, "amid": {},
	"says": {}, "will": {}, "have": {}, "been": {}, "their": {}, "more": {},
}

func (p *StaticProvider) ClassifyArticle(ctx context.Context, title, content string) (Classification, error) {
	logger.Debug(ctx, "Static classifier called", "title", title)

	text := strings.ToLower(title + " " + content)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(text, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(text, w)
	}

	sentiment := "neutral"
	confidence := 0.5
	switch {
	case pos > neg:
		sentiment = "positive"
		confidence = 0.6
	case neg > pos:
		sentiment = "negative"
		confidence = 0.6
	}

	return Classification{
		Sentiment:  sentiment,
		Confidence: confidence,
		Topics:     titleTopics(title),
	}, nil
}

// titleTopics derives up to five topic keywords from the title
func titleTopics(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	topics := []string{}
	seen := map[string]struct{}{}
	for _, f := range fields {
		if len(f) < 4 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		topics = append(topics, f)
		if len(topics) == 5 {
			break
		}
	}
	return topics
}
