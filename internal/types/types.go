package types

// Sentiment is the coarse tone classification of one article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Article is one fetched news item about the target company. Immutable after fetch.
type Article struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url"`
}

// ClassifiedArticle is an Article plus the normalized classifier output.
// Topics are lower-case, deduplicated and sorted so set operations downstream
// are stable.
type ClassifiedArticle struct {
	Article
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Topics     []string  `json:"topics"`
}

// SentimentDistribution tallies sentiment over all classified articles.
// Counts sum to the number of successfully classified articles.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// TopicComparison holds the topic overlap between one unordered article pair,
// identified by fetch-order index (I < J).
type TopicComparison struct {
	ArticleI     int      `json:"article_i"`
	ArticleJ     int      `json:"article_j"`
	CommonTopics []string `json:"common_topics"`
	UniqueToI    []string `json:"unique_to_i"`
	UniqueToJ    []string `json:"unique_to_j"`
}

// ComparativeReport is the aggregate produced for one query. Given the same
// ordered classified input it serializes byte-identically, so it carries no
// timestamps.
type ComparativeReport struct {
	Company          string                `json:"company"`
	Articles         []ClassifiedArticle   `json:"articles"`
	Distribution     SentimentDistribution `json:"sentiment_distribution"`
	Comparisons      []TopicComparison     `json:"comparisons"`
	CoverageSummary  string                `json:"coverage_summary"`
	OverallSentiment Sentiment             `json:"overall_sentiment"`
	FailedArticles   int                   `json:"failed_articles"`
}

// AudioHandle points at a synthesized speech file.
type AudioHandle struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}
