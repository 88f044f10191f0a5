package report

import (
	"fmt"

	"news-pulse/internal/types"
)

// ArticleRow is one article as shown to the user
type ArticleRow struct {
	Title      string   `json:"title"`
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	Topics     []string `json:"topics"`
	SourceURL  string   `json:"source_url"`
}

// ComparativeBlock groups the cross-article analysis for display
type ComparativeBlock struct {
	SentimentDistribution types.SentimentDistribution `json:"sentiment_distribution"`
	Comparisons           []types.TopicComparison     `json:"topic_overlap"`
}

// DisplayReport is the structured object handed to the UI layer
type DisplayReport struct {
	Company        string           `json:"company"`
	Articles       []ArticleRow     `json:"articles"`
	Comparative    ComparativeBlock `json:"comparative_sentiment"`
	FinalSentiment string           `json:"final_sentiment_analysis"`
	FailedArticles int              `json:"failed_articles,omitempty"`
}

// Rendered is the renderer output: the display object plus the text handed to
// the speech engine.
type Rendered struct {
	Display DisplayReport `json:"display_report"`
	TTSText string        `json:"tts_text"`
}

// Render is a pure transform from the comparative report to its presentation
// forms. The TTS text derives only from the coverage summary and the overall
// sentiment.
func Render(r *types.ComparativeReport) Rendered {
	rows := make([]ArticleRow, 0, len(r.Articles))
	for _, a := range r.Articles {
		rows = append(rows, ArticleRow{
			Title:      a.Title,
			Sentiment:  string(a.Sentiment),
			Confidence: a.Confidence,
			Topics:     a.Topics,
			SourceURL:  a.SourceURL,
		})
	}

	ttsText := fmt.Sprintf("%s The overall sentiment is %s.", r.CoverageSummary, r.OverallSentiment)

	return Rendered{
		Display: DisplayReport{
			Company:  r.Company,
			Articles: rows,
			Comparative: ComparativeBlock{
				SentimentDistribution: r.Distribution,
				Comparisons:           r.Comparisons,
			},
			FinalSentiment: ttsText,
			FailedArticles: r.FailedArticles,
		},
		TTSText: ttsText,
	}
}
