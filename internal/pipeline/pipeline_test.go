package pipeline

import (
	"context"
	"encoding/json"
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"news-pulse/internal/classify"
	"news-pulse/internal/store"
	"news-pulse/internal/types"
)

// fakeFetcher returns a fixed article list
type fakeFetcher struct {
	articles []types.Article
	err      error
	calls    atomic.Int32
}

func (f *fakeFetcher) FetchArticles(ctx context.Context, company string, maxCount int) ([]types.Article, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

// fakeClassifier classifies by canned sentiment per article id; ids in the
// fail set produce failures. An optional per-article delay simulates
// out-of-order completion.
type fakeClassifier struct {
	sentiments map[string]types.Sentiment
	topics     map[string][]string
	fail       map[string]bool
	delays     map[string]time.Duration
}

func (f *fakeClassifier) Classify(ctx context.Context, article types.Article) classify.Result {
	if d, ok := f.delays[article.ID]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return classify.Result{Failure: &types.ClassificationFailure{ArticleID: article.ID, Reason: ctx.Err().Error()}}
		}
	}
	if f.fail[article.ID] {
		return classify.Result{Failure: &types.ClassificationFailure{ArticleID: article.ID, Reason: "classifier error"}}
	}
	sentiment, ok := f.sentiments[article.ID]
	if !ok {
		sentiment = types.SentimentNeutral
	}
	return classify.Result{Classified: &types.ClassifiedArticle{
		Article:    article,
		Sentiment:  sentiment,
		Confidence: 0.8,
		Topics:     f.topics[article.ID],
	}}
}

// fakeSynth records calls and optionally fails
type fakeSynth struct {
	err   error
	calls atomic.Int32
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) (types.AudioHandle, error) {
	f.calls.Add(1)
	if f.err != nil {
		return types.AudioHandle{}, f.err
	}
	return types.AudioHandle{Path: "/tmp/speech.mp3", Language: "hi"}, nil
}

func testArticles(n int) []types.Article {
	articles := make([]types.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, types.Article{
			ID:        fmt.Sprintf("a%d", i),
			Title:     fmt.Sprintf("Title %d", i),
			Content:   "content",
			SourceURL: fmt.Sprintf("https://example.com/%d", i),
		})
	}
	return articles
}

func testService(f Fetcher, c Classifier, s Synthesizer) *Service {
	cfg := store.Default()
	cfg.Classifier.Workers = 3
	return New(cfg, f, c, s)
}

func TestAnalyzeHappyPath(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(3)}
	classifier := &fakeClassifier{
		sentiments: map[string]types.Sentiment{
			"a0": types.SentimentPositive,
			"a1": types.SentimentNegative,
			"a2": types.SentimentPositive,
		},
		topics: map[string][]string{
			"a0": {"economy"},
			"a1": {"economy", "lawsuit"},
			"a2": {"growth"},
		},
	}

	svc := testService(fetcher, classifier, &fakeSynth{})

	rep, err := svc.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if rep.Distribution.Positive != 2 || rep.Distribution.Negative != 1 {
		t.Errorf("Unexpected distribution: %+v", rep.Distribution)
	}
	if len(rep.Comparisons) != 3 {
		t.Errorf("Expected 3 comparisons for 3 articles, got %d", len(rep.Comparisons))
	}
	if rep.OverallSentiment != types.SentimentPositive {
		t.Errorf("Expected positive overall, got %s", rep.OverallSentiment)
	}
	if rep.FailedArticles != 0 {
		t.Errorf("Expected no failures, got %d", rep.FailedArticles)
	}
}

func TestAnalyzeOrderIndependentOfCompletion(t *testing.T) {
	articles := testArticles(4)
	classifier := &fakeClassifier{
		topics: map[string][]string{
			"a0": {"zero"}, "a1": {"one"}, "a2": {"two"}, "a3": {"three"},
		},
		// First article finishes last, last finishes first
		delays: map[string]time.Duration{
			"a0": 40 * time.Millisecond,
			"a1": 25 * time.Millisecond,
			"a2": 10 * time.Millisecond,
		},
	}

	svc := testService(&fakeFetcher{articles: articles}, classifier, &fakeSynth{})

	first, err := svc.Refresh(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	second, err := svc.Refresh(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	for i, a := range first.Articles {
		if a.ID != articles[i].ID {
			t.Errorf("Result order must be fetch order: index %d has %s", i, a.ID)
		}
	}

	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if !bytes.Equal(b1, b2) {
		t.Error("Reports must be byte-identical regardless of completion order")
	}
}

func TestAnalyzePartialFailures(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(3)}
	classifier := &fakeClassifier{
		sentiments: map[string]types.Sentiment{"a0": types.SentimentNegative, "a2": types.SentimentNegative},
		fail:       map[string]bool{"a1": true},
	}

	svc := testService(fetcher, classifier, &fakeSynth{})

	rep, err := svc.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Per-article failures must not abort the pipeline: %v", err)
	}

	if len(rep.Articles) != 2 {
		t.Errorf("Expected 2 classified articles, got %d", len(rep.Articles))
	}
	if rep.FailedArticles != 1 {
		t.Errorf("Expected 1 failed article, got %d", rep.FailedArticles)
	}
	sum := rep.Distribution.Positive + rep.Distribution.Negative + rep.Distribution.Neutral
	if sum != 2 {
		t.Errorf("Distribution must sum to classified count, got %d", sum)
	}
}

func TestAnalyzeAllFailures(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(2)}
	classifier := &fakeClassifier{fail: map[string]bool{"a0": true, "a1": true}}

	svc := testService(fetcher, classifier, &fakeSynth{})

	_, err := svc.Analyze(context.Background(), "Acme")
	if err == nil {
		t.Fatal("Expected InsufficientDataError when every classification fails")
	}

	var insufficient *types.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientDataError, got %T: %v", err, err)
	}
	if insufficient.FailedArticles != 2 {
		t.Errorf("Expected 2 recorded failures, got %d", insufficient.FailedArticles)
	}
}

func TestAnalyzeFetchError(t *testing.T) {
	fetchErr := &types.FetchError{Company: "Acme"}
	svc := testService(&fakeFetcher{err: fetchErr}, &fakeClassifier{}, &fakeSynth{})

	_, err := svc.Analyze(context.Background(), "Acme")
	if err == nil {
		t.Fatal("Expected fetch error to propagate")
	}
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FetchError, got %T", err)
	}
}

func TestAnalyzeDuplicateArticle(t *testing.T) {
	articles := testArticles(2)
	articles[1].ID = articles[0].ID
	svc := testService(&fakeFetcher{articles: articles}, &fakeClassifier{}, &fakeSynth{})

	_, err := svc.Analyze(context.Background(), "Acme")
	var dup *types.DuplicateArticleError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateArticleError, got %T: %v", err, err)
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	classifier := &fakeClassifier{
		delays: map[string]time.Duration{
			"a0": 500 * time.Millisecond,
			"a1": 500 * time.Millisecond,
		},
	}
	svc := testService(&fakeFetcher{articles: testArticles(2)}, classifier, &fakeSynth{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.Analyze(ctx, "Acme")
	if err == nil {
		t.Fatal("Expected cancellation to surface")
	}
	if time.Since(start) > 300*time.Millisecond {
		t.Error("Cancellation must not wait out slow classifications")
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(2)}
	classifier := &fakeClassifier{topics: map[string][]string{"a0": {"x"}, "a1": {"y"}}}
	svc := testService(fetcher, classifier, &fakeSynth{})

	if _, err := svc.Analyze(context.Background(), "Acme"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := svc.Analyze(context.Background(), "Acme"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if fetcher.calls.Load() != 1 {
		t.Errorf("Expected a single fetch with a warm cache, got %d", fetcher.calls.Load())
	}

	companies := svc.CachedCompanies()
	if len(companies) != 1 || companies[0] != "Acme" {
		t.Errorf("Expected cached company Acme, got %v", companies)
	}

	svc.ClearCache()
	if len(svc.CachedCompanies()) != 0 {
		t.Error("Expected empty cache after ClearCache")
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(2)}
	svc := testService(fetcher, &fakeClassifier{}, &fakeSynth{})

	if _, err := svc.Analyze(context.Background(), "Acme"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "Acme"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if fetcher.calls.Load() != 2 {
		t.Errorf("Expected refresh to re-fetch, got %d calls", fetcher.calls.Load())
	}
}

func TestExportAudioFailureLeavesReportValid(t *testing.T) {
	fetcher := &fakeFetcher{articles: testArticles(2)}
	synth := &fakeSynth{err: &types.TTSUnavailableError{Err: errors.New("engine down")}}
	svc := testService(fetcher, &fakeClassifier{}, synth)

	rep, err := svc.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rep == nil {
		t.Fatal("Expected a report")
	}

	_, audioErr := svc.ExportAudio(context.Background(), rep.CoverageSummary)
	if audioErr == nil {
		t.Fatal("Expected audio export error")
	}
	var tts *types.TTSUnavailableError
	if !errors.As(audioErr, &tts) {
		t.Fatalf("Expected TTSUnavailableError, got %T", audioErr)
	}

	// The report remains usable after the failed export
	if _, ok := svc.CachedReport("Acme"); !ok {
		t.Error("Report must remain cached after audio failure")
	}
}

func TestExportAudioSuccess(t *testing.T) {
	synth := &fakeSynth{}
	svc := testService(&fakeFetcher{articles: testArticles(1)}, &fakeClassifier{}, synth)

	handle, err := svc.ExportAudio(context.Background(), "Coverage is neutral.")
	if err != nil {
		t.Fatalf("ExportAudio failed: %v", err)
	}
	if handle.Path == "" {
		t.Error("Expected a non-empty audio path")
	}
	if synth.calls.Load() != 1 {
		t.Errorf("Expected exactly one synthesis call, got %d", synth.calls.Load())
	}
}
