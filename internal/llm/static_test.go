package llm

import (
	"context"
	"testing"
)

func TestStaticClassifyPositive(t *testing.T) {
	p := NewStaticProvider()

	got, err := p.ClassifyArticle(context.Background(),
		"Acme posts record profit",
		"Acme reported strong growth this quarter with a profit surge.")
	if err != nil {
		t.Fatalf("ClassifyArticle failed: %v", err)
	}

	if got.Sentiment != "positive" {
		t.Errorf("Expected positive, got %s", got.Sentiment)
	}
	if got.Confidence != 0.6 {
		t.Errorf("Expected confidence 0.6, got %f", got.Confidence)
	}
}

func TestStaticClassifyNegative(t *testing.T) {
	p := NewStaticProvider()

	got, err := p.ClassifyArticle(context.Background(),
		"Acme faces lawsuit",
		"A fraud probe and a fresh lawsuit weigh on Acme after mass layoffs.")
	if err != nil {
		t.Fatalf("ClassifyArticle failed: %v", err)
	}

	if got.Sentiment != "negative" {
		t.Errorf("Expected negative, got %s", got.Sentiment)
	}
}

func TestStaticClassifyNeutral(t *testing.T) {
	p := NewStaticProvider()

	got, err := p.ClassifyArticle(context.Background(),
		"Acme announces quarterly results",
		"The company published its quarterly numbers on Tuesday.")
	if err != nil {
		t.Fatalf("ClassifyArticle failed: %v", err)
	}

	if got.Sentiment != "neutral" {
		t.Errorf("Expected neutral, got %s", got.Sentiment)
	}
	if got.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", got.Confidence)
	}
}

func TestStaticClassifyDeterministic(t *testing.T) {
	p := NewStaticProvider()

	title := "Acme growth beats expectations amid lawsuit"
	content := "Mixed quarter for Acme."

	first, _ := p.ClassifyArticle(context.Background(), title, content)
	second, _ := p.ClassifyArticle(context.Background(), title, content)

	if first.Sentiment != second.Sentiment || first.Confidence != second.Confidence {
		t.Error("Static classification must be deterministic")
	}
	if len(first.Topics) != len(second.Topics) {
		t.Error("Static topics must be deterministic")
	}
}

func TestTitleTopics(t *testing.T) {
	got := titleTopics("Acme growth beats the market after strong quarter")

	want := []string{"acme", "growth", "beats", "market", "strong"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestTitleTopicsFiltersAndCaps(t *testing.T) {
	got := titleTopics("The and for with CEO up on at it go")
	if len(got) != 0 {
		t.Errorf("Expected no topics from stop and short words, got %v", got)
	}

	got = titleTopics("alpha bravo charlie delta echo foxtrot golf")
	if len(got) != 5 {
		t.Errorf("Expected topics capped at 5, got %d: %v", len(got), got)
	}

	got = titleTopics("market market market")
	if len(got) != 1 {
		t.Errorf("Expected duplicates collapsed, got %v", got)
	}
}
