package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
	if cfg.Scraper.MaxArticles != 10 {
		t.Errorf("Expected 10 max articles, got %d", cfg.Scraper.MaxArticles)
	}
	if cfg.Classifier.Provider != "STATIC" {
		t.Errorf("Expected STATIC provider by default, got %s", cfg.Classifier.Provider)
	}
	if cfg.Speech.Language != "hi" {
		t.Errorf("Expected default language hi, got %s", cfg.Speech.Language)
	}
	if cfg.Speech.MaxChars != 5000 {
		t.Errorf("Expected 5000 max chars, got %d", cfg.Speech.MaxChars)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Expected default addr :8000, got %s", cfg.Server.Addr)
	}
	if len(cfg.Scraper.SkipDomains) == 0 {
		t.Error("Expected default skip domains")
	}
}

func TestLoadConfig(t *testing.T) {
	yaml := `
scraper:
  max_articles: 5
classifier:
  provider: GEMINI
  workers: 2
speech:
  language: en
cache:
  ttl_minutes: 15
`
	path := writeConfig(t, yaml)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scraper.MaxArticles != 5 {
		t.Errorf("Expected 5 max articles, got %d", cfg.Scraper.MaxArticles)
	}
	if cfg.Classifier.Provider != "GEMINI" {
		t.Errorf("Expected GEMINI, got %s", cfg.Classifier.Provider)
	}
	if cfg.Classifier.Model != "gemini-1.5-pro" {
		t.Errorf("Expected per-provider default model, got %s", cfg.Classifier.Model)
	}
	if cfg.Classifier.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.Classifier.Workers)
	}
	if cfg.Speech.Language != "en" {
		t.Errorf("Expected language en, got %s", cfg.Speech.Language)
	}
	if cfg.Cache.TTLMinutes != 15 {
		t.Errorf("Expected ttl 15, got %d", cfg.Cache.TTLMinutes)
	}
	// Untouched sections still get defaults
	if cfg.Speech.MaxChars != 5000 {
		t.Errorf("Expected default max chars, got %d", cfg.Speech.MaxChars)
	}
}

func TestLoadConfigInvalidProvider(t *testing.T) {
	path := writeConfig(t, "classifier:\n  provider: WATSON\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for unknown provider")
	}
	if !strings.Contains(err.Error(), "classifier.provider") {
		t.Errorf("Expected provider error, got %v", err)
	}
}

func TestLoadConfigNegativeArticles(t *testing.T) {
	path := writeConfig(t, "scraper:\n  max_articles: -3\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for negative max_articles")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Writing config failed: %v", err)
	}
	return path
}
