package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper struct {
		MaxArticles    int      `yaml:"max_articles"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		SkipDomains    []string `yaml:"skip_domains"`
		MinContentLen  int      `yaml:"min_content_len"`
	} `yaml:"scraper"`
	Classifier struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE, GEMINI, STATIC
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		Workers     int     `yaml:"workers"`
	} `yaml:"classifier"`
	Speech struct {
		Language       string `yaml:"language"`
		MaxChars       int    `yaml:"max_chars"`
		Endpoint       string `yaml:"endpoint"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"speech"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	switch c.Classifier.Provider {
	case "OPENAI", "CLAUDE", "GEMINI", "STATIC":
	default:
		return fmt.Errorf("invalid classifier.provider '%s': must be 'OPENAI', 'CLAUDE', 'GEMINI' or 'STATIC'", c.Classifier.Provider)
	}
	if c.Scraper.MaxArticles < 1 {
		return fmt.Errorf("scraper.max_articles must be >= 1, got %d", c.Scraper.MaxArticles)
	}
	if c.Classifier.Workers < 1 {
		return fmt.Errorf("classifier.workers must be >= 1, got %d", c.Classifier.Workers)
	}
	if c.Speech.MaxChars < 1 {
		return fmt.Errorf("speech.max_chars must be >= 1, got %d", c.Speech.MaxChars)
	}
	if c.Speech.Language == "" {
		return fmt.Errorf("speech.language cannot be empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is present.
func Default() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Scraper.MaxArticles == 0 {
		c.Scraper.MaxArticles = 10
	}
	if c.Scraper.TimeoutSeconds == 0 {
		c.Scraper.TimeoutSeconds = 30
	}
	if c.Scraper.MinContentLen == 0 {
		c.Scraper.MinContentLen = 100
	}
	if len(c.Scraper.SkipDomains) == 0 {
		// Sites that render articles client-side and defeat plain scraping
		c.Scraper.SkipDomains = []string{
			"bloomberg.com",
			"wsj.com",
			"ft.com",
			"nytimes.com",
			"washingtonpost.com",
		}
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = "STATIC"
	}
	if c.Classifier.Model == "" {
		switch c.Classifier.Provider {
		case "OPENAI":
			c.Classifier.Model = "gpt-4o-mini"
		case "CLAUDE":
			c.Classifier.Model = "claude-3-5-haiku-latest"
		case "GEMINI":
			c.Classifier.Model = "gemini-1.5-pro"
		}
	}
	if c.Classifier.MaxTokens == 0 {
		c.Classifier.MaxTokens = 500
	}
	if c.Classifier.Workers == 0 {
		c.Classifier.Workers = 4
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "hi"
	}
	if c.Speech.MaxChars == 0 {
		c.Speech.MaxChars = 5000
	}
	if c.Speech.Endpoint == "" {
		c.Speech.Endpoint = "https://translate.google.com/translate_tts"
	}
	if c.Speech.TimeoutSeconds == 0 {
		c.Speech.TimeoutSeconds = 30
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
}
