package speech

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"news-pulse/internal/api"
	"news-pulse/internal/logger"
	"news-pulse/internal/store"
	"news-pulse/internal/types"
)

// Synthesizer exports a summary string as spoken audio through an external
// translate-TTS endpoint. Single best-effort call, no internal retries.
type Synthesizer struct {
	client   *api.Client
	endpoint string
	language string
	maxChars int
}

// NewSynthesizer creates a synthesizer from config
func NewSynthesizer(cfg *store.Config) *Synthesizer {
	return &Synthesizer{
		client: api.NewClient(
			api.WithTimeout(time.Duration(cfg.Speech.TimeoutSeconds)*time.Second),
			api.WithHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		),
		endpoint: cfg.Speech.Endpoint,
		language: cfg.Speech.Language,
		maxChars: cfg.Speech.MaxChars,
	}
}

// Synthesize converts text to speech and writes the audio to a fresh temp
// directory. Texts above the configured maximum are truncated at a sentence
// boundary, never mid-word.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (types.AudioHandle, error) {
	ctx, span := logger.StartSpan(ctx, "synthesize-speech")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return types.AudioHandle{}, &types.TTSUnavailableError{Err: errors.New("empty text")}
	}
	text = TruncateAtSentence(text, s.maxChars)

	reqURL := fmt.Sprintf("%s?ie=UTF-8&client=tw-ob&tl=%s&q=%s",
		s.endpoint, url.QueryEscape(s.language), url.QueryEscape(text))

	resp, err := s.client.GET(ctx, reqURL)
	if err != nil {
		logger.ErrorWithErr(ctx, "Speech synthesis call failed", err, "language", s.language)
		return types.AudioHandle{}, &types.TTSUnavailableError{Err: err}
	}

	dir, err := os.MkdirTemp("", "news-pulse-speech-")
	if err != nil {
		return types.AudioHandle{}, &types.TTSUnavailableError{Err: err}
	}

	path := filepath.Join(dir, "speech.mp3")
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		return types.AudioHandle{}, &types.TTSUnavailableError{Err: err}
	}

	logger.Info(ctx, "Speech synthesized", "path", path, "language", s.language, "chars", len(text))
	return types.AudioHandle{Path: path, Language: s.language}, nil
}

// TruncateAtSentence shortens text to at most max characters, preferring the
// last sentence boundary and falling back to the last word boundary.
func TruncateAtSentence(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}

	cut := text[:max]

	if idx := lastSentenceEnd(cut); idx >= 0 {
		return strings.TrimSpace(cut[:idx+1])
	}

	// No sentence boundary inside the window; back off to a word boundary
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		return strings.TrimSpace(cut[:idx])
	}

	return cut
}

// lastSentenceEnd returns the index of the last sentence terminator in s,
// or -1 if there is none.
func lastSentenceEnd(s string) int {
	return strings.LastIndexAny(s, ".!?")
}
