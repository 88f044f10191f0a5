package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"news-pulse/internal/aggregate"
	"news-pulse/internal/classify"
	"news-pulse/internal/logger"
	"news-pulse/internal/news"
	"news-pulse/internal/store"
	"news-pulse/internal/types"
)

// Fetcher retrieves articles about a company
type Fetcher interface {
	FetchArticles(ctx context.Context, company string, maxCount int) ([]types.Article, error)
}

// Classifier classifies one article into a tagged result
type Classifier interface {
	Classify(ctx context.Context, article types.Article) classify.Result
}

// Synthesizer converts report text to audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (types.AudioHandle, error)
}

// Service runs the comparative sentiment pipeline: fetch, classify in
// parallel, aggregate, and optionally export audio. Each run is stateless;
// the only state held across queries is the report cache.
type Service struct {
	fetcher    Fetcher
	classifier Classifier
	synth      Synthesizer
	cache      *reportCache
	cfg        *store.Config
}

// New creates a pipeline service
func New(cfg *store.Config, fetcher Fetcher, classifier Classifier, synth Synthesizer) *Service {
	return &Service{
		fetcher:    fetcher,
		classifier: classifier,
		synth:      synth,
		cache:      newReportCache(time.Duration(cfg.Cache.TTLMinutes) * time.Minute),
		cfg:        cfg,
	}
}

// Analyze produces the comparative report for a company, serving a cached
// report when one is still fresh.
func (s *Service) Analyze(ctx context.Context, company string) (*types.ComparativeReport, error) {
	if cached, ok := s.cache.get(company); ok {
		logger.Info(ctx, "Using cached report", "company", company)
		return cached, nil
	}
	return s.Refresh(ctx, company)
}

// Refresh runs the full pipeline, bypassing the cache
func (s *Service) Refresh(ctx context.Context, company string) (*types.ComparativeReport, error) {
	timer := logger.StartOperation(ctx, "analyze-company", "company", company)
	ctx = timer.GetContext()

	report, err := s.run(ctx, company)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	timer.End("articles", len(report.Articles))

	s.cache.set(company, report)
	return report, nil
}

// run executes one stateless pipeline pass
func (s *Service) run(ctx context.Context, company string) (*types.ComparativeReport, error) {
	articles, err := s.fetcher.FetchArticles(ctx, company, s.cfg.Scraper.MaxArticles)
	if err != nil {
		return nil, err
	}

	articleStore := news.NewStore()
	for _, a := range articles {
		if err := articleStore.Add(a); err != nil {
			return nil, err
		}
	}

	results, err := s.classifyAll(ctx, articleStore.All())
	if err != nil {
		return nil, err
	}

	classified := make([]types.ClassifiedArticle, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Classified != nil {
			classified = append(classified, *r.Classified)
		} else {
			failed++
		}
	}

	return aggregate.Build(ctx, company, classified, failed)
}

// classifyAll runs per-article classification concurrently with a bounded
// worker pool. Each call writes to its own index-addressed slot so the result
// order is the fetch order, not the completion order. The single errgroup
// barrier guarantees aggregation never sees a partial batch; the only error
// that can surface here is cancellation.
func (s *Service) classifyAll(ctx context.Context, articles []types.Article) ([]classify.Result, error) {
	results := make([]classify.Result, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Classifier.Workers)

	for i, article := range articles {
		i, article := i, article
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.classifier.Classify(gctx, article)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExportAudio synthesizes the spoken summary for a report. A failure here
// never invalidates the report itself.
func (s *Service) ExportAudio(ctx context.Context, ttsText string) (types.AudioHandle, error) {
	handle, err := s.synth.Synthesize(ctx, ttsText)
	if err != nil {
		logger.ErrorWithErr(ctx, "Audio export failed, report remains valid", err)
		return types.AudioHandle{}, err
	}
	return handle, nil
}

// CachedCompanies returns the companies with a cached report
func (s *Service) CachedCompanies() []string {
	return s.cache.companies()
}

// CachedReport returns the cached report for a company if still fresh
func (s *Service) CachedReport(company string) (*types.ComparativeReport, bool) {
	return s.cache.get(company)
}

// ClearCache removes all cached reports
func (s *Service) ClearCache() {
	s.cache.clear()
}

// reportCache stores recent reports per company with a TTL
type reportCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	report    *types.ComparativeReport
	timestamp time.Time
}

func newReportCache(ttl time.Duration) *reportCache {
	cache := &reportCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *reportCache) get(company string) (*types.ComparativeReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[company]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.report, true
}

func (c *reportCache) set(company string, report *types.ComparativeReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[company] = &cacheEntry{
		report:    report,
		timestamp: time.Now(),
	}
}

func (c *reportCache) companies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	companies := make([]string, 0, len(c.data))
	for company, entry := range c.data {
		if time.Since(entry.timestamp) <= c.ttl {
			companies = append(companies, company)
		}
	}
	return companies
}

func (c *reportCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*cacheEntry)
}

// cleanupLoop periodically removes expired entries
func (c *reportCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes expired entries
func (c *reportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for company, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, company)
		}
	}
}
