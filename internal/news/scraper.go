package news

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"news-pulse/internal/logger"
	"news-pulse/internal/store"
	"news-pulse/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Scraper fetches recent news articles about a company from Google News search
// results and extracts their text content.
type Scraper struct {
	timeout       time.Duration
	skipDomains   []string
	minContentLen int
	httpClient    *http.Client
}

// NewScraper creates a scraper from config
func NewScraper(cfg *store.Config) *Scraper {
	timeout := time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second
	return &Scraper{
		timeout:       timeout,
		skipDomains:   cfg.Scraper.SkipDomains,
		minContentLen: cfg.Scraper.MinContentLen,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// FetchArticles searches Google News for the company and extracts up to
// maxCount articles with usable content, in result order. Zero usable
// articles is a FetchError.
func (s *Scraper) FetchArticles(ctx context.Context, company string, maxCount int) ([]types.Article, error) {
	logger.Info(ctx, "Starting news fetch", "company", company, "max_count", maxCount)

	links, err := s.searchNews(ctx, company, maxCount)
	if err != nil {
		return nil, &types.FetchError{Company: company, Err: err}
	}

	articles := make([]types.Article, 0, len(links))
	for _, link := range links {
		title, content := s.extractArticle(ctx, link)
		if title == "" || len(content) < s.minContentLen {
			logger.Debug(ctx, "Skipping article with insufficient content", "url", link)
			continue
		}
		articles = append(articles, types.Article{
			ID:        articleID(link),
			Title:     title,
			Content:   content,
			SourceURL: link,
		})
		if len(articles) >= maxCount {
			break
		}
	}

	if len(articles) == 0 {
		return nil, &types.FetchError{Company: company}
	}

	logger.Info(ctx, "News fetch completed", "company", company, "articles", len(articles))
	return articles, nil
}

// searchNews collects article links from a Google News search results page
func (s *Scraper) searchNews(ctx context.Context, company string, maxCount int) ([]string, error) {
	links := []string{}
	seen := map[string]struct{}{}

	c := colly.NewCollector(
		colly.AllowedDomains("www.google.com", "news.google.com"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		// Collect a few extra links up front; content extraction filters later
		if len(links) >= maxCount*2 {
			return
		}

		href := e.Attr("href")
		// Search results wrap targets as /url?q=<actual_url>&...
		if strings.HasPrefix(href, "/url?q=") {
			href = strings.SplitN(strings.TrimPrefix(href, "/url?q="), "&", 2)[0]
		}
		if !strings.HasPrefix(href, "http") {
			return
		}
		if s.isSkippedDomain(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Search scraping error", err, "url", r.Request.URL.String())
	})

	searchURL := fmt.Sprintf("https://www.google.com/search?q=%s&tbm=nws",
		url.QueryEscape(company+" news"))

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	logger.Debug(ctx, "Search completed", "company", company, "links", len(links))
	return links, nil
}

// extractArticle fetches one article page and pulls out its title and body text
func (s *Scraper) extractArticle(ctx context.Context, articleURL string) (title, content string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Debug(ctx, "Failed to fetch article", "url", articleURL, "error", err)
		return "", ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	// Prefer a dedicated article container, fall back to all paragraphs
	container := doc.Find("article, div.article-body, div.content-body, div.story-content").First()
	paragraphs := []string{}
	sel := container.Find("p")
	if container.Length() == 0 {
		sel = doc.Find("p")
	}
	sel.Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})

	content = whitespaceRe.ReplaceAllString(strings.Join(paragraphs, " "), " ")
	return title, strings.TrimSpace(content)
}

// isSkippedDomain reports whether the URL belongs to a configured skip domain
func (s *Scraper) isSkippedDomain(articleURL string) bool {
	for _, domain := range s.skipDomains {
		if strings.Contains(articleURL, domain) {
			return true
		}
	}
	return false
}

// articleID derives a stable id from the article URL
func articleID(articleURL string) string {
	h := fnv.New64a()
	h.Write([]byte(articleURL))
	return fmt.Sprintf("%016x", h.Sum64())
}
