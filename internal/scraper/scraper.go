// Package scraper extracts article text and discovers article links on
// listing pages when a source's feeds come up short.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/devpouya/swiss-media-bias-tracker/internal/collector"
	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// minArticleChars is the floor below which extracted text is considered junk.
const minArticleChars = 100

// minScrapedChars is the stricter floor for scraped candidates, which carry
// less metadata to sanity-check them with.
const minScrapedChars = 200

// maxLinksPerPage caps how many article links are followed per listing page.
const maxLinksPerPage = 5

// Scraper fetches and parses source web pages.
type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: timeout},
	}
}

var _ collector.ScrapeSource = (*Scraper)(nil)

func (s *Scraper) get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// ExtractArticle fetches a page and pulls out the article body text.
func (s *Scraper) ExtractArticle(ctx context.Context, articleURL string) (string, error) {
	doc, err := s.get(ctx, articleURL)
	if err != nil {
		return "", err
	}

	content := extractBody(doc)
	if len(content) < minArticleChars {
		return "", fmt.Errorf("no usable content at %s", articleURL)
	}
	return content, nil
}

// extractBody tries common article-body selectors, most specific first.
func extractBody(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".article-content p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
		paragraphs = paragraphs[:0]
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// Collect scrapes a source's listing pages for topic-relevant article links
// and extracts their full text. Scraped candidates have no publish timestamp;
// the collector stamps them with collection time.
func (s *Scraper) Collect(ctx context.Context, src registry.SourceConfig, keywords []string) ([]domain.Candidate, error) {
	var candidates []domain.Candidate

	for _, listURL := range src.ScrapeURLs {
		doc, err := s.get(ctx, listURL)
		if err != nil {
			logger.Warn("listing page failed", "url", listURL, "error", err)
			continue
		}

		links := findArticleLinks(doc, listURL, keywords)
		for _, link := range links {
			content, err := s.ExtractArticle(ctx, link.url)
			if err != nil {
				logger.Debug("article extraction failed", "url", link.url, "error", err)
				continue
			}
			if len(content) < minScrapedChars {
				continue
			}
			candidates = append(candidates, domain.Candidate{
				Headline:    link.title,
				URL:         link.url,
				Content:     content,
				Source:      src.Name,
				ContentHash: domain.Fingerprint(content),
			})
		}
	}

	return candidates, nil
}

type articleLink struct {
	url   string
	title string
}

// findArticleLinks scans anchors on a listing page for topic-relevant article
// links, capped per page to avoid hammering the source.
func findArticleLinks(doc *goquery.Document, baseURL string, keywords []string) []articleLink {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var links []articleLink
	seen := map[string]struct{}{}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())

		if href == "" || len(text) <= 20 {
			return true
		}
		if collector.MatchCount(text, keywords) < 1 {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		full := base.ResolveReference(ref).String()
		if _, dup := seen[full]; dup {
			return true
		}
		seen[full] = struct{}{}

		links = append(links, articleLink{url: full, title: text})
		return len(links) < maxLinksPerPage
	})

	return links
}
