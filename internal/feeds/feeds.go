// Package feeds retrieves article candidates from source RSS feeds.
package feeds

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/devpouya/swiss-media-bias-tracker/internal/collector"
	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// ArticleExtractor fetches the full text behind a feed item's link.
type ArticleExtractor interface {
	ExtractArticle(ctx context.Context, url string) (string, error)
}

// Fetcher parses a source's feeds and turns on-topic items into candidates.
type Fetcher struct {
	parser    *gofeed.Parser
	extractor ArticleExtractor
}

func NewFetcher(extractor ArticleExtractor) *Fetcher {
	return &Fetcher{
		parser:    gofeed.NewParser(),
		extractor: extractor,
	}
}

var _ collector.FeedSource = (*Fetcher)(nil)

// Collect walks every feed of the source. Items are kept when they fall inside
// the window and match at least one topic keyword in title or description;
// the full article text is then extracted for fingerprinting and
// classification. Per-feed failures are logged and skipped.
func (f *Fetcher) Collect(ctx context.Context, src registry.SourceConfig, keywords []string, window collector.Window) ([]domain.Candidate, error) {
	var candidates []domain.Candidate

	for _, feedURL := range src.Feeds {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.Warn("feed parse failed", "feed", feedURL, "error", err)
			continue
		}

		for _, item := range feed.Items {
			published := publishTime(item)
			if !published.IsZero() && !window.Contains(published) {
				continue
			}

			// Cheap pre-filter before fetching the full text.
			if collector.MatchCount(item.Title+" "+item.Description, keywords) < 1 {
				continue
			}

			content, err := f.extractor.ExtractArticle(ctx, item.Link)
			if err != nil {
				logger.Debug("full text extraction failed", "url", item.Link, "error", err)
				continue
			}

			candidates = append(candidates, domain.Candidate{
				Headline:    item.Title,
				URL:         item.Link,
				Content:     content,
				Source:      src.Name,
				Published:   published,
				ContentHash: domain.Fingerprint(content),
			})
		}

		logger.Debug("feed processed", "feed", feedURL, "items", len(feed.Items))
	}

	return candidates, nil
}

// publishTime prefers the published timestamp, falls back to updated, and
// returns the zero value when neither is available.
func publishTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
