// Package collector pulls article candidates for a topic from every
// configured source and applies the publish-date window.
package collector

import (
	"context"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// FeedSource retrieves candidates from a source's RSS feeds.
type FeedSource interface {
	Collect(ctx context.Context, src registry.SourceConfig, keywords []string, window Window) ([]domain.Candidate, error)
}

// ScrapeSource retrieves candidates by scraping a source's listing pages.
// Scraped candidates carry no native publish timestamp.
type ScrapeSource interface {
	Collect(ctx context.Context, src registry.SourceConfig, keywords []string) ([]domain.Candidate, error)
}

// scrapeThreshold: when a source's feeds yield fewer relevant candidates than
// this, the scrape fallback kicks in.
const scrapeThreshold = 3

// Collector walks all configured sources for one topic.
type Collector struct {
	registry *registry.Registry
	feeds    FeedSource
	scraper  ScrapeSource
	pause    time.Duration
	now      func() time.Time
}

func New(reg *registry.Registry, feeds FeedSource, scraper ScrapeSource, pause time.Duration) *Collector {
	return &Collector{
		registry: reg,
		feeds:    feeds,
		scraper:  scraper,
		pause:    pause,
		now:      time.Now,
	}
}

// Collect gathers candidates for the topic from every source. Per-source
// failures are logged and that source simply contributes nothing; the run
// continues. No ordering guarantee across sources.
func (c *Collector) Collect(ctx context.Context, topic registry.TopicConfig, window Window) []domain.Candidate {
	keywords := topic.AllKeywords()
	var all []domain.Candidate

	sources := c.registry.Sources()
	for i, src := range sources {
		fromFeeds, err := c.feeds.Collect(ctx, src, keywords, window)
		if err != nil {
			logger.Warn("feed collection failed", "source", src.Name, "error", err)
		}
		all = append(all, c.admit(fromFeeds, window)...)

		if len(fromFeeds) < scrapeThreshold {
			scraped, err := c.scraper.Collect(ctx, src, keywords)
			if err != nil {
				logger.Warn("scrape collection failed", "source", src.Name, "error", err)
			}
			all = append(all, c.admit(scraped, window)...)
		}

		logger.Info("source collected", "source", src.Name, "topic", topic.ID, "candidates", len(all))

		// Politeness pause between sources, not after the last one.
		if i < len(sources)-1 && c.pause > 0 {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(c.pause):
			}
		}
	}

	return all
}

// admit stamps candidates lacking a determinable publish timestamp with the
// collection time and applies the window. Scraping yields no native date
// metadata, so this is an accepted approximation that can misplace scraped
// articles relative to their true publish window.
func (c *Collector) admit(candidates []domain.Candidate, window Window) []domain.Candidate {
	now := c.now()
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Published.IsZero() {
			cand.Published = now
		}
		if window.Contains(cand.Published) {
			kept = append(kept, cand)
		}
	}
	return kept
}
