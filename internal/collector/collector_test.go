package collector

import (
	"context"
	"testing"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

type fakeFeeds struct {
	perSource map[string][]domain.Candidate
	err       error
}

func (f *fakeFeeds) Collect(ctx context.Context, src registry.SourceConfig, keywords []string, window Window) ([]domain.Candidate, error) {
	return f.perSource[src.Name], f.err
}

type fakeScraper struct {
	perSource map[string][]domain.Candidate
	calls     []string
}

func (f *fakeScraper) Collect(ctx context.Context, src registry.SourceConfig, keywords []string) ([]domain.Candidate, error) {
	f.calls = append(f.calls, src.Name)
	return f.perSource[src.Name], nil
}

func testRegistry(sourceNames ...string) *registry.Registry {
	topic := registry.TopicConfig{
		ID:          "swiss-politics",
		DisplayName: "Swiss Politics",
		Keywords:    map[string][]string{"de": {"bundesrat"}},
		SideA:       "left_center",
		SideB:       "right_center",
	}
	var sources []registry.SourceConfig
	for _, name := range sourceNames {
		sources = append(sources, registry.SourceConfig{ID: name, Name: name})
	}
	return registry.New([]registry.TopicConfig{topic}, sources)
}

func TestCollect_ScrapeFallbackBelowThreshold(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	window := Window{Start: now.AddDate(0, 0, -7), End: now}

	feeds := &fakeFeeds{perSource: map[string][]domain.Candidate{
		"rich": {
			{URL: "r1", Published: now}, {URL: "r2", Published: now}, {URL: "r3", Published: now},
		},
		"poor": {
			{URL: "p1", Published: now},
		},
	}}
	scraper := &fakeScraper{perSource: map[string][]domain.Candidate{
		"poor": {{URL: "p2"}},
	}}

	c := New(testRegistry("rich", "poor"), feeds, scraper, 0)
	c.now = func() time.Time { return now }
	topic, _ := c.registry.Topic("swiss-politics")

	got := c.Collect(context.Background(), topic, window)

	if len(scraper.calls) != 1 || scraper.calls[0] != "poor" {
		t.Fatalf("scrape fallback calls = %v, want only the poor source", scraper.calls)
	}
	if len(got) != 5 {
		t.Errorf("got %d candidates, want 5", len(got))
	}
}

func TestCollect_StampsMissingPublishTime(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	window := Window{Start: now.AddDate(0, 0, -7), End: now}

	feeds := &fakeFeeds{perSource: map[string][]domain.Candidate{
		"src": {{URL: "undated"}},
	}}
	scraper := &fakeScraper{perSource: map[string][]domain.Candidate{
		"src": {{URL: "scraped"}},
	}}

	c := New(testRegistry("src"), feeds, scraper, 0)
	c.now = func() time.Time { return now }
	topic, _ := c.registry.Topic("swiss-politics")

	got := c.Collect(context.Background(), topic, window)
	if len(got) == 0 {
		t.Fatalf("no candidates collected")
	}
	for _, cand := range got {
		if !cand.Published.Equal(now) {
			t.Errorf("candidate %s published = %v, want collection time", cand.URL, cand.Published)
		}
	}
}

func TestCollect_WindowExcludesOldCandidates(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	window := Window{Start: now.AddDate(0, 0, -7), End: now}

	feeds := &fakeFeeds{perSource: map[string][]domain.Candidate{
		"src": {
			{URL: "fresh", Published: now.AddDate(0, 0, -1)},
			{URL: "stale", Published: now.AddDate(0, 0, -30)},
		},
	}}
	scraper := &fakeScraper{}

	c := New(testRegistry("src"), feeds, scraper, 0)
	c.now = func() time.Time { return now }
	topic, _ := c.registry.Topic("swiss-politics")

	got := c.Collect(context.Background(), topic, window)
	if len(got) != 1 || got[0].URL != "fresh" {
		t.Errorf("unexpected surviving candidates: %+v", got)
	}
}
