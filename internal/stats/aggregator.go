// Package stats recomputes per-topic aggregate statistics from the stored
// articles.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// Store is the persistence surface the aggregator needs.
type Store interface {
	Topic(ctx context.Context, id string) (*domain.Topic, error)
	SaveTopic(ctx context.Context, topic *domain.Topic) error
	ArticlesByTopic(ctx context.Context, topicID string) ([]domain.Article, error)
}

// Aggregator rebuilds topic counters by a full recount. Derived counts never
// drift from the stored articles, and rerunning it is a no-op.
type Aggregator struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Recompute recounts every stored article of the topic into the three-way
// distribution and persists the refreshed aggregate.
func (a *Aggregator) Recompute(ctx context.Context, topic registry.TopicConfig) error {
	articles, err := a.store.ArticlesByTopic(ctx, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to load articles for topic %s: %w", topic.ID, err)
	}

	var dist domain.BiasDistribution
	for _, article := range articles {
		switch article.BiasCategory {
		case topic.SideA:
			dist.SideA++
		case topic.SideB:
			dist.SideB++
		default:
			dist.Neutral++
		}
	}

	stored, err := a.store.Topic(ctx, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to load topic %s: %w", topic.ID, err)
	}
	if stored == nil {
		stored = &domain.Topic{ID: topic.ID, DisplayName: topic.DisplayName}
	}
	stored.TotalArticles = len(articles)
	stored.Distribution = dist
	stored.LastProcessed = a.now()

	if err := a.store.SaveTopic(ctx, stored); err != nil {
		return fmt.Errorf("failed to save topic %s: %w", topic.ID, err)
	}

	logger.Info("topic statistics recomputed",
		"topic", topic.ID,
		"total", stored.TotalArticles,
		"side_a", dist.SideA,
		"neutral", dist.Neutral,
		"side_b", dist.SideB)
	return nil
}
