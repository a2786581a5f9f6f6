package authors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// Store is the author persistence surface the resolver needs.
type Store interface {
	// AuthorByKey returns the author with the given normalized name, or
	// (nil, nil) when no such author exists.
	AuthorByKey(ctx context.Context, key string) (*domain.Author, error)
	SaveAuthor(ctx context.Context, author *domain.Author) error
}

// Resolver turns bylines into persistent author records and folds each new
// classification into the author's running statistics.
type Resolver struct {
	store Store
	now   func() time.Time
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve looks up or creates the author behind the byline, updates their
// statistics with the classification and returns the author id. An invalid
// byline resolves to "" without error.
func (r *Resolver) Resolve(ctx context.Context, byline, source string, topic registry.TopicConfig, result domain.ClassificationResult) (string, error) {
	byline = cleanByline(byline)
	if !ValidByline(byline) {
		return "", nil
	}
	key := NormalizeKey(byline)

	author, err := r.store.AuthorByKey(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to look up author %q: %w", key, err)
	}

	now := r.now()
	if author == nil {
		author = &domain.Author{
			ID:             uuid.NewString(),
			Name:           byline,
			NormalizedName: key,
			TopicCounts:    make(map[string]domain.CategoryCounts),
			FirstSeen:      now,
		}
	}
	if author.TopicCounts == nil {
		author.TopicCounts = make(map[string]domain.CategoryCounts)
	}

	appendUnique(&author.BylineVariants, byline)
	appendUnique(&author.Sources, source)

	author.TotalArticles++
	n := float64(author.TotalArticles)
	author.AverageConfidence = (author.AverageConfidence*(n-1) + result.Confidence) / n

	// A category outside the topic's three labels updates no counter.
	counts := author.TopicCounts[topic.ID]
	switch result.Category {
	case topic.SideA:
		counts.SideA++
	case topic.SideB:
		counts.SideB++
	case domain.CategoryNeutral:
		counts.Neutral++
	}
	author.TopicCounts[topic.ID] = counts
	author.LastSeen = now

	if err := r.store.SaveAuthor(ctx, author); err != nil {
		return "", fmt.Errorf("failed to save author %q: %w", key, err)
	}
	return author.ID, nil
}

func appendUnique(list *[]string, v string) {
	for _, existing := range *list {
		if existing == v {
			return
		}
	}
	*list = append(*list, v)
}
