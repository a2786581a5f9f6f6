// Package pipeline drives one analysis job end to end: collect, dedupe,
// filter, classify, resolve authors, persist, aggregate.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devpouya/swiss-media-bias-tracker/internal/collector"
	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/metrics"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// Repository is the persistence surface the pipeline writes through.
type Repository interface {
	Topic(ctx context.Context, id string) (*domain.Topic, error)
	SaveTopic(ctx context.Context, topic *domain.Topic) error
	ArticleExists(ctx context.Context, topicID, contentHash string) (bool, error)
	SaveArticles(ctx context.Context, articles []domain.Article) (int, error)
}

// Classifier produces a classification for every candidate; exhausted retries
// surface as a fallback result, never as an error.
type Classifier interface {
	Classify(ctx context.Context, topic registry.TopicConfig, c domain.Candidate) domain.ClassificationResult
}

// AuthorResolver maps a byline to a persistent author id, "" when the byline
// does not name a person.
type AuthorResolver interface {
	Resolve(ctx context.Context, byline, source string, topic registry.TopicConfig, result domain.ClassificationResult) (string, error)
}

// BylineExtractor finds an author byline in article text, "" when none.
type BylineExtractor func(headline, content string) string

// Collector gathers raw candidates for a topic within a window.
type Collector interface {
	Collect(ctx context.Context, topic registry.TopicConfig, window collector.Window) []domain.Candidate
}

// Aggregator recomputes the topic's stored statistics.
type Aggregator interface {
	Recompute(ctx context.Context, topic registry.TopicConfig) error
}

// Job is one triggered analysis run. StartDate and EndDate use D.M.YY form;
// when absent or unparseable the window falls back to DaysBack.
type Job struct {
	TopicID   string
	DaysBack  int
	StartDate string
	EndDate   string
}

// Pipeline owns a full analysis run for one topic.
type Pipeline struct {
	registry   *registry.Registry
	repo       Repository
	collector  Collector
	classifier Classifier
	authors    AuthorResolver
	extract    BylineExtractor
	aggregator Aggregator

	batchSize       int
	daysBackDefault int
	now             func() time.Time
}

func New(reg *registry.Registry, repo Repository, col Collector, cls Classifier,
	resolver AuthorResolver, extract BylineExtractor, agg Aggregator,
	batchSize, daysBackDefault int) *Pipeline {
	return &Pipeline{
		registry:        reg,
		repo:            repo,
		collector:       col,
		classifier:      cls,
		authors:         resolver,
		extract:         extract,
		aggregator:      agg,
		batchSize:       batchSize,
		daysBackDefault: daysBackDefault,
		now:             time.Now,
	}
}

// Run executes the job. It never returns an error: every failure is logged,
// recorded in metrics and contained, so a background trigger cannot crash the
// process or poison later runs.
func (p *Pipeline) Run(ctx context.Context, job Job) {
	start := p.now()

	topic, ok := p.registry.Topic(job.TopicID)
	if !ok {
		logger.Error("analysis requested for unknown topic", "topic", job.TopicID)
		metrics.Global.SetError(fmt.Sprintf("unknown topic %s", job.TopicID))
		return
	}

	if err := p.ensureTopic(ctx, topic); err != nil {
		logger.Error("failed to prepare topic row", "topic", topic.ID, "error", err)
		metrics.Global.SetError(err.Error())
		return
	}

	daysBack := job.DaysBack
	if daysBack <= 0 {
		daysBack = p.daysBackDefault
	}
	window := collector.ResolveWindow(daysBack, job.StartDate, job.EndDate, p.now())
	logger.Info("analysis started", "topic", topic.ID, "window", window.String())

	candidates := p.collector.Collect(ctx, topic, window)
	metrics.Global.AddCandidatesCollected(len(candidates))

	unique := collector.Dedupe(candidates)
	metrics.Global.AddDuplicatesFiltered(len(candidates) - len(unique))

	keywords := topic.AllKeywords()
	relevant := collector.FilterRelevant(unique, keywords)
	metrics.Global.AddIrrelevantFiltered(len(unique) - len(relevant))

	logger.Info("candidates ready for classification",
		"topic", topic.ID,
		"collected", len(candidates),
		"unique", len(unique),
		"relevant", len(relevant))

	persisted := p.classifyAndPersist(ctx, topic, relevant)

	if err := p.aggregator.Recompute(ctx, topic); err != nil {
		logger.Error("failed to recompute topic statistics", "topic", topic.ID, "error", err)
		metrics.Global.SetError(err.Error())
	}

	metrics.Global.RecordJob(p.now().Sub(start))
	logger.Info("analysis finished", "topic", topic.ID, "persisted", persisted, "duration", p.now().Sub(start))
}

// classifyAndPersist walks the relevant candidates, classifying each and
// flushing to storage in batches. Per-candidate failures are logged and the
// candidate skipped.
func (p *Pipeline) classifyAndPersist(ctx context.Context, topic registry.TopicConfig, candidates []domain.Candidate) int {
	persisted := 0
	batch := make([]domain.Article, 0, p.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		saved, err := p.repo.SaveArticles(ctx, batch)
		if err != nil {
			logger.Error("failed to persist article batch", "topic", topic.ID, "error", err)
		}
		persisted += saved
		metrics.Global.AddArticlesPersisted(saved)
		batch = batch[:0]
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}

		exists, err := p.repo.ArticleExists(ctx, topic.ID, c.ContentHash)
		if err != nil {
			logger.Error("failed to check for stored duplicate", "url", c.URL, "error", err)
			continue
		}
		if exists {
			logger.Debug("candidate already stored", "url", c.URL)
			continue
		}

		result := p.classifier.Classify(ctx, topic, c)
		metrics.Global.IncrementArticlesClassified()
		if result.FellBack() {
			metrics.Global.IncrementClassificationFallbacks()
		}

		var byline, authorID string
		if p.extract != nil {
			byline = p.extract(c.Headline, c.Content)
		}
		if byline != "" && p.authors != nil {
			authorID, err = p.authors.Resolve(ctx, byline, c.Source, topic, result)
			if err != nil {
				logger.Warn("author resolution failed", "byline", byline, "error", err)
				authorID = ""
			} else if authorID != "" {
				metrics.Global.IncrementAuthorsResolved()
			}
		}

		batch = append(batch, p.buildArticle(topic, c, result, byline, authorID))
		if len(batch) >= p.batchSize {
			flush()
		}
	}
	flush()

	return persisted
}

func (p *Pipeline) buildArticle(topic registry.TopicConfig, c domain.Candidate, result domain.ClassificationResult, byline, authorID string) domain.Article {
	status := domain.StatusCompleted
	if result.FellBack() {
		status = domain.StatusFailed
	}

	// RawResponse keeps the normalized result for later audit; encoding a
	// plain struct cannot fail.
	raw, _ := json.Marshal(result)

	article := domain.Article{
		ID:           uuid.NewString(),
		TopicID:      topic.ID,
		AuthorID:     authorID,
		Headline:     c.Headline,
		Content:      c.Content,
		URL:          c.URL,
		Source:       c.Source,
		AuthorByline: byline,
		Published:    c.Published,
		ContentHash:  c.ContentHash,

		BiasCategory:    result.Category,
		Confidence:      result.Confidence,
		AnalysisReasons: result.MainReasons,
		KeyIndicators:   result.KeyIndicators,
		AnalyzedAt:      p.now(),
		RawResponse:     raw,
		Status:          status,
	}

	if src, ok := p.registry.SourceByName(c.Source); ok {
		article.Language = src.Language
		article.SourceRegion = src.Region
	}
	return article
}

// ensureTopic creates the topic row on first use so article inserts have a
// parent to reference.
func (p *Pipeline) ensureTopic(ctx context.Context, topic registry.TopicConfig) error {
	stored, err := p.repo.Topic(ctx, topic.ID)
	if err != nil {
		return err
	}
	if stored != nil {
		return nil
	}
	return p.repo.SaveTopic(ctx, &domain.Topic{ID: topic.ID, DisplayName: topic.DisplayName})
}
