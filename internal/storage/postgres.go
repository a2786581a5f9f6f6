// Package storage persists topics, articles and authors in Postgres.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS topics (
    id             TEXT PRIMARY KEY,
    display_name   TEXT NOT NULL,
    total_articles INTEGER NOT NULL DEFAULT 0,
    side_a_count   INTEGER NOT NULL DEFAULT 0,
    neutral_count  INTEGER NOT NULL DEFAULT 0,
    side_b_count   INTEGER NOT NULL DEFAULT 0,
    last_processed TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS articles (
    id               TEXT PRIMARY KEY,
    topic_id         TEXT NOT NULL REFERENCES topics(id),
    author_id        TEXT,
    headline         TEXT NOT NULL,
    content          TEXT NOT NULL,
    url              TEXT NOT NULL,
    source           TEXT NOT NULL,
    author_byline    TEXT,
    published        TIMESTAMPTZ NOT NULL,
    content_hash     TEXT NOT NULL,
    language         TEXT,
    source_region    TEXT,
    bias_category    TEXT NOT NULL,
    confidence       DOUBLE PRECISION NOT NULL,
    analysis_reasons JSONB,
    key_indicators   JSONB,
    analyzed_at      TIMESTAMPTZ,
    raw_response     JSONB,
    status           TEXT NOT NULL,
    UNIQUE (topic_id, content_hash)
);

CREATE INDEX IF NOT EXISTS idx_articles_topic_category ON articles (topic_id, bias_category);

CREATE TABLE IF NOT EXISTS authors (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    normalized_name    TEXT NOT NULL UNIQUE,
    byline_variants    JSONB,
    sources            JSONB,
    total_articles     INTEGER NOT NULL DEFAULT 0,
    average_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
    topic_counts       JSONB,
    first_seen         TIMESTAMPTZ,
    last_seen          TIMESTAMPTZ
);
`

// Postgres is the single repository behind the pipeline, the aggregator, the
// author resolver and the HTTP API.
type Postgres struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func Open(databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Postgres{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

// InitSchema verifies connectivity and creates missing tables.
func (p *Postgres) InitSchema(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// Topic returns the stored topic aggregate, or (nil, nil) when the topic has
// never been persisted.
func (p *Postgres) Topic(ctx context.Context, id string) (*domain.Topic, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, display_name, total_articles, side_a_count, neutral_count, side_b_count, last_processed
         FROM topics WHERE id = $1`, id)

	var t domain.Topic
	var lastProcessed sql.NullTime
	err := row.Scan(&t.ID, &t.DisplayName, &t.TotalArticles,
		&t.Distribution.SideA, &t.Distribution.Neutral, &t.Distribution.SideB, &lastProcessed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load topic %s: %w", id, err)
	}
	if lastProcessed.Valid {
		t.LastProcessed = lastProcessed.Time
	}
	return &t, nil
}

// Topics returns all persisted topic aggregates.
func (p *Postgres) Topics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, display_name, total_articles, side_a_count, neutral_count, side_b_count, last_processed
         FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		var lastProcessed sql.NullTime
		if err := rows.Scan(&t.ID, &t.DisplayName, &t.TotalArticles,
			&t.Distribution.SideA, &t.Distribution.Neutral, &t.Distribution.SideB, &lastProcessed); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		if lastProcessed.Valid {
			t.LastProcessed = lastProcessed.Time
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// SaveTopic upserts the topic aggregate.
func (p *Postgres) SaveTopic(ctx context.Context, t *domain.Topic) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO topics (id, display_name, total_articles, side_a_count, neutral_count, side_b_count, last_processed)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         ON CONFLICT (id) DO UPDATE
         SET display_name   = EXCLUDED.display_name,
             total_articles = EXCLUDED.total_articles,
             side_a_count   = EXCLUDED.side_a_count,
             neutral_count  = EXCLUDED.neutral_count,
             side_b_count   = EXCLUDED.side_b_count,
             last_processed = EXCLUDED.last_processed`,
		t.ID, t.DisplayName, t.TotalArticles,
		t.Distribution.SideA, t.Distribution.Neutral, t.Distribution.SideB,
		nullTime(t.LastProcessed))
	if err != nil {
		return fmt.Errorf("failed to save topic %s: %w", t.ID, err)
	}
	return nil
}

// ArticleExists reports whether an article with this content hash is already
// stored under the topic.
func (p *Postgres) ArticleExists(ctx context.Context, topicID, contentHash string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE topic_id = $1 AND content_hash = $2)`,
		topicID, contentHash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return exists, nil
}

// SaveArticles inserts a batch. A hash collision within the topic is dropped
// by the database; a failing article is logged and skipped so one bad row
// never sinks the batch. Returns how many rows were stored.
func (p *Postgres) SaveArticles(ctx context.Context, articles []domain.Article) (int, error) {
	const insert = `
        INSERT INTO articles (
            id, topic_id, author_id, headline, content, url, source, author_byline,
            published, content_hash, language, source_region,
            bias_category, confidence, analysis_reasons, key_indicators,
            analyzed_at, raw_response, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        ON CONFLICT (topic_id, content_hash) DO NOTHING`

	saved := 0
	for _, a := range articles {
		reasons, err := json.Marshal(a.AnalysisReasons)
		if err != nil {
			logger.Error("failed to encode analysis reasons", "url", a.URL, "error", err)
			continue
		}
		indicators, err := json.Marshal(a.KeyIndicators)
		if err != nil {
			logger.Error("failed to encode key indicators", "url", a.URL, "error", err)
			continue
		}

		res, err := p.db.ExecContext(ctx, insert,
			a.ID, a.TopicID, nullString(a.AuthorID), a.Headline, a.Content, a.URL, a.Source,
			nullString(a.AuthorByline), a.Published, a.ContentHash, a.Language, a.SourceRegion,
			a.BiasCategory, a.Confidence, reasons, indicators,
			nullTime(a.AnalyzedAt), nullBytes(a.RawResponse), string(a.Status))
		if err != nil {
			if ctx.Err() != nil {
				return saved, ctx.Err()
			}
			logger.Error("failed to save article", "url", a.URL, "error", err)
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			saved += int(n)
		}
	}
	return saved, nil
}

// ArticlesByTopic returns every stored article of a topic, most recent first.
func (p *Postgres) ArticlesByTopic(ctx context.Context, topicID string) ([]domain.Article, error) {
	return p.queryArticles(ctx, topicID, "", 0)
}

// ArticlesFiltered returns a topic's articles with an optional category filter
// and row limit, for the read API.
func (p *Postgres) ArticlesFiltered(ctx context.Context, topicID, category string, limit int) ([]domain.Article, error) {
	return p.queryArticles(ctx, topicID, category, limit)
}

func (p *Postgres) queryArticles(ctx context.Context, topicID, category string, limit int) ([]domain.Article, error) {
	q := p.sb.Select(
		"id", "topic_id", "author_id", "headline", "content", "url", "source", "author_byline",
		"published", "content_hash", "language", "source_region",
		"bias_category", "confidence", "analysis_reasons", "key_indicators",
		"analyzed_at", "raw_response", "status").
		From("articles").
		Where(sq.Eq{"topic_id": topicID}).
		OrderBy("published DESC")
	if category != "" {
		q = q.Where(sq.Eq{"bias_category": category})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var a domain.Article
	var authorID, byline sql.NullString
	var analyzedAt sql.NullTime
	var reasons, indicators, raw []byte
	var status string

	err := rows.Scan(&a.ID, &a.TopicID, &authorID, &a.Headline, &a.Content, &a.URL, &a.Source,
		&byline, &a.Published, &a.ContentHash, &a.Language, &a.SourceRegion,
		&a.BiasCategory, &a.Confidence, &reasons, &indicators,
		&analyzedAt, &raw, &status)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to scan article: %w", err)
	}

	a.AuthorID = authorID.String
	a.AuthorByline = byline.String
	if analyzedAt.Valid {
		a.AnalyzedAt = analyzedAt.Time
	}
	a.RawResponse = raw
	a.Status = domain.ProcessingStatus(status)
	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &a.AnalysisReasons); err != nil {
			return domain.Article{}, fmt.Errorf("failed to decode analysis reasons: %w", err)
		}
	}
	if len(indicators) > 0 {
		if err := json.Unmarshal(indicators, &a.KeyIndicators); err != nil {
			return domain.Article{}, fmt.Errorf("failed to decode key indicators: %w", err)
		}
	}
	return a, nil
}

// AuthorByKey returns the author with the given normalized name, or (nil, nil)
// when unknown.
func (p *Postgres) AuthorByKey(ctx context.Context, key string) (*domain.Author, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, name, normalized_name, byline_variants, sources,
                total_articles, average_confidence, topic_counts, first_seen, last_seen
         FROM authors WHERE normalized_name = $1`, key)

	var a domain.Author
	var variants, sources, counts []byte
	var firstSeen, lastSeen sql.NullTime
	err := row.Scan(&a.ID, &a.Name, &a.NormalizedName, &variants, &sources,
		&a.TotalArticles, &a.AverageConfidence, &counts, &firstSeen, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load author %q: %w", key, err)
	}

	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &a.BylineVariants); err != nil {
			return nil, fmt.Errorf("failed to decode byline variants: %w", err)
		}
	}
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &a.Sources); err != nil {
			return nil, fmt.Errorf("failed to decode author sources: %w", err)
		}
	}
	if len(counts) > 0 {
		if err := json.Unmarshal(counts, &a.TopicCounts); err != nil {
			return nil, fmt.Errorf("failed to decode topic counts: %w", err)
		}
	}
	if firstSeen.Valid {
		a.FirstSeen = firstSeen.Time
	}
	if lastSeen.Valid {
		a.LastSeen = lastSeen.Time
	}
	return &a, nil
}

// SaveAuthor upserts the author keyed by normalized name.
func (p *Postgres) SaveAuthor(ctx context.Context, a *domain.Author) error {
	variants, err := json.Marshal(a.BylineVariants)
	if err != nil {
		return fmt.Errorf("failed to encode byline variants: %w", err)
	}
	sources, err := json.Marshal(a.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode author sources: %w", err)
	}
	counts, err := json.Marshal(a.TopicCounts)
	if err != nil {
		return fmt.Errorf("failed to encode topic counts: %w", err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO authors (id, name, normalized_name, byline_variants, sources,
                              total_articles, average_confidence, topic_counts, first_seen, last_seen)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
         ON CONFLICT (normalized_name) DO UPDATE
         SET name               = EXCLUDED.name,
             byline_variants    = EXCLUDED.byline_variants,
             sources            = EXCLUDED.sources,
             total_articles     = EXCLUDED.total_articles,
             average_confidence = EXCLUDED.average_confidence,
             topic_counts       = EXCLUDED.topic_counts,
             last_seen          = EXCLUDED.last_seen`,
		a.ID, a.Name, a.NormalizedName, variants, sources,
		a.TotalArticles, a.AverageConfidence, counts,
		nullTime(a.FirstSeen), nullTime(a.LastSeen))
	if err != nil {
		return fmt.Errorf("failed to save author %q: %w", a.NormalizedName, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
