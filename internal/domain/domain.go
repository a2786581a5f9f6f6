// Package domain holds the core entities of the bias tracker pipeline.
package domain

import "time"

// ProcessingStatus enumerates article pipeline milestones.
type ProcessingStatus string

const (
	StatusPending   ProcessingStatus = "pending"
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// CategoryNeutral is shared by every topic; the two side labels differ per topic.
const CategoryNeutral = "neutral"

// IndicatorClassificationFailed tags the fallback result returned when all
// classification attempts were exhausted.
const IndicatorClassificationFailed = "rate_limit_error"

// Candidate is an in-pipeline article candidate produced by the collector.
// It is consumed and discarded after persistence or rejection, never stored as-is.
type Candidate struct {
	Headline    string
	URL         string
	Content     string
	Source      string
	Published   time.Time
	ContentHash string
}

// ClassificationResult is the normalized outcome of a bias classification call.
// The orchestrator always returns one, even when the external call failed.
type ClassificationResult struct {
	Category      string    `json:"category"`
	Confidence    float64   `json:"confidence"`
	MainReasons   []string  `json:"main_reasons"`
	KeyIndicators []string  `json:"key_indicators"`
}

// FellBack reports whether the result is the neutral zero-confidence fallback.
func (r ClassificationResult) FellBack() bool {
	for _, ind := range r.KeyIndicators {
		if ind == IndicatorClassificationFailed {
			return true
		}
	}
	return false
}

// BiasDistribution is a topic's three-way article count.
type BiasDistribution struct {
	SideA   int `json:"pro_side_a"`
	Neutral int `json:"neutral"`
	SideB   int `json:"pro_side_b"`
}

// Topic is the persisted per-topic aggregate. Counters are mutated only by the
// aggregator, which recomputes them from stored articles.
type Topic struct {
	ID            string
	DisplayName   string
	TotalArticles int
	LastProcessed time.Time
	Distribution  BiasDistribution
}

// Article is a persisted, classified article. Content hash is unique per topic;
// duplicates are rejected before persistence.
type Article struct {
	ID           string
	TopicID      string
	AuthorID     string // empty when no author was resolved
	Headline     string
	Content      string
	URL          string
	Source       string
	AuthorByline string
	Published    time.Time
	ContentHash  string

	Language     string
	SourceRegion string

	BiasCategory    string
	Confidence      float64
	AnalysisReasons []string
	KeyIndicators   []string
	AnalyzedAt      time.Time
	RawResponse     []byte
	Status          ProcessingStatus
}

// CategoryCounts is one author's classification triple for a single topic.
type CategoryCounts struct {
	SideA   int `json:"side_a"`
	Neutral int `json:"neutral"`
	SideB   int `json:"side_b"`
}

// Author is a resolved article author with running bias statistics.
type Author struct {
	ID             string
	Name           string
	NormalizedName string
	BylineVariants []string
	Sources        []string

	TotalArticles     int
	AverageConfidence float64
	// TopicCounts keeps exactly one counter triple per topic the author has
	// been classified under, keyed by topic id.
	TopicCounts map[string]CategoryCounts

	FirstSeen time.Time
	LastSeen  time.Time
}
