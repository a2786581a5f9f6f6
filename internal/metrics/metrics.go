package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	CandidatesCollected     int64
	DuplicatesFiltered      int64
	IrrelevantFiltered      int64
	ArticlesClassified      int64
	ClassificationFallbacks int64
	ArticlesPersisted       int64
	AuthorsResolved         int64
	JobsCompleted           int64

	// Timings
	LastJobDuration    time.Duration
	TotalJobDuration   time.Duration
	AverageJobDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddCandidatesCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesCollected += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) AddIrrelevantFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IrrelevantFiltered += int64(n)
}

func (m *Metrics) IncrementArticlesClassified() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesClassified++
}

func (m *Metrics) IncrementClassificationFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassificationFallbacks++
}

func (m *Metrics) AddArticlesPersisted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesPersisted += int64(n)
}

func (m *Metrics) IncrementAuthorsResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthorsResolved++
}

func (m *Metrics) RecordJob(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JobsCompleted++
	m.LastJobDuration = duration
	m.TotalJobDuration += duration
	m.AverageJobDuration = m.TotalJobDuration / time.Duration(m.JobsCompleted)
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"candidates_collected":     m.CandidatesCollected,
		"duplicates_filtered":      m.DuplicatesFiltered,
		"irrelevant_filtered":      m.IrrelevantFiltered,
		"articles_classified":      m.ArticlesClassified,
		"classification_fallbacks": m.ClassificationFallbacks,
		"articles_persisted":       m.ArticlesPersisted,
		"authors_resolved":         m.AuthorsResolved,
		"jobs_completed":           m.JobsCompleted,
		"last_job_duration_ms":     m.LastJobDuration.Milliseconds(),
		"average_job_duration_ms":  m.AverageJobDuration.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
