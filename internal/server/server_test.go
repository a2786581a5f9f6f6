package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/pipeline"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

type fakeRunner struct {
	mu   sync.Mutex
	jobs []pipeline.Job
	done chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{done: make(chan struct{}, 1)}
}

func (r *fakeRunner) Run(ctx context.Context, job pipeline.Job) {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	r.done <- struct{}{}
}

type fakeReader struct {
	topics   []domain.Topic
	articles []domain.Article
}

func (r *fakeReader) Topic(ctx context.Context, id string) (*domain.Topic, error) {
	for _, t := range r.topics {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeReader) Topics(ctx context.Context) ([]domain.Topic, error) {
	return r.topics, nil
}

func (r *fakeReader) ArticlesFiltered(ctx context.Context, topicID, category string, limit int) ([]domain.Article, error) {
	var out []domain.Article
	for _, a := range r.articles {
		if a.TopicID != topicID {
			continue
		}
		if category != "" && a.BiasCategory != category {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func testRegistry() *registry.Registry {
	return registry.New([]registry.TopicConfig{{
		ID:          "swiss-politics",
		DisplayName: "Swiss Politics",
		Keywords:    map[string][]string{"de": {"bundesrat"}},
		SideA:       "left_center",
		SideB:       "right_center",
	}}, []registry.SourceConfig{{ID: "srf", Name: "SRF News"}})
}

func newTestServer(reader *fakeReader, runner *fakeRunner) *Server {
	return New(testRegistry(), reader, runner)
}

func waitForJob(t *testing.T, runner *fakeRunner) pipeline.Job {
	t.Helper()
	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("background job never started")
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	return runner.jobs[len(runner.jobs)-1]
}

func TestTrigger_AcknowledgesAndRunsInBackground(t *testing.T) {
	runner := newFakeRunner()
	srv := newTestServer(&fakeReader{}, runner)

	body := `{"topic_id":"swiss-politics","days_back":14}`
	req := httptest.NewRequest(http.MethodPost, "/admin/trigger-analysis", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["status"] != "analysis_started" {
		t.Errorf("status field = %v", resp["status"])
	}
	if resp["topic_id"] != "swiss-politics" {
		t.Errorf("topic_id field = %v", resp["topic_id"])
	}

	job := waitForJob(t, runner)
	if job.TopicID != "swiss-politics" || job.DaysBack != 14 {
		t.Errorf("job = %+v", job)
	}
}

func TestTrigger_DefaultsApply(t *testing.T) {
	runner := newFakeRunner()
	srv := newTestServer(&fakeReader{}, runner)

	req := httptest.NewRequest(http.MethodPost, "/admin/trigger-analysis", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	job := waitForJob(t, runner)
	if job.TopicID != "swiss-politics" || job.DaysBack != 7 {
		t.Errorf("defaults not applied: %+v", job)
	}
}

func TestTrigger_UnknownTopicRejected(t *testing.T) {
	runner := newFakeRunner()
	srv := newTestServer(&fakeReader{}, runner)

	req := httptest.NewRequest(http.MethodPost, "/admin/trigger-analysis",
		strings.NewReader(`{"topic_id":"nope"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.jobs) != 0 {
		t.Errorf("no job should run for an unknown topic")
	}
}

func TestTrigger_CustomDateRangePassedThrough(t *testing.T) {
	runner := newFakeRunner()
	srv := newTestServer(&fakeReader{}, runner)

	body := `{"topic_id":"swiss-politics","start_date":"21.7.25","end_date":"31.7.25"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/trigger-analysis", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	job := waitForJob(t, runner)
	if job.StartDate != "21.7.25" || job.EndDate != "31.7.25" {
		t.Errorf("date range lost: %+v", job)
	}
}

func TestTopics_ListsConfiguredTopicsWithStoredStats(t *testing.T) {
	reader := &fakeReader{topics: []domain.Topic{{
		ID:            "swiss-politics",
		DisplayName:   "Swiss Politics",
		TotalArticles: 12,
		Distribution:  domain.BiasDistribution{SideA: 5, Neutral: 4, SideB: 3},
	}}}
	srv := newTestServer(reader, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Topics []topicResponse `json:"topics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Topics) != 1 {
		t.Fatalf("got %d topics, want 1", len(resp.Topics))
	}
	if resp.Topics[0].TotalArticles != 12 || resp.Topics[0].Distribution.SideA != 5 {
		t.Errorf("stored stats not merged: %+v", resp.Topics[0])
	}
}

func TestTopic_InvalidCategoryRejected(t *testing.T) {
	srv := newTestServer(&fakeReader{}, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/topic/swiss-politics?category=pro_eu", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTopic_FiltersByCategory(t *testing.T) {
	reader := &fakeReader{articles: []domain.Article{
		{TopicID: "swiss-politics", BiasCategory: "left_center", Headline: "a"},
		{TopicID: "swiss-politics", BiasCategory: "neutral", Headline: "b"},
	}}
	srv := newTestServer(reader, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/topic/swiss-politics?category=left_center", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Articles []articleResponse `json:"articles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].Category != "left_center" {
		t.Errorf("filter not applied: %+v", resp.Articles)
	}
}

func TestTopic_InvalidLimitRejected(t *testing.T) {
	srv := newTestServer(&fakeReader{}, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/topic/swiss-politics?limit=zero", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTopic_UnknownTopicIs404(t *testing.T) {
	srv := newTestServer(&fakeReader{}, newFakeRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/topic/no-such-topic", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(&fakeReader{}, newFakeRunner())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s content type = %q", path, ct)
		}
	}
}
