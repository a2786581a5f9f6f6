// Package server exposes the HTTP surface: analysis triggers, topic reads,
// health and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/metrics"
	"github.com/devpouya/swiss-media-bias-tracker/internal/pipeline"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

const defaultTopicID = "swiss-politics"
const defaultArticleLimit = 50

// Runner starts an analysis job; the server fires it in the background and
// acknowledges immediately.
type Runner interface {
	Run(ctx context.Context, job pipeline.Job)
}

// Reader is the storage surface the read endpoints need.
type Reader interface {
	Topic(ctx context.Context, id string) (*domain.Topic, error)
	Topics(ctx context.Context) ([]domain.Topic, error)
	ArticlesFiltered(ctx context.Context, topicID, category string, limit int) ([]domain.Article, error)
}

type Server struct {
	registry *registry.Registry
	reader   Reader
	runner   Runner
	router   *mux.Router
}

func New(reg *registry.Registry, reader Reader, runner Runner) *Server {
	s := &Server{
		registry: reg,
		reader:   reader,
		runner:   runner,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/admin/trigger-analysis", s.handleTrigger).Methods(http.MethodPost)
	s.router.HandleFunc("/api/topics", s.handleTopics).Methods(http.MethodGet)
	s.router.HandleFunc("/api/topic/{topic_id}", s.handleTopic).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type triggerRequest struct {
	TopicID   string `json:"topic_id"`
	DaysBack  int    `json:"days_back"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// handleTrigger validates the request, kicks off the job in the background and
// acknowledges. Job failures are absorbed by the pipeline and never reach this
// caller.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if r.Body != nil {
		// An empty body means run with defaults.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	if req.TopicID == "" {
		req.TopicID = defaultTopicID
	}
	if req.DaysBack <= 0 {
		req.DaysBack = 7
	}
	if _, ok := s.registry.Topic(req.TopicID); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown topic: %s", req.TopicID))
		return
	}

	job := pipeline.Job{
		TopicID:   req.TopicID,
		DaysBack:  req.DaysBack,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	// Detached context: the job must outlive this request.
	go s.runner.Run(context.Background(), job)

	logger.Info("analysis triggered", "topic", job.TopicID, "days_back", job.DaysBack)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "analysis_started",
		"topic_id":   job.TopicID,
		"days_back":  job.DaysBack,
		"start_date": job.StartDate,
		"end_date":   job.EndDate,
		"message":    "Analysis running in background. Results will appear as articles are processed.",
	})
}

type topicResponse struct {
	TopicID       string                  `json:"topic_id"`
	DisplayName   string                  `json:"display_name"`
	Categories    []string                `json:"categories"`
	TotalArticles int                     `json:"total_articles"`
	Distribution  domain.BiasDistribution `json:"bias_distribution"`
	LastProcessed string                  `json:"last_processed,omitempty"`
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	stored, err := s.reader.Topics(r.Context())
	if err != nil {
		logger.Error("failed to list topics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load topics")
		return
	}
	byID := make(map[string]domain.Topic, len(stored))
	for _, t := range stored {
		byID[t.ID] = t
	}

	// Every configured topic is listed, with zeroes before its first run.
	out := make([]topicResponse, 0, len(s.registry.Topics()))
	for _, cfg := range s.registry.Topics() {
		resp := topicResponse{
			TopicID:     cfg.ID,
			DisplayName: cfg.DisplayName,
			Categories:  cfg.Categories(),
		}
		if t, ok := byID[cfg.ID]; ok {
			resp.TotalArticles = t.TotalArticles
			resp.Distribution = t.Distribution
			if !t.LastProcessed.IsZero() {
				resp.LastProcessed = t.LastProcessed.Format(time.RFC3339)
			}
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": out})
}

type articleResponse struct {
	ID           string    `json:"id"`
	Headline     string    `json:"headline"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	AuthorByline string    `json:"author_byline,omitempty"`
	Published    time.Time `json:"published"`
	Category     string    `json:"bias_category"`
	Confidence   float64   `json:"confidence"`
	MainReasons  []string  `json:"main_reasons,omitempty"`
	Status       string    `json:"status"`
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	topicID := mux.Vars(r)["topic_id"]
	cfg, ok := s.registry.Topic(topicID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown topic: %s", topicID))
		return
	}

	category := r.URL.Query().Get("category")
	if category != "" && !cfg.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid category %q for topic %s", category, topicID))
		return
	}

	limit := defaultArticleLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	articles, err := s.reader.ArticlesFiltered(r.Context(), topicID, category, limit)
	if err != nil {
		logger.Error("failed to load topic articles", "topic", topicID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load articles")
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleResponse{
			ID:           a.ID,
			Headline:     a.Headline,
			URL:          a.URL,
			Source:       a.Source,
			AuthorByline: a.AuthorByline,
			Published:    a.Published,
			Category:     a.BiasCategory,
			Confidence:   a.Confidence,
			MainReasons:  a.AnalysisReasons,
			Status:       string(a.Status),
		})
	}

	resp := map[string]interface{}{
		"topic_id":     cfg.ID,
		"display_name": cfg.DisplayName,
		"categories":   cfg.Categories(),
		"articles":     out,
	}
	if t, err := s.reader.Topic(r.Context(), topicID); err == nil && t != nil {
		resp["total_articles"] = t.TotalArticles
		resp["bias_distribution"] = t.Distribution
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()
	status := "healthy"
	code := http.StatusOK
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status":         status,
		"jobs_completed": stats["jobs_completed"],
		"last_run_time":  stats["last_run_time"],
		"last_error":     stats["last_error"],
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Global.GetStats())
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
