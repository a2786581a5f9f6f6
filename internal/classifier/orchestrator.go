// Package classifier maps candidates to bias classifications through the
// Gemini API, under a shared rate limit with bounded retry.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/ratelimit"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// Generator produces raw model text for a prompt. Implemented by GeminiClient;
// faked in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// failureKind drives the retry schedule.
type failureKind int

const (
	failureQuota failureKind = iota // 429 / quota wording: exponential backoff with jitter
	failureParse                    // malformed payload: flat wait
	failureOther                    // anything else: retry without delay
)

// Orchestrator runs the bounded retry state machine around the classifier
// call. It never fails past its boundary: exhausted retries degrade to a
// neutral zero-confidence fallback result.
type Orchestrator struct {
	gen     Generator
	limiter *ratelimit.Limiter

	maxAttempts int
	baseDelay   time.Duration

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

func NewOrchestrator(gen Generator, limiter *ratelimit.Limiter, maxAttempts int, baseDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		gen:         gen,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepCtx,
		jitter:      func() time.Duration { return time.Duration(rand.Int63n(int64(5 * time.Second))) },
	}
}

// Classify sends the candidate to the model and returns a validated,
// normalized result. All calls across all topics share the limiter gate.
func (o *Orchestrator) Classify(ctx context.Context, topic registry.TopicConfig, c domain.Candidate) domain.ClassificationResult {
	prompt := buildPrompt(topic, c)

	var kind failureKind
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if attempt > 1 {
			if delay := o.retryDelay(kind, attempt-1); delay > 0 {
				logger.Info("classification retry", "headline", snippet(c.Headline), "attempt", attempt, "wait", delay)
				if err := o.sleep(ctx, delay); err != nil {
					break
				}
			}
		}

		var raw string
		err := o.limiter.Do(ctx, func() error {
			var genErr error
			raw, genErr = o.gen.Generate(ctx, prompt)
			return genErr
		})
		if err != nil {
			kind = classifyError(err)
			logger.Warn("classifier call failed", "headline", snippet(c.Headline), "attempt", attempt, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, err := parseResult(raw)
		if err != nil {
			kind = failureParse
			logger.Warn("classifier response unparseable", "headline", snippet(c.Headline), "attempt", attempt, "error", err)
			continue
		}

		logger.Info("article classified", "headline", snippet(c.Headline), "category", result.Category, "confidence", result.Confidence)
		return result
	}

	logger.Error("classification exhausted all attempts", "headline", snippet(c.Headline))
	return o.fallback()
}

// retryDelay returns the wait before the next attempt, given the kind of the
// failure on the attempt that just failed (1-based).
func (o *Orchestrator) retryDelay(kind failureKind, failedAttempt int) time.Duration {
	switch kind {
	case failureQuota:
		return o.baseDelay*time.Duration(1<<(failedAttempt-1)) + o.jitter()
	case failureParse:
		return o.baseDelay
	default:
		return 0
	}
}

// fallback is the degraded result returned when every attempt failed.
func (o *Orchestrator) fallback() domain.ClassificationResult {
	return domain.ClassificationResult{
		Category:      domain.CategoryNeutral,
		Confidence:    0.0,
		MainReasons:   []string{fmt.Sprintf("Analysis failed after %d attempts - likely rate limited", o.maxAttempts)},
		KeyIndicators: []string{domain.IndicatorClassificationFailed},
	}
}

func classifyError(err error) failureKind {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "429") || strings.Contains(lower, "quota"):
		return failureQuota
	case strings.Contains(lower, "json"):
		return failureParse
	default:
		return failureOther
	}
}

// parseResult validates the raw model output into a tagged record. All four
// fields are required; confidence is clamped into [0,1].
func parseResult(raw string) (domain.ClassificationResult, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return domain.ClassificationResult{}, fmt.Errorf("empty response")
	}

	var payload struct {
		Category      *string  `json:"category"`
		Confidence    *float64 `json:"confidence"`
		MainReasons   []string `json:"main_reasons"`
		KeyIndicators []string `json:"key_indicators"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("invalid json payload: %w", err)
	}

	switch {
	case payload.Category == nil:
		return domain.ClassificationResult{}, fmt.Errorf("missing required field: category")
	case payload.Confidence == nil:
		return domain.ClassificationResult{}, fmt.Errorf("missing required field: confidence")
	case payload.MainReasons == nil:
		return domain.ClassificationResult{}, fmt.Errorf("missing required field: main_reasons")
	case payload.KeyIndicators == nil:
		return domain.ClassificationResult{}, fmt.Errorf("missing required field: key_indicators")
	}

	return domain.ClassificationResult{
		Category:      *payload.Category,
		Confidence:    clamp(*payload.Confidence, 0.0, 1.0),
		MainReasons:   payload.MainReasons,
		KeyIndicators: payload.KeyIndicators,
	}, nil
}

// stripFences removes optional markdown code-fence wrapping around the JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```", "")
	} else if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
