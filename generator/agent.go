package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"story_engine/story"
)

// Sampling settings of the two passes: a creative draft, then a steadier edit.
var (
	DraftParams  = Params{Temperature: 0.85, MaxTokens: 1600}
	PolishParams = Params{Temperature: 0.6, MaxTokens: 1600}
)

const defaultCallTimeout = 60 * time.Second

// Agent drives the draft-then-judge pipeline. It holds no per-request state
// and is safe for concurrent use.
type Agent struct {
	llm         LLMClient
	catalog     *story.Catalog
	prompts     *PromptBuilder
	rng         story.RandomSource
	log         *zap.Logger
	inspiration bool
	callTimeout time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

// Option configures an Agent.
type Option func(*Agent)

func WithCatalog(c *story.Catalog) Option { return func(a *Agent) { a.catalog = c } }

// WithInspiration selects whether prompts name the inspiration sites.
func WithInspiration(on bool) Option { return func(a *Agent) { a.inspiration = on } }

// WithRandom injects the random source used for category fallback and
// technique shuffling.
func WithRandom(rng story.RandomSource) Option { return func(a *Agent) { a.rng = rng } }

func WithLogger(l *zap.Logger) Option { return func(a *Agent) { a.log = l } }

// WithCallTimeout bounds every single model call.
func WithCallTimeout(d time.Duration) Option { return func(a *Agent) { a.callTimeout = d } }

// WithRetry allows up to maxAttempts tries per model call for retryable
// failures, waiting delay*n before try n+1.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(a *Agent) {
		a.maxAttempts = maxAttempts
		a.retryDelay = delay
	}
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:         llm,
		catalog:     story.Default(),
		rng:         story.DefaultRandom(),
		log:         zap.NewNop(),
		callTimeout: defaultCallTimeout,
		maxAttempts: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxAttempts < 1 {
		a.maxAttempts = 1
	}
	a.prompts = NewPromptBuilder(a.catalog, a.inspiration, a.rng)
	return a, nil
}

// Categories returns the public category labels.
func (a *Agent) Categories() []string {
	return a.catalog.Labels()
}

// Generate writes a fresh story: draft with the storyteller prompt, then
// polish the draft with the judge prompt.
func (a *Agent) Generate(ctx context.Context, req StoryRequest) (Result, error) {
	category := a.catalog.ResolveCategory(req.Category, req.Prompt, a.rng)
	bracket := req.bracket()

	draft, err := a.call(ctx, StageDraft, a.prompts.StorytellerPrompt(req.Prompt, category, bracket), DraftParams)
	if err != nil {
		return Result{}, err
	}
	polished, err := a.call(ctx, StageJudge, a.prompts.JudgePrompt(draft, ""), PolishParams)
	if err != nil {
		return Result{}, err
	}

	metricCategory := "custom"
	if _, ok := a.catalog.Lookup(category); ok {
		metricCategory = category
	}
	storiesTotal.WithLabelValues(metricCategory).Inc()

	words := story.WordCount(polished)
	a.log.Info("story generated",
		zap.String("category", category),
		zap.String("age_bracket", string(bracket)),
		zap.Int("draft_words", story.WordCount(draft)),
		zap.Int("words", words),
	)
	return Result{
		Story:      polished,
		Category:   category,
		AgeBracket: bracket,
		WordCount:  words,
	}, nil
}

// Revise edits an existing story with the judge prompt plus feedback.
func (a *Agent) Revise(ctx context.Context, storyText, feedback string) (string, error) {
	if strings.TrimSpace(storyText) == "" {
		return "", fmt.Errorf("%w: story is required", ErrInvalidInput)
	}
	revised, err := a.call(ctx, StageRevise, a.prompts.JudgePrompt(storyText, feedback), PolishParams)
	if err != nil {
		return "", err
	}
	a.log.Info("story revised",
		zap.Bool("feedback", strings.TrimSpace(feedback) != ""),
		zap.Int("words", story.WordCount(revised)),
	)
	return revised, nil
}

func (a *Agent) call(ctx context.Context, stage Stage, prompt Prompt, params Params) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", &GenerationError{Stage: stage, Attempts: attempt - 1, Err: lastErr}
			case <-time.After(a.retryDelay * time.Duration(attempt-1)):
			}
		}

		text, err := a.callOnce(ctx, stage, prompt, params)
		if err == nil {
			return text, nil
		}
		lastErr = err
		a.log.Warn("model call failed",
			zap.String("stage", string(stage)),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxAttempts),
			zap.Bool("retryable", IsRetryable(err)),
			zap.Error(err),
		)
		if !IsRetryable(err) || ctx.Err() != nil {
			return "", &GenerationError{Stage: stage, Attempts: attempt, Err: err}
		}
	}
	return "", &GenerationError{Stage: stage, Attempts: a.maxAttempts, Err: lastErr}
}

func (a *Agent) callOnce(ctx context.Context, stage Stage, prompt Prompt, params Params) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	start := time.Now()
	raw, err := a.llm.Complete(callCtx, prompt, params)
	llmRequestDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
	if err != nil {
		llmRequestsTotal.WithLabelValues(string(stage), "error").Inc()
		var ue *UpstreamError
		if !errors.As(err, &ue) && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = &UpstreamError{Provider: "llm", Retryable: true, Err: err}
		}
		return "", err
	}

	text, err := PostProcess(raw)
	if err != nil {
		llmRequestsTotal.WithLabelValues(string(stage), "empty").Inc()
		return "", &UpstreamError{Provider: "llm", Err: err}
	}
	llmRequestsTotal.WithLabelValues(string(stage), "success").Inc()
	storyWords.WithLabelValues(string(stage)).Observe(float64(story.WordCount(text)))
	return text, nil
}
