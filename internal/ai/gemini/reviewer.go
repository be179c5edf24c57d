package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/hireloop/shortlister/internal/ai"
	"github.com/hireloop/shortlister/internal/logger"
	"github.com/hireloop/shortlister/internal/retry"
)

//go:embed review_prompt.md
var reviewPromptTemplate string

//go:embed enrichment_prompt.md
var enrichmentPromptTemplate string

const (
	defaultMaxLogLength = 200
	profilePlaceholder  = "{{PROFILE_JSON}}"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Reviewer asks Gemini for narrative evaluations of canonical profiles.
type Reviewer struct {
	generator contentGenerator
	retry     retry.Config
	logger    *zap.Logger
	maxLogLen int
}

// NewReviewer wires a generator into the retry schedule. maxRetries and
// maxLogLength fall back to their defaults when non-positive.
func NewReviewer(generator contentGenerator, maxRetries, maxLogLength int, log *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}
	log = logger.WithCommonFields(log, "gemini", model)

	return &Reviewer{
		generator: generator,
		retry:     retry.Config{MaxAttempts: maxRetries, Logger: log},
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Review evaluates the profile. It never fails: once the retry schedule is
// exhausted the fixed failure review is returned instead, carrying the
// reserved zero score.
func (r *Reviewer) Review(ctx context.Context, profileJSON string) *ai.Review {
	raw, err := r.generate(ctx, buildPrompt(reviewPromptTemplate, profileJSON))
	if err != nil {
		return fallbackReview()
	}

	return parseReview(raw)
}

// Suggest asks for profile enrichment ideas: skills worth adding and project
// types worth pursuing. Unlike Review it propagates failures.
func (r *Reviewer) Suggest(ctx context.Context, profileJSON string) (*ai.Enrichment, error) {
	raw, err := r.generate(ctx, buildPrompt(enrichmentPromptTemplate, profileJSON))
	if err != nil {
		return nil, err
	}

	return parseEnrichment(raw), nil
}

func (r *Reviewer) generate(ctx context.Context, prompt string) (string, error) {
	r.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := retry.DoVal(ctx, r.retry, func(ctx context.Context) (string, error) {
		return r.generator.GenerateContent(ctx, prompt)
	})
	if err != nil {
		return "", err
	}

	r.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	return raw, nil
}

// fallbackReview is the fixed result for an evaluation that could not be
// performed at all.
func fallbackReview() *ai.Review {
	return &ai.Review{
		Summary:   "LLM evaluation failed",
		Score:     0,
		Issues:    "API error",
		FollowUps: "Retry evaluation",
	}
}

func buildPrompt(template, profileJSON string) string {
	return strings.ReplaceAll(template, profilePlaceholder, profileJSON)
}
