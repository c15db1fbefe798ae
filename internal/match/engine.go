package match

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/ai"
	"github.com/winkovo0818/boss-copilot/internal/cache"
	"github.com/winkovo0818/boss-copilot/internal/job"
	"github.com/winkovo0818/boss-copilot/internal/privacy"
)

//go:embed score_prompt.md
var scorePromptTemplate string

var (
	ErrMissingJob    = errors.New("no job posting to analyze")
	ErrMissingResume = errors.New("no resume content to analyze")
)

var scoreCallOptions = ai.CallOptions{Temperature: 0.3, MaxTokens: 2000}

// completer is the slice of the AI gateway the engine needs.
type completer interface {
	Complete(ctx context.Context, prompt string, opts ai.CallOptions) (string, error)
}

// Engine runs the analysis pipeline: cache, redaction, AI call, fallback.
type Engine struct {
	completer completer
	cache     *cache.Cache
	logger    *zap.Logger
}

// NewEngine builds an Engine. A nil completer means the AI path is
// unconfigured; Analyze then goes straight to the local scorer.
func NewEngine(c completer, cch *cache.Cache, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{completer: c, cache: cch, logger: log}
}

// Analyze scores the resume against the posting. Within the cache TTL window
// a given (posting, resume) pair triggers at most one AI call; on AI failure
// the local heuristic scorer guarantees a verdict. Only missing inputs error.
func (e *Engine) Analyze(ctx context.Context, posting *job.Posting, resumeContent string) (*Verdict, error) {
	if posting == nil || strings.TrimSpace(posting.Title)+strings.TrimSpace(posting.Description) == "" {
		return nil, ErrMissingJob
	}

	resumeContent = strings.TrimSpace(resumeContent)
	if resumeContent == "" {
		return nil, ErrMissingResume
	}

	fingerprint := cache.Fingerprint(posting, resumeContent)

	if cached := e.fromCache(ctx, fingerprint); cached != nil {
		return cached, nil
	}

	// Redaction sits before any egress; the provider never sees raw
	// contact, ID or financial data.
	sanitized := privacy.Sanitize(resumeContent)
	if sanitized.Modified() {
		e.logger.Info("redacted resume before ai call",
			zap.Strings("kinds", privacy.KindNames(sanitized.Redacted)))
	}

	if e.completer == nil {
		e.logger.Warn("ai service not configured, falling back to local scoring")
		return LocalScore(posting, sanitized.Text), nil
	}

	verdict, err := e.scoreWithAI(ctx, posting, sanitized.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		e.logger.Warn("ai scoring failed, falling back to local scoring", zap.Error(err))
		return LocalScore(posting, sanitized.Text), nil
	}

	e.storeInCache(ctx, fingerprint, verdict)

	return verdict, nil
}

func (e *Engine) scoreWithAI(ctx context.Context, posting *job.Posting, resumeContent string) (*Verdict, error) {
	prompt := buildScorePrompt(posting, resumeContent)

	raw, err := e.completer.Complete(ctx, prompt, scoreCallOptions)
	if err != nil {
		return nil, err
	}

	assessment, err := ai.ParseAssessment(raw)
	if err != nil {
		return nil, err
	}

	return &Verdict{
		Score:     assessment.Score,
		Tier:      tierForScore(assessment.Score),
		Strengths: assessment.Strengths,
		Gaps:      assessment.Gaps,
		Summary:   summaryForScore(assessment.Score),
		Source:    SourceAI,
	}, nil
}

func (e *Engine) fromCache(ctx context.Context, fingerprint string) *Verdict {
	if e.cache == nil {
		return nil
	}

	payload, ok, err := e.cache.Lookup(ctx, fingerprint)
	if err != nil {
		e.logger.Warn("cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var verdict Verdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		e.logger.Warn("discarding undecodable cached verdict", zap.Error(err))
		return nil
	}

	e.logger.Debug("serving cached verdict", zap.String("fingerprint", fingerprint))
	verdict.Source = SourceCache

	return &verdict
}

// StoreInCache persists AI verdicts only; local fallback verdicts carry
// degraded confidence and must not be served for the next hour.
func (e *Engine) storeInCache(ctx context.Context, fingerprint string, verdict *Verdict) {
	if e.cache == nil {
		return
	}

	payload, err := json.Marshal(verdict)
	if err != nil {
		e.logger.Warn("cannot encode verdict for caching", zap.Error(err))
		return
	}

	if err := e.cache.Store(ctx, fingerprint, payload); err != nil {
		e.logger.Warn("cache write failed", zap.Error(err))
	}
}

func buildScorePrompt(posting *job.Posting, resumeContent string) string {
	prompt := strings.ReplaceAll(scorePromptTemplate, "{{JOB_TITLE}}", posting.Title)
	prompt = strings.ReplaceAll(prompt, "{{JOB_COMPANY}}", posting.Company)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", posting.Description)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_CONTENT}}", resumeContent)

	return prompt
}
