// Package greeting builds the three-style outreach message for a job the
// user decided to apply to. The AI path produces all styles in one call; on
// any failure short of a missing configuration it degrades to fixed
// templates so the user always gets something to send.
package greeting

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/ai"
	"github.com/winkovo0818/boss-copilot/internal/job"
	"github.com/winkovo0818/boss-copilot/internal/match"
	"github.com/winkovo0818/boss-copilot/internal/privacy"
)

//go:embed greeting_prompt.md
var greetingPromptTemplate string

var greetingCallOptions = ai.CallOptions{Temperature: 0.7, MaxTokens: 5000}

// Style selects one of the three greeting registers.
type Style string

const (
	StyleCasual   Style = "casual"
	StyleFormal   Style = "formal"
	StyleCreative Style = "creative"
)

// Styles lists the supported styles in display order.
var Styles = []Style{StyleCasual, StyleFormal, StyleCreative}

// Set holds one greeting per style. All three are generated in a single
// call so their facts stay consistent.
type Set struct {
	Casual   string `json:"casual"`
	Formal   string `json:"formal"`
	Creative string `json:"creative"`
}

// ByStyle returns the greeting for the style, or ok=false for an unknown
// style.
func (s *Set) ByStyle(style Style) (string, bool) {
	switch style {
	case StyleCasual:
		return s.Casual, true
	case StyleFormal:
		return s.Formal, true
	case StyleCreative:
		return s.Creative, true
	default:
		return "", false
	}
}

func (s *Set) complete() bool {
	return strings.TrimSpace(s.Casual) != "" &&
		strings.TrimSpace(s.Formal) != "" &&
		strings.TrimSpace(s.Creative) != ""
}

type completer interface {
	Complete(ctx context.Context, prompt string, opts ai.CallOptions) (string, error)
}

// Generator produces greeting sets.
type Generator struct {
	completer completer
	logger    *zap.Logger
}

// NewGenerator builds a Generator. A nil completer means the AI service is
// unconfigured; unlike scoring there is no meaningful heuristic substitute,
// so GenerateAll reports that instead of silently templating.
func NewGenerator(c completer, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{completer: c, logger: log}
}

// GenerateAll produces all three greeting styles for the posting. Transient
// AI failures and malformed responses degrade to the fixed templates; only a
// missing configuration is surfaced as an error.
func (g *Generator) GenerateAll(ctx context.Context, posting *job.Posting, resumeContent string, verdict *match.Verdict) (*Set, error) {
	if posting == nil {
		return nil, match.ErrMissingJob
	}

	if g.completer == nil {
		return nil, ai.ErrNotConfigured
	}

	sanitized := privacy.Sanitize(resumeContent)
	if sanitized.Modified() {
		g.logger.Info("redacted resume before greeting call",
			zap.Strings("kinds", privacy.KindNames(sanitized.Redacted)))
	}

	prompt := buildGreetingPrompt(posting, sanitized.Text, verdict)

	raw, err := g.completer.Complete(ctx, prompt, greetingCallOptions)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		g.logger.Warn("greeting call failed, using templates", zap.Error(err))
		return fallbackSet(posting), nil
	}

	set, err := parseSet(raw)
	if err != nil {
		g.logger.Warn("greeting response unparseable, using templates", zap.Error(err))
		return fallbackSet(posting), nil
	}

	return set, nil
}

// Generate produces the greeting for one style.
func (g *Generator) Generate(ctx context.Context, posting *job.Posting, resumeContent string, verdict *match.Verdict, style Style) (string, error) {
	set, err := g.GenerateAll(ctx, posting, resumeContent, verdict)
	if err != nil {
		return "", err
	}

	text, ok := set.ByStyle(style)
	if !ok {
		return "", fmt.Errorf("unknown greeting style %q", style)
	}

	return text, nil
}

func parseSet(raw string) (*Set, error) {
	var set Set
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &set); err != nil {
		return nil, err
	}

	set.Casual = strings.TrimSpace(set.Casual)
	set.Formal = strings.TrimSpace(set.Formal)
	set.Creative = strings.TrimSpace(set.Creative)

	if !set.complete() {
		return nil, fmt.Errorf("response is missing one or more styles")
	}

	return &set, nil
}

func buildGreetingPrompt(posting *job.Posting, resumeContent string, verdict *match.Verdict) string {
	strengths := "相关工作经验"
	gaps := "无"
	if verdict != nil {
		if len(verdict.Strengths) > 0 {
			listed := verdict.Strengths
			if len(listed) > 3 {
				listed = listed[:3]
			}
			strengths = "- " + strings.Join(listed, "\n- ")
		}
		if len(verdict.Gaps) > 0 {
			var lines []string
			for i, gap := range verdict.Gaps {
				lines = append(lines, fmt.Sprintf("  %d. %s", i+1, gap))
			}
			gaps = strings.Join(lines, "\n")
		}
	}

	prompt := strings.ReplaceAll(greetingPromptTemplate, "{{JOB_TITLE}}", posting.Title)
	prompt = strings.ReplaceAll(prompt, "{{JOB_COMPANY}}", posting.Company)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", posting.Description)
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", strengths)
	prompt = strings.ReplaceAll(prompt, "{{GAPS}}", gaps)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_CONTENT}}", resumeContent)

	return prompt
}

func fallbackSet(posting *job.Posting) *Set {
	skills := "相关领域"
	if len(posting.Skills) > 0 {
		listed := posting.Skills
		if len(listed) > 3 {
			listed = listed[:3]
		}
		skills = strings.Join(listed, "、")
	}

	return &Set{
		Casual:   fmt.Sprintf("你好！看到贵公司在招聘%s，我有%s方面的经验，和岗位要求比较匹配，希望能和您聊聊这个机会。", posting.Title, skills),
		Formal:   fmt.Sprintf("尊敬的HR，您好！我对贵公司的%s职位很感兴趣，具备%s等相关技能与经验，期待能有机会进一步沟通。", posting.Title, skills),
		Creative: fmt.Sprintf("您好！注意到%s这个岗位，%s正是我的主力方向，相信能快速上手，期待与您交流。", posting.Title, skills),
	}
}
