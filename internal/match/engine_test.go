package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/ai"
	"github.com/winkovo0818/boss-copilot/internal/cache"
	"github.com/winkovo0818/boss-copilot/internal/job"
	"github.com/winkovo0818/boss-copilot/internal/store"
)

type stubCompleter struct {
	calls    int
	prompts  []string
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ ai.CallOptions) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func testEngine(c completer) *Engine {
	return NewEngine(c, cache.New(store.NewMemory(), cache.DefaultTTL, zap.NewNop()), zap.NewNop())
}

func analyzePosting() *job.Posting {
	return &job.Posting{
		Title:       "数据分析师",
		Company:     "某电商公司",
		Description: "负责业务数据分析，要求3年经验，熟悉Python、SQL、Tableau。",
		Skills:      []string{"Python", "SQL", "Tableau"},
	}
}

const analyzeResume = "五年数据分析经验，精通Python和SQL，主导过电商用户增长分析项目。"

func TestAnalyzeMissingInputs(t *testing.T) {
	e := testEngine(&stubCompleter{})

	if _, err := e.Analyze(context.Background(), nil, analyzeResume); !errors.Is(err, ErrMissingJob) {
		t.Fatalf("expected ErrMissingJob, got %v", err)
	}

	if _, err := e.Analyze(context.Background(), analyzePosting(), "   "); !errors.Is(err, ErrMissingResume) {
		t.Fatalf("expected ErrMissingResume, got %v", err)
	}
}

func TestAnalyzeAISuccess(t *testing.T) {
	spy := &stubCompleter{response: `{"score": 88, "strengths": ["数据分析经验丰富"], "gaps": ["缺少Tableau经验"]}`}
	e := testEngine(spy)

	verdict, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Score != 88 || verdict.Tier != TierHighlyRecommend || verdict.Source != SourceAI {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}

	if verdict.Summary != "您的简历与该岗位高度匹配，强烈建议投递！" {
		t.Fatalf("unexpected summary: %s", verdict.Summary)
	}
}

func TestAnalyzeCacheHitSkipsAI(t *testing.T) {
	spy := &stubCompleter{response: `{"score": 75, "strengths": [], "gaps": []}`}
	e := testEngine(spy)

	first, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spy.calls != 1 {
		t.Fatalf("cache hit must not trigger a second ai call, got %d calls", spy.calls)
	}

	if second.Score != first.Score || second.Source != SourceCache {
		t.Fatalf("unexpected cached verdict: %+v", second)
	}
}

func TestAnalyzeFallbackOnAIFailure(t *testing.T) {
	spy := &stubCompleter{err: errors.New("connection refused")}
	e := testEngine(spy)

	verdict, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume)
	if err != nil {
		t.Fatalf("analyze must resolve on ai failure, got %v", err)
	}

	if verdict.Source != SourceLocal {
		t.Fatalf("expected local fallback verdict, got %+v", verdict)
	}
}

func TestAnalyzeFallbackIsNotCached(t *testing.T) {
	spy := &stubCompleter{err: errors.New("timeout")}
	e := testEngine(spy)

	if _, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spy.calls != 2 {
		t.Fatalf("degraded verdicts must not be cached, got %d calls", spy.calls)
	}
}

func TestAnalyzeUnconfiguredUsesLocalScorer(t *testing.T) {
	e := testEngine(nil)

	verdict, err := e.Analyze(context.Background(), analyzePosting(), analyzeResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Source != SourceLocal {
		t.Fatalf("expected local verdict without configuration, got %+v", verdict)
	}
}

func TestAnalyzeRedactsResumeBeforeEgress(t *testing.T) {
	spy := &stubCompleter{response: `{"score": 60, "strengths": [], "gaps": []}`}
	e := testEngine(spy)

	resume := analyzeResume + "联系电话13812345678"
	if _, err := e.Analyze(context.Background(), analyzePosting(), resume); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(spy.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(spy.prompts))
	}

	prompt := spy.prompts[0]
	if strings.Contains(prompt, "13812345678") {
		t.Fatal("raw phone number must never reach the provider")
	}

	if !strings.Contains(prompt, "[手机号已隐藏]") {
		t.Fatal("prompt must carry the redaction placeholder")
	}

	if !strings.Contains(prompt, "数据分析师") || !strings.Contains(prompt, "某电商公司") {
		t.Fatal("prompt must embed the job posting fields")
	}
}

func TestAnalyzeContextCancelPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spy := &stubCompleter{err: context.Canceled}
	e := testEngine(spy)

	if _, err := e.Analyze(ctx, analyzePosting(), analyzeResume); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
