package ai

import (
	"errors"
	"testing"
)

func TestParseAssessmentCleanJSON(t *testing.T) {
	raw := `{"score": 82, "strengths": ["Go", "分布式系统经验"], "gaps": ["缺少前端经验"]}`
	got, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 82 {
		t.Fatalf("expected score 82, got %d", got.Score)
	}

	if len(got.Strengths) != 2 || got.Strengths[1] != "分布式系统经验" {
		t.Fatalf("unexpected strengths: %v", got.Strengths)
	}

	if len(got.Gaps) != 1 || got.Gaps[0] != "缺少前端经验" {
		t.Fatalf("unexpected gaps: %v", got.Gaps)
	}
}

func TestParseAssessmentCodeFence(t *testing.T) {
	raw := "```json\n{\"score\": 91, \"strengths\": [\"Kubernetes\"], \"gaps\": []}\n```"
	got, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 91 || len(got.Strengths) != 1 {
		t.Fatalf("fenced JSON not parsed: %+v", got)
	}
}

func TestParseAssessmentProseWrapped(t *testing.T) {
	raw := `根据简历分析，结果如下：{"score": 64, "strengths": ["沟通能力"], "gaps": ["经验不足"]} 希望有帮助。`
	got, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 64 {
		t.Fatalf("expected embedded object to win, got score %d", got.Score)
	}
}

func TestParseAssessmentStringScore(t *testing.T) {
	raw := `{"score": "77", "strengths": ["Python"], "gaps": []}`
	got, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 77 {
		t.Fatalf("string score must coerce to 77, got %d", got.Score)
	}
}

func TestParseAssessmentClamping(t *testing.T) {
	for raw, want := range map[string]int{
		`{"score": -5}`:  0,
		`{"score": 150}`: 100,
	} {
		got, err := ParseAssessment(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}

		if got.Score != want {
			t.Fatalf("expected %q to clamp to %d, got %d", raw, want, got.Score)
		}
	}
}

func TestParseAssessmentMissingScoreDefaults(t *testing.T) {
	got, err := ParseAssessment(`{"strengths": ["学习能力强"], "gaps": []}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 50 {
		t.Fatalf("missing score must default to 50, got %d", got.Score)
	}
}

func TestParseAssessmentNonArrayListsCoerce(t *testing.T) {
	got, err := ParseAssessment(`{"score": 60, "strengths": "Go", "gaps": 3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Strengths) != 0 || len(got.Gaps) != 0 {
		t.Fatalf("non-array fields must coerce to empty, got %+v", got)
	}
}

func TestParseAssessmentIntegerScan(t *testing.T) {
	got, err := ParseAssessment("匹配度大约是 68 分，整体还不错。")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Score != 68 {
		t.Fatalf("expected salvaged score 68, got %d", got.Score)
	}

	if len(got.Strengths) != 1 || got.Strengths[0] != "AI返回格式错误，无法解析优势" {
		t.Fatalf("expected placeholder strengths, got %v", got.Strengths)
	}

	if len(got.Gaps) != 1 || got.Gaps[0] != "AI返回格式错误，无法解析不足" {
		t.Fatalf("expected placeholder gaps, got %v", got.Gaps)
	}
}

func TestParseAssessmentNoDigits(t *testing.T) {
	_, err := ParseAssessment("抱歉，我无法评估这份简历。")
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestFirstBalancedObjectSkipsBracesInStrings(t *testing.T) {
	got, ok := FirstBalancedObject(`noise {"note": "a } inside", "score": 1} trailing`)
	if !ok {
		t.Fatal("expected a balanced object")
	}

	if got != `{"note": "a } inside", "score": 1}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}
