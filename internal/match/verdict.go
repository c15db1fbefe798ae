// Package match orchestrates job/resume analysis: cache consultation, PII
// redaction, the AI scoring call and the local heuristic fallback.
package match

// Tier is the recommendation level derived from a verdict's score.
type Tier string

const (
	TierHighlyRecommend Tier = "highly_recommend"
	TierRecommend       Tier = "recommend"
	TierConsider        Tier = "consider"
	TierNotRecommend    Tier = "not_recommend"
)

// Source records which path produced a verdict.
type Source string

const (
	SourceAI    Source = "ai"
	SourceLocal Source = "local"
	SourceCache Source = "cache"
)

// Verdict is the analysis result. Score is always within [0,100] and the
// slices are never nil.
type Verdict struct {
	Score     int      `json:"score"`
	Tier      Tier     `json:"recommendation"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Summary   string   `json:"analysis"`
	Source    Source   `json:"source,omitempty"`
}

func tierForScore(score int) Tier {
	switch {
	case score >= 85:
		return TierHighlyRecommend
	case score >= 70:
		return TierRecommend
	case score >= 60:
		return TierConsider
	default:
		return TierNotRecommend
	}
}

func summaryForScore(score int) string {
	switch {
	case score >= 80:
		return "您的简历与该岗位高度匹配，强烈建议投递！"
	case score >= 70:
		return "您的简历与该岗位较为匹配，建议投递。"
	case score >= 50:
		return "您的简历与该岗位部分匹配，可以尝试投递。"
	default:
		return "您的简历与该岗位匹配度较低，建议寻找更合适的岗位。"
	}
}
