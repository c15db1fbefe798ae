package match

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/winkovo0818/boss-copilot/internal/job"
)

const (
	skillWeight      = 50.0
	keywordWeight    = 30.0
	experienceWeight = 20.0

	maxKeywords      = 30
	maxListedSkills  = 5
	localTierCutoff  = 70
	minKeywordLength = 2
)

var stopwords = []string{
	"的", "了", "和", "是", "在", "有", "与", "等", "及", "为", "将", "以",
	"一个", "这个", "那个",
}

// benefitWords are perk/benefit vocabulary that says nothing about skill
// fit; they are excluded so they cannot inflate the keyword overlap.
var benefitWords = []string{
	"双休", "单休", "五险", "一金", "社保", "公积金",
	"包住", "包吃", "年假", "调休", "周末", "法定",
	"带薪", "补贴", "补助", "奖金", "提成", "绩效",
	"团建", "旅游", "下午茶", "零食", "聚餐", "体检",
	"节日", "生日", "婚假", "产假", "陪产", "年终",
	"弹性", "福利", "氛围", "环境", "文化", "关怀",
}

var (
	han2Pattern     = regexp.MustCompile(`[\p{Han}]{2}`)
	han3Pattern     = regexp.MustCompile(`[\p{Han}]{3}`)
	han4Pattern     = regexp.MustCompile(`[\p{Han}]{4}`)
	hanLongPattern  = regexp.MustCompile(`[\p{Han}]{5,}`)
	englishPattern  = regexp.MustCompile(`[a-zA-Z]{2,}`)
	durationPattern = regexp.MustCompile(`(\d+|[一二三四五六七八九十]+)\s*年`)
)

// LocalScore is the deterministic offline fallback: skill overlap (50),
// description keyword overlap (30) and an experience presence signal (20).
// It deliberately maps to only two tiers; the coarseness signals degraded
// confidence compared with the AI path.
func LocalScore(posting *job.Posting, resumeContent string) *Verdict {
	resumeLower := strings.ToLower(resumeContent)

	var score float64
	var matched, missing []string

	if len(posting.Skills) > 0 {
		for _, skill := range posting.Skills {
			if strings.Contains(resumeLower, strings.ToLower(skill)) {
				matched = append(matched, skill)
			} else {
				missing = append(missing, skill)
			}
		}
		score += skillWeight * float64(len(matched)) / float64(len(posting.Skills))
	}

	keywords := extractKeywords(posting.Description)
	if len(keywords) > 0 {
		hits := 0
		for _, keyword := range keywords {
			if strings.Contains(resumeLower, strings.ToLower(keyword)) {
				hits++
			}
		}
		score += keywordWeight * float64(hits) / float64(len(keywords))
	}

	if hasExperienceMarker(posting.Description) && durationPattern.MatchString(resumeContent) {
		score += experienceWeight
	}

	final := int(math.Round(math.Min(score, 100)))

	tier := TierNotRecommend
	if final >= localTierCutoff {
		tier = TierRecommend
	}

	return &Verdict{
		Score:     final,
		Tier:      tier,
		Strengths: skillStatements(matched, "熟悉%s"),
		Gaps:      skillStatements(missing, "缺少%s相关经验"),
		Summary:   summaryForScore(final),
		Source:    SourceLocal,
	}
}

func skillStatements(skills []string, format string) []string {
	statements := []string{}
	for _, skill := range skills {
		if len(statements) == maxListedSkills {
			break
		}
		statements = append(statements, fmt.Sprintf(format, skill))
	}
	return statements
}

func hasExperienceMarker(description string) bool {
	return strings.Contains(description, "经验") || durationPattern.MatchString(description)
}

// ExtractKeywords pulls candidate skill terms from the description: 2-4
// character CJK chunks, sliding-window fragments of longer runs, and latin
// words, minus stopwords and benefit vocabulary, capped at 30.
func extractKeywords(text string) []string {
	var words []string
	words = append(words, han2Pattern.FindAllString(text, -1)...)
	words = append(words, han3Pattern.FindAllString(text, -1)...)
	words = append(words, han4Pattern.FindAllString(text, -1)...)

	for _, long := range hanLongPattern.FindAllString(text, -1) {
		if containsBenefitWord(long) {
			continue
		}
		runes := []rune(long)
		for i := 0; i <= len(runes)-2; i++ {
			for size := 2; size <= 4 && i+size <= len(runes); size++ {
				words = append(words, string(runes[i:i+size]))
			}
		}
	}

	words = append(words, englishPattern.FindAllString(text, -1)...)

	seen := make(map[string]struct{}, len(words))
	keywords := []string{}
	for _, word := range words {
		if len(keywords) == maxKeywords {
			break
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		if utf8.RuneCountInString(word) < minKeywordLength {
			continue
		}
		if isStopword(word) || containsBenefitWord(word) {
			continue
		}

		keywords = append(keywords, word)
	}

	return keywords
}

func isStopword(word string) bool {
	for _, stop := range stopwords {
		if word == stop {
			return true
		}
	}
	return false
}

func containsBenefitWord(word string) bool {
	for _, benefit := range benefitWords {
		if strings.Contains(word, benefit) {
			return true
		}
	}
	return false
}
