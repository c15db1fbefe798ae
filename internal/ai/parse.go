package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrUnparseable means the model output contained nothing usable, not even a
// digit to salvage a score from.
var ErrUnparseable = errors.New("model output contains no parseable result")

const (
	fallbackScore         = 50
	fallbackStrengthsNote = "AI返回格式错误，无法解析优势"
	fallbackGapsNote      = "AI返回格式错误，无法解析不足"
)

var integerPattern = regexp.MustCompile(`\d+`)

// Assessment is the structurally guaranteed result of a scoring call: score
// clamped into [0,100], strengths/gaps always slices (possibly empty).
type Assessment struct {
	Score     int      `mapstructure:"score"`
	Strengths []string `mapstructure:"strengths"`
	Gaps      []string `mapstructure:"gaps"`
}

// ParseAssessment extracts an Assessment from free-form model output. The
// pipeline degrades stage by stage: direct JSON parse, code-fence strip,
// first balanced {...} substring, and finally a scan for the first integer
// with placeholder strengths/gaps. Only a fully digit-free output errors.
func ParseAssessment(raw string) (*Assessment, error) {
	data, ok := decodeObject(raw)
	if !ok {
		return scanScore(raw)
	}

	// Non-array strengths/gaps are coerced to empty, not guessed at.
	for _, key := range []string{"strengths", "gaps"} {
		if value, present := data[key]; present {
			if _, isList := value.([]any); !isList {
				delete(data, key)
			}
		}
	}

	var assessment Assessment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &assessment,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return scanScore(raw)
	}

	if _, present := data["score"]; !present {
		assessment.Score = fallbackScore
	}
	assessment.Score = clampScore(assessment.Score)

	if assessment.Strengths == nil {
		assessment.Strengths = []string{}
	}
	if assessment.Gaps == nil {
		assessment.Gaps = []string{}
	}

	return &assessment, nil
}

// ExtractJSON strips leading/trailing markdown code-fence markers so the
// remainder can be handed to the JSON parser.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	return strings.TrimSpace(raw)
}

// DecodeObject runs the first three parser stages and reports whether any of
// them produced a JSON object.
func decodeObject(raw string) (map[string]any, bool) {
	cleaned := ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		return data, true
	}

	candidate, ok := FirstBalancedObject(cleaned)
	if !ok {
		return nil, false
	}

	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, false
	}

	return data, true
}

// FirstBalancedObject returns the first brace-balanced {...} substring,
// ignoring braces inside JSON string literals.
func FirstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

func scanScore(raw string) (*Assessment, error) {
	match := integerPattern.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnparseable, strings.TrimSpace(raw))
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		score = fallbackScore
	}

	return &Assessment{
		Score:     clampScore(score),
		Strengths: []string{fallbackStrengthsNote},
		Gaps:      []string{fallbackGapsNote},
	}, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
