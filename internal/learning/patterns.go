package learning

import "strings"

// patternRule maps trigger keywords to a canonical question pattern.
type patternRule struct {
	pattern  string
	triggers []string
	// extra, when set, must also match (material-info questions need both a
	// material and an interrogative).
	extra []string
}

// questionRules is an ordered list and the order is part of the contract:
// the first matching rule wins. Material info outranks care, care outranks
// price, then size, then style, so "캐시미어 세탁 어떻게 해?" classifies as a
// care question only because the material rule additionally requires an
// interrogative like 뭐야/무엇/어떤.
var questionRules = []patternRule{
	{
		pattern:  "소재 정보 질문",
		triggers: []string{"캐시미어", "울", "코튼", "린넨", "데님", "가죽"},
		extra:    []string{"뭐야", "무엇", "어떤"},
	},
	{
		pattern:  "관리 방법 질문",
		triggers: []string{"관리", "세탁", "손질"},
	},
	{
		pattern:  "가격 문의",
		triggers: []string{"가격", "얼마"},
	},
	{
		pattern:  "사이즈 문의",
		triggers: []string{"사이즈", "크기", "핏"},
	},
	{
		pattern:  "스타일 문의",
		triggers: []string{"스타일", "어울리", "코디"},
	},
}

// QuestionPattern maps a question to its canonical pattern, or false when
// the question matches none.
func QuestionPattern(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, rule := range questionRules {
		if !containsAny(lower, rule.triggers) {
			continue
		}
		if len(rule.extra) > 0 && !containsAny(lower, rule.extra) {
			continue
		}
		return rule.pattern, true
	}
	return "", false
}
