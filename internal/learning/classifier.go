// Package learning logs conversation turns and mines them for recurring
// keywords and question patterns, so frequent questions can eventually be
// answered without a generation call.
package learning

import "strings"

// ConversationType buckets a user message by intent.
type ConversationType string

const (
	TypeGreeting  ConversationType = "greeting"
	TypeSmallTalk ConversationType = "small_talk"
	TypeQuestion  ConversationType = "question"
	TypeRequest   ConversationType = "request"
	TypeFeedback  ConversationType = "feedback"
	TypeClosing   ConversationType = "closing"
)

// UserTone is a coarse formality signal used to pick follow-up phrasing.
type UserTone string

const (
	ToneFormal   UserTone = "formal"
	ToneFriendly UserTone = "friendly"
)

// Classification is the result of analyzing a single user message.
type Classification struct {
	Type     ConversationType
	Tone     UserTone
	Keywords []string
}

var (
	greetingTriggers = []string{"안녕", "하이", "헬로", "반가워", "반갑습니다"}
	closingTriggers  = []string{"잘가", "안녕히", "고마워", "감사합니다", "감사해요", "수고"}
	feedbackTriggers = []string{"좋아요", "좋네요", "마음에 들", "별로", "실망", "최고"}
	requestTriggers  = []string{"추천", "보여줘", "보여주세요", "찾아줘", "찾아주세요", "골라줘", "알려줘", "알려주세요"}
	questionTriggers = []string{"?", "뭐야", "무엇", "어떤", "어때", "얼마", "어디", "왜", "언제", "인가요", "일까요", "나요"}

	// formalEndings mark polite sentence endings. Checked against the
	// trimmed message tail.
	formalEndings = []string{"니다", "니까", "세요", "십시오", "주세요"}
)

// Classify buckets a message by intent and tone and extracts its fashion
// keywords. Ordering matters: greetings and closings are checked before the
// broader question/request triggers so "안녕하세요?" stays a greeting.
func Classify(message string) Classification {
	c := Classification{
		Type:     TypeSmallTalk,
		Tone:     detectTone(message),
		Keywords: ExtractKeywords(message),
	}

	switch {
	case containsAny(message, greetingTriggers):
		c.Type = TypeGreeting
	case containsAny(message, closingTriggers):
		c.Type = TypeClosing
	case containsAny(message, feedbackTriggers):
		c.Type = TypeFeedback
	case containsAny(message, requestTriggers):
		c.Type = TypeRequest
	case containsAny(message, questionTriggers):
		c.Type = TypeQuestion
	}
	return c
}

func detectTone(message string) UserTone {
	trimmed := strings.TrimRight(strings.TrimSpace(message), ".!?~ ")
	for _, ending := range formalEndings {
		if strings.HasSuffix(trimmed, ending) {
			return ToneFormal
		}
	}
	if strings.HasSuffix(trimmed, "요") {
		return ToneFormal
	}
	return ToneFriendly
}

// fashionVocabulary is the keyword universe tracked by the learner:
// materials, categories, and notable techniques.
var fashionVocabulary = []string{
	// materials
	"캐시미어", "울", "메리노", "코튼", "면", "린넨", "데님", "셀비지", "가죽", "레더",
	"실크", "나일론", "폴리에스터", "저지", "플리스", "알파카", "램스킨", "새틴", "트위드",
	// categories and types
	"코트", "자켓", "패딩", "가디건", "점퍼", "티셔츠", "셔츠", "니트", "블라우스", "후드",
	"슬랙스", "스커트", "반바지", "레깅스", "원피스", "점프수트", "백", "스카프", "벨트", "주얼리",
	// techniques
	"핸드메이드", "수제", "리미티드", "한정판", "자수", "프린트", "패치워크", "바이오 워싱", "텐타 가공",
}

// ExtractKeywords returns the distinct vocabulary terms present in the
// message, in vocabulary order. Each term appears at most once regardless
// of repetition, so a turn increments each keyword exactly once.
func ExtractKeywords(message string) []string {
	var found []string
	for _, kw := range fashionVocabulary {
		if strings.Contains(message, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
