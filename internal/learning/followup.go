package learning

import (
	"math/rand"
	"unicode/utf8"
)

// followUpSkipLength: long answers already carry enough content, tacking a
// question on the end reads pushy.
const followUpSkipLength = 200

var formalFollowUps = map[ConversationType][]string{
	TypeGreeting: {
		"어떤 도움이 필요하신가요?",
		"무엇을 도와드릴까요?",
		"어떤 상품을 찾고 계신가요?",
	},
	TypeSmallTalk: {
		"무엇을 도와드릴까요?",
		"어떤 도움이 필요하신가요?",
	},
	TypeQuestion: {
		"더 궁금하신 점이 있으신가요?",
		"추가로 알고 싶으신 내용이 있나요?",
		"다른 궁금한 점이 있으신가요?",
	},
	TypeRequest: {
		"다른 스타일도 보여드릴까요?",
		"다른 옵션도 살펴보시겠어요?",
		"비슷한 다른 제품도 궁금하신가요?",
		"추가로 보여드릴 제품이 있을까요?",
	},
	TypeFeedback: {
		"어떤 부분이 마음에 드셨나요?",
		"어떤 점이 좋으셨나요?",
		"더 자세히 알려주시겠어요?",
	},
}

var friendlyFollowUps = map[ConversationType][]string{
	TypeGreeting: {
		"어떤 도움이 필요하세요?",
		"뭘 도와드릴까요?",
		"어떤 걸 찾으세요?",
	},
	TypeSmallTalk: {
		"무엇을 도와드릴까요?",
		"뭘 도와드릴까요?",
	},
	TypeQuestion: {
		"더 궁금한 점 있으세요?",
		"다른 궁금한 거 있어요?",
		"추가로 알고 싶은 게 있나요?",
	},
	TypeRequest: {
		"다른 스타일도 볼까요?",
		"다른 것도 보여드릴까요?",
		"비슷한 다른 제품도 볼래요?",
		"다른 옵션도 궁금하세요?",
	},
	TypeFeedback: {
		"어떤 부분이 좋으셨어요?",
		"어떤 점이 마음에 드셨어요?",
		"더 알려주실래요?",
	},
}

// FollowUp picks a tone-matched follow-up question to append to a response.
// Returns "" for closings and for responses longer than 200 runes;
// responseLen is in runes, not bytes.
func FollowUp(t ConversationType, tone UserTone, responseLen int) string {
	if responseLen > followUpSkipLength {
		return ""
	}
	options := friendlyFollowUps[t]
	if tone == ToneFormal {
		options = formalFollowUps[t]
	}
	if len(options) == 0 {
		return ""
	}
	return options[rand.Intn(len(options))]
}

// RuneLen counts runes, matching the skip threshold unit.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
