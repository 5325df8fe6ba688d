package curator

import (
	"fmt"
	"strings"

	"github.com/daeunko/curator/internal/passages"
)

// degradeCause distinguishes the two degraded transitions. Both produce
// the same response shape through one builder; only the apology line and
// the reported origin differ.
type degradeCause string

const (
	causeQuota degradeCause = "quota"
	causeError degradeCause = "error"
)

// DefaultFallback is the static curated list shown when retrieval or
// generation is down: one well-reviewed staple per category.
func DefaultFallback() []passages.Passage {
	return []passages.Passage{
		{
			ID:      "fallback-1",
			Content: "이태리산 캐시미어 100%로 제작된 싱글 코트. 부드러운 촉감과 뛰어난 보온성으로 겨울 시즌 필수 아이템입니다.",
			Metadata: passages.Metadata{
				Category: "아우터", Type: "코트", ProductName: "이태리 캐시미어 싱글 코트",
				Brand: "아틀리에 모노", Rating: 4.8,
				Materials: []string{"캐시미어"}, Techniques: []string{"핸드 피니싱"},
			},
		},
		{
			ID:      "fallback-2",
			Content: "일본 오카야마산 셀비지 데님. 빈티지 셔틀 직기로 짜낸 원단 특유의 단단한 질감과 자연스러운 페이딩이 매력입니다.",
			Metadata: passages.Metadata{
				Category: "하의", Type: "데님", ProductName: "오카야마 셀비지 데님",
				Brand: "코번 드님웍스", Rating: 4.7,
				Materials: []string{"셀비지 데님"}, Techniques: []string{"원 워시"},
			},
		},
		{
			ID:      "fallback-3",
			Content: "프렌치 린넨 100% 셔츠. 통기성이 뛰어나고 입을수록 부드러워지는 소재로 여름철 데일리 아이템으로 추천합니다.",
			Metadata: passages.Metadata{
				Category: "상의", Type: "셔츠", ProductName: "프렌치 린넨 셔츠",
				Brand: "메종 블랑", Rating: 4.5,
				Materials: []string{"린넨"}, Techniques: []string{"바이오 워싱"},
			},
		},
		{
			ID:      "fallback-4",
			Content: "22수 실크 새틴 블라우스. 은은한 광택과 부드러운 드레이프가 포멀과 캐주얼 어디에나 어울립니다.",
			Metadata: passages.Metadata{
				Category: "상의", Type: "블라우스", ProductName: "실크 새틴 블라우스",
				Brand: "루미에르", Rating: 4.6,
				Materials: []string{"실크"}, Techniques: []string{"프렌치 심"},
			},
		},
		{
			ID:      "fallback-5",
			Content: "베지터블 태닝 가죽으로 수작업 제작한 토트백. 사용할수록 깊어지는 색감과 견고한 스티칭이 특징입니다.",
			Metadata: passages.Metadata{
				Category: "액세서리", Type: "백", ProductName: "핸드메이드 베지터블 레더 토트백",
				Brand: "오드 크래프트", Rating: 4.9,
				Materials: []string{"가죽"}, Techniques: []string{"핸드메이드", "새들 스티칭"},
			},
		},
	}
}

// scoredFallback lifts plain passages into the scored shape so the one
// source-conversion path serves both live and fallback results.
func scoredFallback(list []passages.Passage) []passages.Scored {
	scored := make([]passages.Scored, 0, len(list))
	for _, p := range list {
		scored = append(scored, passages.Scored{Passage: p, Similarity: 0.5})
	}
	return scored
}

// degradedResponse is the single builder for both fallback transitions.
// Sources always come from the static curated list: retrieval may itself
// be degraded, so live ranked passages are never trusted here. With no
// static list configured the pipeline is truly down.
func (c *Curator) degradedResponse(cause degradeCause) (*Response, error) {
	ranked := scoredFallback(c.fallback)
	if len(ranked) == 0 {
		return nil, ErrUnavailable
	}

	names := make([]string, 0, c.opts.MaxSources)
	for i, s := range ranked {
		if i == c.opts.MaxSources {
			break
		}
		name := s.Passage.Metadata.ProductName
		if name == "" {
			name = s.Passage.Metadata.Type
		}
		if name == "" {
			name = "상품"
		}
		names = append(names, name)
	}

	origin := OriginErrorFallback
	apology := "지금은 맞춤 답변 생성이 어려워 추천 상품만 안내드립니다."
	if cause == causeQuota {
		origin = OriginQuotaFallback
		apology = "현재 요청이 많아 맞춤 답변 대신 추천 상품을 안내드립니다. 잠시 후 다시 시도해주세요."
	}

	answer := fmt.Sprintf("%s 추천 상품: %s. 각 상품은 프리미엄 소재로 제작되어 높은 품질을 자랑합니다. 자세한 정보는 상품 상세 페이지에서 확인해주세요.",
		apology, strings.Join(names, ", "))

	return &Response{
		Answer:  answer,
		Sources: toSources(ranked, c.opts.MaxSources),
		Origin:  origin,
	}, nil
}
