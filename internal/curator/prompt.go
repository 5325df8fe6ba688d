package curator

import (
	"fmt"
	"strings"

	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/taste"
)

// guidelineThreshold: an axis contributes prompt guidance only when the
// user pushed it clearly above neutral.
const guidelineThreshold = 0.6

// buildSystemPrompt turns the taste profile into curation guidelines for
// the generation model.
func buildSystemPrompt(tv taste.Vector) string {
	var guidelines []string

	if tv.Boldness > guidelineThreshold {
		guidelines = append(guidelines,
			"- 트렌디하고 실험적인 스타일링을 적극 제안하세요.",
			"- 평소와 다른 새로운 조합을 추천해도 좋습니다.")
	}
	if tv.MaterialValue > guidelineThreshold {
		guidelines = append(guidelines,
			"- 소재의 원산지와 품질(이태리산 캐시미어, 일본 셀비지 데님 등)을 강조하세요.",
			"- 제작 공법(텐타 가공, 해리 테이핑, 바이오 워싱 등)의 의미를 깊이 있게 해석하세요.")
	}
	if tv.Utility > guidelineThreshold {
		guidelines = append(guidelines,
			"- 관리 방법, 세탁 용이성, 다양한 활용도를 강조하세요.")
	}
	if tv.Reliability > guidelineThreshold {
		guidelines = append(guidelines,
			"- 리뷰 평점이 높고 검증된 제품 정보를 강조하세요.",
			"- 실패 없는 클래식한 소재(코마사 면, 메리노 울 등)의 장점을 설명하세요.")
	}
	if tv.Comfort > guidelineThreshold {
		guidelines = append(guidelines,
			"- 착용감과 부드러운 소재감, 편안한 실루엣을 중심으로 설명하세요.")
	}
	if tv.Exclusivity > guidelineThreshold {
		guidelines = append(guidelines,
			"- 다른 제품과 차별화되는 독특한 디자인 요소를 부각하세요.",
			"- 한정판, 핸드메이드 등 희소성 있는 가치를 언급하세요.")
	}

	guide := "- 균형 잡힌 관점에서 객관적으로 설명하세요."
	if len(guidelines) > 0 {
		guide = strings.Join(guidelines, "\n")
	}

	return fmt.Sprintf(`당신은 프리미엄 패션 편집샵의 전문 큐레이터입니다.

[역할]
고객의 질문에 대해 검색된 상품 정보를 바탕으로 맞춤형 가치 해석을 제공합니다.
단순한 정보 나열이 아닌, 패션 전문가의 인사이트를 담아 답변하세요.

[취향 반영 가이드라인]
%s

[답변 스타일]
- 친근하지만 전문적인 톤
- 구체적인 소재/공법 용어 활용
- 실질적인 스타일링 조언 포함
- 200-400자 내외로 핵심 정보 전달`, guide)
}

// buildUserPrompt embeds the retrieved passages as grounding context for
// the question.
func buildUserPrompt(question string, ranked []passages.Scored) string {
	var sb strings.Builder
	sb.WriteString("[검색된 상품 정보]\n")
	if len(ranked) == 0 {
		sb.WriteString("(검색 결과 없음)\n")
	}
	for i, s := range ranked {
		md := s.Passage.Metadata
		fmt.Fprintf(&sb, "[상품 %d] %s\n", i+1, orDash(md.ProductName))
		fmt.Fprintf(&sb, "카테고리: %s / %s\n", orDash(md.Category), orDash(md.Type))
		fmt.Fprintf(&sb, "브랜드: %s\n", orDash(md.Brand))
		if md.Rating > 0 {
			fmt.Fprintf(&sb, "평점: %.1f점\n", md.Rating)
		}
		if len(md.Materials) > 0 {
			fmt.Fprintf(&sb, "소재: %s\n", strings.Join(md.Materials, ", "))
		}
		if len(md.Techniques) > 0 {
			fmt.Fprintf(&sb, "공법: %s\n", strings.Join(md.Techniques, ", "))
		}
		sb.WriteString("\n")
		sb.WriteString(s.Passage.Content)
		sb.WriteString("\n---\n\n")
	}

	fmt.Fprintf(&sb, "[고객 질문]\n%s\n\n위 정보를 바탕으로 고객에게 맞춤형 답변을 제공해주세요.", question)
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
