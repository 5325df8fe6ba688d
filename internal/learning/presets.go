package learning

// presetAnswers holds canned answers for the recurring question patterns.
// Keys match the patterns produced by QuestionPattern.
var presetAnswers = map[string]string{
	"소재 정보 질문": "캐시미어는 카슈미르 지역 염소 털에서 얻은 고급 섬유로, 일반 양모보다 부드럽고 보온성이 뛰어나요. " +
		"울은 양털로 만든 천연 섬유이며, 코튼은 면화에서 얻은 통기성 좋은 소재입니다.",
	"관리 방법 질문": "대부분의 프리미엄 소재는 드라이클리닝을 권장드립니다. 제품 라벨의 세탁 표시를 꼭 확인해주세요. " +
		"울이나 캐시미어는 찬물 손세탁도 가능하지만 조심스럽게 다뤄야 합니다.",
	"가격 문의": "제품마다 가격대가 다릅니다. 구체적인 제품을 말씀해주시면 정확한 가격을 안내드릴게요.",
	"사이즈 문의": "각 제품 상세 페이지에서 사이즈 차트를 확인하실 수 있어요. 일반적으로 S, M, L 사이즈를 제공하며, " +
		"제품에 따라 상세한 치수가 표기되어 있습니다.",
	"스타일 문의": "스타일링은 개인의 취향과 상황에 따라 다양하게 연출할 수 있어요. " +
		"구체적으로 어떤 아이템과 매치하고 싶으신지 말씀해주시면 더 도움을 드릴 수 있습니다.",
}

// PresetAnswer returns the canned answer for a question pattern, if one
// exists.
func PresetAnswer(pattern string) (string, bool) {
	answer, ok := presetAnswers[pattern]
	return answer, ok
}
