package ranker

import (
	"strings"

	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/taste"
)

// Metadata keyword lists behind the six taste axes. Matching is substring
// based because product metadata mixes spacing styles ("메리노 울" vs
// "메리노울").
var (
	statementTechniques = []string{"자수", "프린트", "패치워크", "비대칭", "오버사이즈"}
	premiumMaterials    = []string{"캐시미어", "실크", "메리노 울", "메리노울", "셀비지 데님", "셀비지데님", "램스킨", "알파카"}
	easyCareMaterials   = []string{"코튼", "나일론", "폴리에스터"}
	versatileTypes      = []string{"셔츠", "티셔츠", "팬츠", "데님"}
	softMaterials       = []string{"캐시미어", "코튼", "울", "저지", "플리스"}
	limitedTechniques   = []string{"핸드메이드", "수제", "리미티드", "한정판"}
)

// boost maps a taste profile and passage metadata to a value in [0,1].
// Each axis contributes weight(axis) * signal(metadata); axes at or below
// the neutral 0.5 carry zero weight, so raising an axis can never lower a
// passage's score.
func boost(tv taste.Vector, md passages.Metadata) float64 {
	sum := axisWeight(tv.Boldness) * boldnessSignal(md)
	sum += axisWeight(tv.MaterialValue) * materialValueSignal(md)
	sum += axisWeight(tv.Utility) * utilitySignal(md)
	sum += axisWeight(tv.Reliability) * reliabilitySignal(md)
	sum += axisWeight(tv.Comfort) * comfortSignal(md)
	sum += axisWeight(tv.Exclusivity) * exclusivitySignal(md)
	return sum / 6
}

// axisWeight scales the half of the slider above neutral onto [0,1].
func axisWeight(axis float64) float64 {
	w := (axis - 0.5) * 2
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

func boldnessSignal(md passages.Metadata) float64 {
	if matchAny(md.Techniques, statementTechniques) {
		return 1
	}
	return 0
}

func materialValueSignal(md passages.Metadata) float64 {
	if matchAny(md.Materials, premiumMaterials) {
		return 1
	}
	// A passage that names its materials at all beats one that doesn't.
	if len(md.Materials) > 0 {
		return 0.5
	}
	return 0
}

func utilitySignal(md passages.Metadata) float64 {
	if matchAny(md.Materials, easyCareMaterials) {
		return 1
	}
	if containsAny(md.Type, versatileTypes) {
		return 1
	}
	return 0
}

func reliabilitySignal(md passages.Metadata) float64 {
	switch {
	case md.Rating >= 4.5:
		return 1
	case md.Rating >= 4.0:
		return 0.5
	default:
		return 0
	}
}

func comfortSignal(md passages.Metadata) float64 {
	if matchAny(md.Materials, softMaterials) {
		return 1
	}
	return 0
}

func exclusivitySignal(md passages.Metadata) float64 {
	if matchAny(md.Techniques, limitedTechniques) {
		return 1
	}
	return 0
}

func matchAny(values []string, keywords []string) bool {
	for _, v := range values {
		if containsAny(v, keywords) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
