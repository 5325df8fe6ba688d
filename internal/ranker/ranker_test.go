package ranker

import (
	"context"
	"errors"
	"testing"

	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/taste"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

type stubStore struct {
	vectorResults  []passages.Scored
	vectorErr      error
	keywordResults []passages.Scored
	keywordErr     error
	vectorCalls    int
	keywordCalls   int
}

func (s *stubStore) QueryByVector(ctx context.Context, vec []float32, limit int) ([]passages.Scored, error) {
	s.vectorCalls++
	if s.vectorErr != nil {
		return nil, s.vectorErr
	}
	return clone(s.vectorResults), nil
}

func (s *stubStore) SearchKeyword(ctx context.Context, query string, limit int) ([]passages.Scored, error) {
	s.keywordCalls++
	if s.keywordErr != nil {
		return nil, s.keywordErr
	}
	return clone(s.keywordResults), nil
}

func clone(in []passages.Scored) []passages.Scored {
	out := make([]passages.Scored, len(in))
	copy(out, in)
	return out
}

func scored(id string, sim float32, md passages.Metadata) passages.Scored {
	return passages.Scored{
		Passage:    passages.Passage{ID: id, Content: id, Metadata: md},
		Similarity: sim,
	}
}

func TestOptionsNormalized(t *testing.T) {
	tests := []struct {
		name           string
		in             Options
		wantTopK       int
		wantCandidates int
	}{
		{"zero value gets defaults", Options{}, 3, 20},
		{"candidates below top-k clamps up", Options{TopK: 30, Candidates: 5}, 30, 30},
		{"large top-k lifts default candidates", Options{TopK: 50}, 50, 50},
		{"explicit values kept", Options{TopK: 5, Candidates: 40}, 5, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			if got.TopK != tt.wantTopK {
				t.Errorf("TopK = %d, want %d", got.TopK, tt.wantTopK)
			}
			if got.Candidates != tt.wantCandidates {
				t.Errorf("Candidates = %d, want %d", got.Candidates, tt.wantCandidates)
			}
			if got.Candidates < got.TopK {
				t.Errorf("Candidates %d < TopK %d", got.Candidates, got.TopK)
			}
		})
	}
}

func cashmere() passages.Metadata {
	return passages.Metadata{
		Category:    "상의",
		Type:        "코트",
		ProductName: "캐시미어 코트",
		Rating:      4.8,
		Materials:   []string{"캐시미어"},
		Techniques:  []string{"핸드메이드"},
	}
}

func plainShirt() passages.Metadata {
	return passages.Metadata{
		Category:    "상의",
		Type:        "셔츠",
		ProductName: "베이직 셔츠",
		Rating:      3.9,
		Materials:   nil,
		Techniques:  nil,
	}
}

func TestRankDefaultTasteKeepsSimilarityOrder(t *testing.T) {
	store := &stubStore{vectorResults: []passages.Scored{
		scored("p1", 0.9, plainShirt()),
		scored("p2", 0.8, cashmere()),
		scored("p3", 0.7, cashmere()),
		scored("p4", 0.6, cashmere()),
	}}
	r := New(&stubEmbedder{vec: []float32{1, 0}}, store, Options{})

	got, err := r.Rank(context.Background(), "추천해줘", taste.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected TopK=3 results, got %d", len(got))
	}
	for i, want := range []string{"p1", "p2", "p3"} {
		if got[i].Passage.ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].Passage.ID, want)
		}
	}
	if got[0].Boost != 0 || got[0].FinalScore != 0 {
		t.Error("default taste must not compute boosts")
	}
}

func TestRankBoostReordersNearTies(t *testing.T) {
	// A material-lover should see the cashmere passage overtake a plain one
	// that is only marginally more similar.
	store := &stubStore{vectorResults: []passages.Scored{
		scored("plain", 0.80, plainShirt()),
		scored("cash", 0.79, cashmere()),
	}}
	r := New(&stubEmbedder{vec: []float32{1, 0}}, store, Options{})

	tv := taste.Default()
	tv.MaterialValue = 1.0
	tv.Exclusivity = 1.0

	got, err := r.Rank(context.Background(), "코트 추천", tv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Passage.ID != "cash" {
		t.Errorf("expected cashmere passage first, got %s (final %.4f vs %.4f)",
			got[0].Passage.ID, got[0].FinalScore, got[1].FinalScore)
	}
	if got[0].Boost <= got[1].Boost {
		t.Errorf("cashmere boost %.3f should exceed plain boost %.3f", got[0].Boost, got[1].Boost)
	}
}

func TestRankBoostCannotOvercomeLargeSimilarityGap(t *testing.T) {
	store := &stubStore{vectorResults: []passages.Scored{
		scored("plain", 0.90, plainShirt()),
		scored("cash", 0.60, cashmere()),
	}}
	r := New(&stubEmbedder{vec: []float32{1, 0}}, store, Options{})

	tv := taste.Vector{Boldness: 1, MaterialValue: 1, Utility: 1, Reliability: 1, Comfort: 1, Exclusivity: 1}

	got, err := r.Rank(context.Background(), "코트 추천", tv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Max lift is 1+0.15 = 1.15x; 0.60*1.15 < 0.90.
	if got[0].Passage.ID != "plain" {
		t.Errorf("boost must not overcome a large similarity gap, got %s first", got[0].Passage.ID)
	}
}

func TestBoostMonotonicInEachAxis(t *testing.T) {
	md := cashmere()
	axes := []func(*taste.Vector) *float64{
		func(v *taste.Vector) *float64 { return &v.Boldness },
		func(v *taste.Vector) *float64 { return &v.MaterialValue },
		func(v *taste.Vector) *float64 { return &v.Utility },
		func(v *taste.Vector) *float64 { return &v.Reliability },
		func(v *taste.Vector) *float64 { return &v.Comfort },
		func(v *taste.Vector) *float64 { return &v.Exclusivity },
	}
	for i, field := range axes {
		prev := -1.0
		for x := 0.0; x <= 1.0; x += 0.1 {
			tv := taste.Default()
			*field(&tv) = x
			b := boost(tv, md)
			if b < prev {
				t.Errorf("axis %d: boost decreased from %.4f to %.4f at %.1f", i, prev, b, x)
			}
			if b < 0 || b > 1 {
				t.Errorf("axis %d: boost %.4f out of [0,1]", i, b)
			}
			prev = b
		}
	}
}

func TestBoostSignalsForPlainMetadata(t *testing.T) {
	tv := taste.Vector{Boldness: 1, MaterialValue: 1, Utility: 1, Reliability: 1, Comfort: 1, Exclusivity: 1}
	md := plainShirt()
	// Plain shirt only trips the utility signal (versatile type 셔츠).
	if got, want := boost(tv, md), 1.0/6; got != want {
		t.Errorf("boost = %.4f, want %.4f", got, want)
	}
}

func TestRankFallsBackToKeywordOnEmbedFailure(t *testing.T) {
	store := &stubStore{keywordResults: []passages.Scored{
		scored("k1", 0.5, plainShirt()),
	}}
	r := New(&stubEmbedder{err: errors.New("embed down")}, store, Options{})

	got, err := r.Rank(context.Background(), "셔츠 추천", taste.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.vectorCalls != 0 {
		t.Error("vector query should be skipped when embedding fails")
	}
	if store.keywordCalls != 1 {
		t.Errorf("expected one keyword search, got %d", store.keywordCalls)
	}
	if len(got) != 1 || got[0].Passage.ID != "k1" {
		t.Fatalf("unexpected keyword results: %+v", got)
	}
}

func TestRankReturnsUnavailableWhenStoreFails(t *testing.T) {
	store := &stubStore{vectorErr: errors.New("store down")}
	r := New(&stubEmbedder{vec: []float32{1}}, store, Options{})

	_, err := r.Rank(context.Background(), "추천", taste.Default())
	if !errors.Is(err, ErrRetrievalUnavailable) {
		t.Errorf("expected ErrRetrievalUnavailable, got %v", err)
	}

	both := &stubStore{keywordErr: errors.New("also down")}
	r = New(&stubEmbedder{err: errors.New("embed down")}, both, Options{})
	_, err = r.Rank(context.Background(), "추천", taste.Default())
	if !errors.Is(err, ErrRetrievalUnavailable) {
		t.Errorf("expected ErrRetrievalUnavailable on keyword failure, got %v", err)
	}
}

func TestRankTieBreaksDeterministically(t *testing.T) {
	store := &stubStore{vectorResults: []passages.Scored{
		scored("b", 0.7, plainShirt()),
		scored("a", 0.7, plainShirt()),
	}}
	r := New(&stubEmbedder{vec: []float32{1}}, store, Options{})

	tv := taste.Default()
	tv.Comfort = 0.8

	got, err := r.Rank(context.Background(), "셔츠", tv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Passage.ID != "a" || got[1].Passage.ID != "b" {
		t.Errorf("equal scores must tie-break by ID: got %s, %s", got[0].Passage.ID, got[1].Passage.ID)
	}
}
