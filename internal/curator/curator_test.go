package curator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/daeunko/curator/internal/cache"
	"github.com/daeunko/curator/internal/learning"
	"github.com/daeunko/curator/internal/llm"
	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/ranker"
	"github.com/daeunko/curator/internal/taste"
)

type stubRanker struct {
	mu      sync.Mutex
	results []passages.Scored
	err     error
	calls   int
}

func (r *stubRanker) Rank(ctx context.Context, question string, tv taste.Vector) ([]passages.Scored, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]passages.Scored, len(r.results))
	copy(out, r.results)
	return out, nil
}

func (r *stubRanker) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubProvider struct {
	mu      sync.Mutex
	content string
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.content, Model: req.Model, FinishReason: "stop"}, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type stubLearner struct {
	freq   map[string]int
	logErr error
	turns  chan learning.Turn
}

func newStubLearner() *stubLearner {
	return &stubLearner{freq: map[string]int{}, turns: make(chan learning.Turn, 16)}
}

func (l *stubLearner) LogTurn(ctx context.Context, turn learning.Turn) error {
	l.turns <- turn
	return l.logErr
}

func (l *stubLearner) PatternFrequency(ctx context.Context, pattern string) (int, error) {
	return l.freq[pattern], nil
}

func (l *stubLearner) waitTurn(t *testing.T) learning.Turn {
	t.Helper()
	select {
	case turn := <-l.turns:
		return turn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a logged turn")
		return learning.Turn{}
	}
}

func rankedFixture() []passages.Scored {
	return []passages.Scored{
		{Passage: passages.Passage{ID: "p1", Metadata: passages.Metadata{ProductName: "캐시미어 코트", Category: "아우터"}}, Similarity: 0.9},
		{Passage: passages.Passage{ID: "p2", Metadata: passages.Metadata{ProductName: "린넨 셔츠", Category: "상의"}}, Similarity: 0.8},
		{Passage: passages.Passage{ID: "p1", Metadata: passages.Metadata{ProductName: "캐시미어 코트", Category: "아우터"}}, Similarity: 0.8},
		{Passage: passages.Passage{ID: "p3", Metadata: passages.Metadata{ProductName: "셀비지 데님", Category: "하의"}}, Similarity: 0.7},
		{Passage: passages.Passage{ID: "p4", Metadata: passages.Metadata{ProductName: "레더백", Category: "액세서리"}}, Similarity: 0.6},
	}
}

func newCurator(r Ranker, p llm.Provider, l Learner, fallback []passages.Passage) *Curator {
	return New(r, cache.NewMemoryCache(0), p, l, fallback, Options{})
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	c := newCurator(&stubRanker{}, &stubProvider{}, nil, nil)
	_, err := c.Answer(context.Background(), Request{Question: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnswerRejectsOutOfRangeTaste(t *testing.T) {
	c := newCurator(&stubRanker{}, &stubProvider{}, nil, nil)
	bad := taste.Default()
	bad.Boldness = 1.5
	_, err := c.Answer(context.Background(), Request{Question: "코트 추천해줘", Hexagon: &bad})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	var rangeErr *taste.RangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("expected a wrapped RangeError, got %v", err)
	}
}

func TestAnswerHappyPath(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "추천드릴게요"}
	c := newCurator(rk, provider, nil, nil)

	resp, err := c.Answer(context.Background(), Request{Question: "겨울 코트 추천해주세요"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Origin != OriginModel {
		t.Errorf("Origin = %s, want model", resp.Origin)
	}
	if !strings.HasPrefix(resp.Answer, "추천드릴게요") {
		t.Errorf("answer should start with the model text, got %q", resp.Answer)
	}
	if len(resp.Sources) != 3 {
		t.Fatalf("sources should be capped at 3, got %d", len(resp.Sources))
	}
	seen := map[string]bool{}
	for _, s := range resp.Sources {
		if seen[s.ID] {
			t.Errorf("duplicate source %s", s.ID)
		}
		seen[s.ID] = true
	}
	if resp.Sources[0].ID != "p1" || resp.Sources[1].ID != "p2" || resp.Sources[2].ID != "p3" {
		t.Errorf("unexpected source order: %+v", resp.Sources)
	}
}

func TestAnswerSecondCallHitsCache(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "추천드릴게요"}
	c := newCurator(rk, provider, nil, nil)

	req := Request{Question: "겨울 코트 추천해주세요"}
	first, err := c.Answer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Answer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount() != 1 {
		t.Errorf("provider should be called once, got %d", provider.callCount())
	}
	if rk.callCount() != 1 {
		t.Errorf("ranker should be called once, got %d", rk.callCount())
	}
	if second.Origin != OriginCache {
		t.Errorf("second Origin = %s, want cache", second.Origin)
	}
	if second.Answer != first.Answer {
		t.Error("cached answer must be returned verbatim")
	}
	if len(second.Sources) != len(first.Sources) {
		t.Error("cached sources must be returned verbatim")
	}
}

func TestAnswerWhitespaceVariantsShareCacheKey(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "추천드릴게요"}
	c := newCurator(rk, provider, nil, nil)

	if _, err := c.Answer(context.Background(), Request{Question: "겨울 코트 추천해주세요"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Answer(context.Background(), Request{Question: "  겨울   코트 추천해주세요 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Origin != OriginCache {
		t.Errorf("normalized variant should hit the cache, got origin %s", resp.Origin)
	}
}

func TestAnswerQuotaFallbackUsesStaticList(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{err: &llm.QuotaError{Provider: "google", Err: errors.New("quota exceeded")}}
	c := newCurator(rk, provider, nil, DefaultFallback())

	resp, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if err != nil {
		t.Fatalf("quota exhaustion must not surface an error, got %v", err)
	}
	if resp.Origin != OriginQuotaFallback {
		t.Errorf("Origin = %s, want quota_fallback", resp.Origin)
	}
	// Retrieval may itself be degraded, so the ranked passages are never
	// cited here: every source comes from the curated list.
	if len(resp.Sources) != 3 {
		t.Fatalf("expected 3 static sources, got %d", len(resp.Sources))
	}
	for _, src := range resp.Sources {
		if !strings.HasPrefix(src.ID, "fallback-") {
			t.Errorf("source %q is a ranked passage, want one from the static list", src.ID)
		}
	}
	if !strings.Contains(resp.Answer, "이태리 캐시미어 싱글 코트") {
		t.Errorf("fallback answer should name the curated products, got %q", resp.Answer)
	}
}

func TestAnswerGenericErrorFallback(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{err: errors.New("boom")}
	c := newCurator(rk, provider, nil, DefaultFallback())

	resp, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if err != nil {
		t.Fatalf("generation failure must not surface an error, got %v", err)
	}
	if resp.Origin != OriginErrorFallback {
		t.Errorf("Origin = %s, want error_fallback", resp.Origin)
	}
	for _, src := range resp.Sources {
		if !strings.HasPrefix(src.ID, "fallback-") {
			t.Errorf("source %q is a ranked passage, want one from the static list", src.ID)
		}
	}
}

func TestAnswerGenerationDownWithoutStaticList(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{err: &llm.QuotaError{Provider: "google", Err: errors.New("quota exceeded")}}
	c := newCurator(rk, provider, nil, nil)

	_, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable with no static list configured, got %v", err)
	}
	if !llm.IsQuota(err) {
		t.Errorf("quota cause should stay in the chain, got %v", err)
	}
}

func TestAnswerRetrievalDownUsesStaticList(t *testing.T) {
	rk := &stubRanker{err: ranker.ErrRetrievalUnavailable}
	provider := &stubProvider{content: "unused"}
	c := newCurator(rk, provider, nil, DefaultFallback())

	resp, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if err != nil {
		t.Fatalf("retrieval failure must not surface an error, got %v", err)
	}
	if resp.Origin != OriginErrorFallback {
		t.Errorf("Origin = %s, want error_fallback", resp.Origin)
	}
	if provider.callCount() != 0 {
		t.Error("generation must be skipped when retrieval is down")
	}
	if len(resp.Sources) != 3 {
		t.Errorf("expected 3 static sources, got %d", len(resp.Sources))
	}
}

func TestAnswerTotalFailure(t *testing.T) {
	rk := &stubRanker{err: ranker.ErrRetrievalUnavailable}
	c := newCurator(rk, &stubProvider{}, nil, nil)

	_, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable with no fallback configured, got %v", err)
	}
}

func TestAnswerPresetShortCircuit(t *testing.T) {
	learner := newStubLearner()
	learner.freq["소재 정보 질문"] = 5

	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "unused"}
	c := New(rk, cache.NewMemoryCache(0), provider, learner, DefaultFallback(), Options{})

	resp, err := c.Answer(context.Background(), Request{Question: "캐시미어가 뭐야?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Origin != OriginPreset {
		t.Errorf("Origin = %s, want preset", resp.Origin)
	}
	if provider.callCount() != 0 || rk.callCount() != 0 {
		t.Error("preset answers must skip retrieval and generation")
	}
	if !strings.Contains(resp.Answer, "캐시미어") {
		t.Errorf("unexpected preset answer: %q", resp.Answer)
	}
	learner.waitTurn(t)
}

func TestAnswerPresetBelowThresholdRunsPipeline(t *testing.T) {
	learner := newStubLearner()
	learner.freq["소재 정보 질문"] = 1

	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "생성된 답변"}
	c := New(rk, cache.NewMemoryCache(0), provider, learner, nil, Options{})

	resp, err := c.Answer(context.Background(), Request{Question: "캐시미어가 뭐야?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Origin != OriginModel {
		t.Errorf("Origin = %s, want model", resp.Origin)
	}
	learner.waitTurn(t)
}

func TestAnswerLogsTurnDetached(t *testing.T) {
	learner := newStubLearner()
	rk := &stubRanker{results: rankedFixture()}
	c := New(rk, cache.NewMemoryCache(0), &stubProvider{content: "답변"}, learner, nil, Options{})

	if _, err := c.Answer(context.Background(), Request{Question: "캐시미어 코트 추천해주세요", SessionID: "s-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turn := learner.waitTurn(t)
	if turn.SessionID != "s-1" {
		t.Errorf("SessionID = %q, want s-1", turn.SessionID)
	}
	if turn.Type != learning.TypeRequest {
		t.Errorf("Type = %s, want request", turn.Type)
	}
	if len(turn.Keywords) == 0 {
		t.Error("expected extracted keywords on the logged turn")
	}
}

func TestAnswerSurvivesLoggingFailure(t *testing.T) {
	learner := newStubLearner()
	learner.logErr = errors.New("db down")

	rk := &stubRanker{results: rankedFixture()}
	c := New(rk, cache.NewMemoryCache(0), &stubProvider{content: "답변"}, learner, nil, Options{})

	resp, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"})
	if err != nil {
		t.Fatalf("logging failure must not affect the response, got %v", err)
	}
	if resp.Origin != OriginModel {
		t.Errorf("Origin = %s, want model", resp.Origin)
	}
	learner.waitTurn(t)
}

func TestDistinctTasteVectorsGetDistinctCacheKeys(t *testing.T) {
	rk := &stubRanker{results: rankedFixture()}
	provider := &stubProvider{content: "답변"}
	c := newCurator(rk, provider, nil, nil)

	bold := taste.Default()
	bold.Boldness = 0.9

	if _, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Answer(context.Background(), Request{Question: "코트 추천해주세요", Hexagon: &bold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Origin != OriginModel {
		t.Errorf("different taste must miss the cache, got origin %s", resp.Origin)
	}
	if provider.callCount() != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.callCount())
	}
}
