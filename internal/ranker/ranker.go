// Package ranker turns a question and a taste profile into a ranked
// shortlist of passages, blending semantic similarity with taste-driven
// metadata boosts.
package ranker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/taste"
)

// ErrRetrievalUnavailable signals that the passage store could not serve
// the query at all. The answer synthesizer recovers with its static
// fallback list.
var ErrRetrievalUnavailable = errors.New("passage retrieval unavailable")

// Embedder is the slice of the embedding gateway the ranker needs.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Store is the slice of the passage store the ranker needs.
type Store interface {
	QueryByVector(ctx context.Context, vec []float32, limit int) ([]passages.Scored, error)
	SearchKeyword(ctx context.Context, query string, limit int) ([]passages.Scored, error)
}

// Options tune the retrieval shortlist.
type Options struct {
	// TopK is how many passages are returned.
	TopK int
	// Candidates is how many similarity candidates are fetched before
	// re-ranking.
	Candidates int
	// BoostWeight caps how far a taste boost can lift a passage: with the
	// multiplicative blend, a passage can only overtake candidates whose
	// similarity is within BoostWeight of its own (relative).
	BoostWeight float64
}

// DefaultOptions match the reference behavior.
func DefaultOptions() Options {
	return Options{TopK: 3, Candidates: 20, BoostWeight: 0.15}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.TopK <= 0 {
		o.TopK = d.TopK
	}
	if o.Candidates <= 0 {
		o.Candidates = d.Candidates
	}
	if o.Candidates < o.TopK {
		o.Candidates = o.TopK
	}
	if o.BoostWeight <= 0 {
		o.BoostWeight = d.BoostWeight
	}
	return o
}

// Ranker retrieves and re-ranks passages for a question.
type Ranker struct {
	embedder Embedder
	store    Store
	opts     Options
}

// New creates a ranker over the given embedder and store.
func New(embedder Embedder, store Store, opts Options) *Ranker {
	return &Ranker{embedder: embedder, store: store, opts: opts.normalized()}
}

// Rank returns the top passages for the question, re-ranked by the taste
// profile unless it is the neutral default. Embedding failure degrades to
// keyword retrieval; store failure returns ErrRetrievalUnavailable.
func (r *Ranker) Rank(ctx context.Context, question string, tv taste.Vector) ([]passages.Scored, error) {
	candidates, err := r.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	if tv.IsDefault() {
		// No taste signal: blending boosts would only inject noise, so
		// pure similarity order stands.
		if len(candidates) > r.opts.TopK {
			candidates = candidates[:r.opts.TopK]
		}
		return candidates, nil
	}

	for i := range candidates {
		b := boost(tv, candidates[i].Passage.Metadata)
		candidates[i].Boost = b
		candidates[i].FinalScore = float64(candidates[i].Similarity) * (1 + r.opts.BoostWeight*b)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.Passage.ID < b.Passage.ID
	})

	if len(candidates) > r.opts.TopK {
		candidates = candidates[:r.opts.TopK]
	}
	return candidates, nil
}

// retrieve fetches the candidate pool: vector search when the question can
// be embedded, keyword overlap otherwise.
func (r *Ranker) retrieve(ctx context.Context, question string) ([]passages.Scored, error) {
	vec, err := r.embedder.EmbedOne(ctx, question)
	if err != nil {
		// No semantic signal; fall back to keyword retrieval so the
		// pipeline still returns something.
		log.Printf("ranker: embedding failed, using keyword retrieval: %v", err)
		results, kerr := r.store.SearchKeyword(ctx, question, r.opts.Candidates)
		if kerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, kerr)
		}
		return results, nil
	}

	results, err := r.store.QueryByVector(ctx, vec, r.opts.Candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	return results, nil
}
