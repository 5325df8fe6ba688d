package embeddings

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EmbedError is the typed failure the gateway returns instead of letting
// transport or payload errors leak past the caller. The ranker treats it
// as "no semantic signal available" and falls back to keyword retrieval.
type EmbedError struct {
	Model string
	Err   error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embedding via %s failed: %v", e.Model, e.Err)
}

func (e *EmbedError) Unwrap() error { return e.Err }

// Gateway wraps an Embedder with a per-call timeout, a dimension check and
// at most one immediate retry on transient failures. It never loops.
type Gateway struct {
	embedder Embedder
	timeout  time.Duration
}

// NewGateway wraps the given embedder. A non-positive timeout disables the
// per-call deadline.
func NewGateway(embedder Embedder, timeout time.Duration) *Gateway {
	return &Gateway{embedder: embedder, timeout: timeout}
}

func (g *Gateway) Name() string { return g.embedder.Name() }

func (g *Gateway) Dimensions() int { return g.embedder.Dimensions() }

// Embed generates embeddings for the given texts. Dimension mismatches
// against the model's declared size are a hard failure.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	vecs, err := g.embedder.Embed(ctx, texts)
	if err != nil && retryable(err) && ctx.Err() == nil {
		vecs, err = g.embedder.Embed(ctx, texts)
	}
	if err != nil {
		return nil, &EmbedError{Model: g.embedder.Name(), Err: err}
	}

	want := g.embedder.Dimensions()
	for i, v := range vecs {
		if len(v) != want {
			return nil, &EmbedError{
				Model: g.embedder.Name(),
				Err:   fmt.Errorf("vector %d has %d dimensions, model declares %d", i, len(v), want),
			}
		}
	}

	return vecs, nil
}

// EmbedOne is a convenience for the single-question serving path.
func (g *Gateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, &EmbedError{Model: g.embedder.Name(), Err: errors.New("no embedding returned")}
	}
	return vecs[0], nil
}

// retryable reports whether the error is transient: a 5xx status or a
// transport failure. 4xx responses and malformed payloads are not retried.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	// Client-side transport errors have no status attached.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
