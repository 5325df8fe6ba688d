package llm

import (
	"context"
	"sync"
	"time"
)

// DefaultMinInterval is the reference spacing between consecutive
// generation calls, process-wide.
const DefaultMinInterval = time.Second

// Pacer wraps a Provider and enforces a minimum interval between
// consecutive outbound calls. It is deliberately not a token bucket:
// bursts are never allowed, and because the mutex is held across the wait,
// queued callers proceed strictly in arrival order.
type Pacer struct {
	provider Provider
	interval time.Duration

	mu   sync.Mutex
	last time.Time

	// Injectable for fake-clock tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer wraps the given provider with a min-interval pacer. A
// non-positive interval falls back to DefaultMinInterval.
func NewPacer(provider Provider, interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	return &Pacer{
		provider: provider,
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

func (p *Pacer) Name() string {
	return p.provider.Name()
}

func (p *Pacer) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.Complete(ctx, req)
}

// wait blocks until at least the configured interval has passed since the
// previous call was admitted. The last-call timestamp is the only shared
// mutable state; the read-modify-write happens entirely under the mutex.
func (p *Pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if remaining := p.interval - p.now().Sub(p.last); remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
