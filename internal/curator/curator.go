// Package curator orchestrates the answer pipeline: validate, check the
// learned presets and the response cache, retrieve passages, generate a
// grounded answer, and degrade gracefully when generation is unavailable.
package curator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daeunko/curator/internal/cache"
	"github.com/daeunko/curator/internal/learning"
	"github.com/daeunko/curator/internal/llm"
	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/ranker"
	"github.com/daeunko/curator/internal/taste"
)

// ErrInvalidInput marks requests rejected before any external call.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnavailable is returned only when both the primary pipeline and every
// fallback are out of reach.
var ErrUnavailable = errors.New("recommendation pipeline unavailable")

// Origin tells the caller which path produced the answer.
type Origin string

const (
	OriginModel         Origin = "model"
	OriginCache         Origin = "cache"
	OriginPreset        Origin = "preset"
	OriginQuotaFallback Origin = "quota_fallback"
	OriginErrorFallback Origin = "error_fallback"
)

// Source is the citation shape returned with every answer. It aliases the
// cache entry shape so cached hits come back verbatim.
type Source = cache.Source

// Request is one question with an optional taste profile. A nil Hexagon
// means the neutral default. SessionID groups turns for the learner and is
// generated when empty.
type Request struct {
	Question  string        `json:"question"`
	Hexagon   *taste.Vector `json:"hexagon,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
}

// Response is the answer payload.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Origin  Origin   `json:"origin"`
}

// Ranker retrieves ranked passages for a question.
type Ranker interface {
	Rank(ctx context.Context, question string, tv taste.Vector) ([]passages.Scored, error)
}

// Learner is the slice of the conversation learner the curator needs.
type Learner interface {
	LogTurn(ctx context.Context, turn learning.Turn) error
	PatternFrequency(ctx context.Context, pattern string) (int, error)
}

// Options tune the synthesizer.
type Options struct {
	// Model passed to the generation provider.
	Model string
	// MaxSources caps how many citations a response carries.
	MaxSources int
	// PresetThreshold is the learned frequency a question pattern needs
	// before its canned answer short-circuits the pipeline. Zero disables
	// presets entirely.
	PresetThreshold int
	// MaxTokens and Temperature are forwarded to the provider.
	MaxTokens   int
	Temperature float64
	// LogTimeout bounds the detached logging goroutine.
	LogTimeout time.Duration
}

// DefaultOptions match the reference behavior.
func DefaultOptions() Options {
	return Options{
		Model:           "gemini-2.0-flash",
		MaxSources:      3,
		PresetThreshold: 3,
		MaxTokens:       1024,
		Temperature:     0.7,
		LogTimeout:      5 * time.Second,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.MaxSources <= 0 {
		o.MaxSources = d.MaxSources
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = d.MaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = d.Temperature
	}
	if o.LogTimeout <= 0 {
		o.LogTimeout = d.LogTimeout
	}
	return o
}

// Curator is the answer synthesizer.
type Curator struct {
	ranker   Ranker
	cache    cache.Cache
	provider llm.Provider
	learner  Learner
	fallback []passages.Passage
	opts     Options
}

// New wires a curator. provider should already be paced; learner may be
// nil to disable logging and presets; fallback may be nil to run without a
// static product list.
func New(r Ranker, c cache.Cache, provider llm.Provider, learner Learner, fallback []passages.Passage, opts Options) *Curator {
	return &Curator{
		ranker:   r,
		cache:    c,
		provider: provider,
		learner:  learner,
		fallback: fallback,
		opts:     opts.normalized(),
	}
}

// Answer runs the full pipeline for one question.
func (c *Curator) Answer(ctx context.Context, req Request) (*Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}

	tv := taste.Default()
	if req.Hexagon != nil {
		tv = *req.Hexagon
	}
	if err := tv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	cls := learning.Classify(question)

	if resp := c.presetAnswer(ctx, question, cls); resp != nil {
		c.logTurn(req, cls, tv, resp)
		return resp, nil
	}

	key := cache.Fingerprint(question, tv)
	if entry, ok := c.cache.Get(key); ok {
		resp := &Response{Answer: entry.Answer, Sources: entry.Sources, Origin: OriginCache}
		c.logTurn(req, cls, tv, resp)
		return resp, nil
	}

	ranked, err := c.ranker.Rank(ctx, question, tv)
	if err != nil {
		if errors.Is(err, ranker.ErrRetrievalUnavailable) {
			resp, derr := c.degradedResponse(causeError)
			if derr != nil {
				return nil, derr
			}
			c.logTurn(req, cls, tv, resp)
			return resp, nil
		}
		return nil, err
	}

	answer, err := c.generate(ctx, question, tv, ranked)
	if err != nil {
		cause := causeError
		if llm.IsQuota(err) {
			cause = causeQuota
		}
		log.Printf("curator: generation failed (%s): %v", cause, err)
		resp, derr := c.degradedResponse(cause)
		if derr != nil {
			// Keep the generation error in the chain so the server can
			// distinguish quota exhaustion from a plain outage.
			return nil, fmt.Errorf("%w: %w", derr, err)
		}
		c.logTurn(req, cls, tv, resp)
		return resp, nil
	}

	if follow := learning.FollowUp(cls.Type, cls.Tone, learning.RuneLen(answer)); follow != "" {
		answer = answer + "\n\n" + follow
	}

	sources := toSources(ranked, c.opts.MaxSources)
	c.cache.Put(key, cache.Entry{Answer: answer, Sources: sources})

	resp := &Response{Answer: answer, Sources: sources, Origin: OriginModel}
	c.logTurn(req, cls, tv, resp)
	return resp, nil
}

// presetAnswer short-circuits questions whose pattern has been asked often
// enough that a canned answer is safe. Best effort: any lookup failure just
// falls through to the full pipeline.
func (c *Curator) presetAnswer(ctx context.Context, question string, cls learning.Classification) *Response {
	if c.learner == nil || c.opts.PresetThreshold <= 0 || cls.Type != learning.TypeQuestion {
		return nil
	}
	pattern, ok := learning.QuestionPattern(question)
	if !ok {
		return nil
	}
	freq, err := c.learner.PatternFrequency(ctx, pattern)
	if err != nil || freq < c.opts.PresetThreshold {
		return nil
	}
	answer, ok := learning.PresetAnswer(pattern)
	if !ok {
		return nil
	}
	return &Response{
		Answer:  answer,
		Sources: toSources(scoredFallback(c.fallback), c.opts.MaxSources),
		Origin:  OriginPreset,
	}
}

// generate calls the paced provider with the grounded prompt.
func (c *Curator) generate(ctx context.Context, question string, tv taste.Vector, ranked []passages.Scored) (string, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.opts.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildSystemPrompt(tv)},
			{Role: llm.RoleUser, Content: buildUserPrompt(question, ranked)},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", errors.New("provider returned an empty answer")
	}
	return answer, nil
}

// logTurn records the turn on a detached goroutine. A fresh context keeps
// the write alive after the request context is cancelled, and a recover
// guarantees a panicking learner can never take the response path down.
func (c *Curator) logTurn(req Request, cls learning.Classification, tv taste.Vector, resp *Response) {
	if c.learner == nil {
		return
	}
	turn := learning.Turn{
		SessionID:   req.SessionID,
		UserMessage: strings.TrimSpace(req.Question),
		AIResponse:  resp.Answer,
		Type:        cls.Type,
		Tone:        cls.Tone,
		Keywords:    cls.Keywords,
		Taste:       tv,
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("curator: turn logging panicked: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.LogTimeout)
		defer cancel()
		if err := c.learner.LogTurn(ctx, turn); err != nil {
			log.Printf("curator: turn logging failed: %v", err)
		}
	}()
}

// toSources converts ranked passages to response citations, deduplicated by
// ID and capped.
func toSources(ranked []passages.Scored, max int) []Source {
	seen := make(map[string]bool, len(ranked))
	sources := make([]Source, 0, max)
	for _, s := range ranked {
		if seen[s.Passage.ID] {
			continue
		}
		seen[s.Passage.ID] = true
		sources = append(sources, Source{
			ID:          s.Passage.ID,
			ProductName: s.Passage.Metadata.ProductName,
			Category:    s.Passage.Metadata.Category,
			Similarity:  s.Similarity,
		})
		if len(sources) == max {
			break
		}
	}
	return sources
}
