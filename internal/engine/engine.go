// Package engine scores code snippets for similarity.
//
// An Engine owns one preprocessor, one embedding cache and one provider
// adapter. Every scoring call returns a number: when an embedding cannot be
// obtained, or the cosine of two embeddings is undefined, the pair is scored
// with the token-frequency fallback instead.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fyrsmithlabs/codesim/internal/cache"
	"github.com/fyrsmithlabs/codesim/internal/embeddings"
	"github.com/fyrsmithlabs/codesim/internal/logging"
	"github.com/fyrsmithlabs/codesim/internal/preprocess"
	"github.com/fyrsmithlabs/codesim/internal/secrets"
	"github.com/fyrsmithlabs/codesim/internal/similarity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/codesim/internal/engine"

// Fallback reasons, used as log fields and metric attributes.
const (
	reasonNoEmbedding = "no_embedding"
	reasonNaN         = "nan"
)

// Engine computes similarity scores. It is safe for concurrent use.
type Engine struct {
	pre            *preprocess.Preprocessor
	cache          *cache.Cache
	adapter        *embeddings.Adapter
	scrubber       secrets.Scrubber
	logger         *logging.Logger
	tracer         trace.Tracer
	maxConcurrency int

	scored    atomic.Uint64
	fallbacks atomic.Uint64
}

// New creates an Engine that embeds through adapter.
func New(cfg Config, adapter *embeddings.Adapter, opts ...Option) (*Engine, error) {
	if adapter == nil {
		return nil, fmt.Errorf("engine: adapter is required")
	}
	if cfg.CacheCapacity == 0 {
		cfg.CacheCapacity = cache.DefaultCapacity
	}
	c, err := cache.New(cfg.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}

	e := &Engine{
		pre:            preprocess.New(cfg.Profile, preprocess.WithMaxLength(cfg.MaxLength)),
		cache:          c,
		adapter:        adapter,
		scrubber:       secrets.NoopScrubber{},
		logger:         logging.Nop(),
		tracer:         otel.Tracer(instrumentationName),
		maxConcurrency: cfg.MaxConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")
	return e, nil
}

// Normalize returns the text the engine would embed for code.
func (e *Engine) Normalize(code string) string {
	return e.pre.Normalize(e.scrub(code))
}

// ScoreSnippetPair returns the similarity of two code texts as a whole
// percentage in [0,100].
func (e *Engine) ScoreSnippetPair(ctx context.Context, code1, code2 string) int {
	return e.ScorePair(ctx, code1, code2).Percent()
}

// ScorePair returns the similarity of two code texts as a fraction in [0,1].
func (e *Engine) ScorePair(ctx context.Context, code1, code2 string) similarity.Score {
	ctx, span := e.tracer.Start(ctx, "engine.ScorePair")
	defer span.End()

	a, b := e.prepare(ctx, code1), e.prepare(ctx, code2)
	score, method := e.compare(ctx, a, b)

	span.SetAttributes(
		attribute.Float64("score", float64(score)),
		attribute.String("method", method),
	)
	return score
}

// prepared is a snippet after scrubbing, normalization and embedding.
type prepared struct {
	code   string
	vector []float32
}

func (e *Engine) prepare(ctx context.Context, code string) prepared {
	scrubbed := e.scrub(code)
	return prepared{code: scrubbed, vector: e.embed(ctx, scrubbed)}
}

func (e *Engine) scrub(code string) string {
	if !e.scrubber.IsEnabled() {
		return code
	}
	return e.scrubber.Scrub(code).Scrubbed
}

// embed returns the cached or freshly fetched vector for code, or nil.
func (e *Engine) embed(ctx context.Context, code string) []float32 {
	normalized := e.pre.Normalize(code)
	if normalized == "" {
		return nil
	}
	key := cache.DeriveKey(normalized)
	return e.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]float32, error) {
		return e.adapter.Embed(ctx, normalized)
	})
}

// compare scores two prepared snippets and reports which method was used.
func (e *Engine) compare(ctx context.Context, a, b prepared) (similarity.Score, string) {
	e.scored.Add(1)

	if len(a.vector) == 0 || len(b.vector) == 0 {
		return e.fallback(ctx, a, b, reasonNoEmbedding), "fallback"
	}

	score, ok := similarity.Cosine(a.vector, b.vector)
	if !ok {
		return e.fallback(ctx, a, b, reasonNaN), "fallback"
	}
	return score, "embedding"
}

func (e *Engine) fallback(ctx context.Context, a, b prepared, reason string) similarity.Score {
	e.fallbacks.Add(1)
	e.adapter.RecordFallback(ctx, reason)

	score := similarity.Fallback(a.code, b.code)
	e.logger.Debug(ctx, "pair scored with fallback",
		zap.String("reason", reason),
		zap.Float64("score", float64(score)),
	)
	return score
}

// Stats summarizes engine activity since construction.
type Stats struct {
	Cache     cache.Stats `json:"cache"`
	Scored    uint64      `json:"scored"`
	Fallbacks uint64      `json:"fallbacks"`
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Cache:     e.cache.Stats(),
		Scored:    e.scored.Load(),
		Fallbacks: e.fallbacks.Load(),
	}
}
