package embeddings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrMalformedOutput indicates the provider answered with data that does not
// pool to a usable vector (empty, ragged or non-finite).
var ErrMalformedOutput = errors.New("malformed embedding output")

// DefaultTimeout bounds a provider call when AdapterConfig.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// AdapterConfig controls the call envelope around a provider.
type AdapterConfig struct {
	// Timeout bounds each call, including any rate-limit wait.
	Timeout time.Duration
	// RateLimit is the sustained calls per second; 0 disables limiting.
	RateLimit float64
	// RateBurst is the limiter bucket size; values below 1 are treated as 1.
	RateBurst int
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *logging.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the adapter metrics.
func WithMetrics(m *Metrics) AdapterOption {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// Adapter wraps a Fetcher with a timeout, a rate limit, metrics and logging.
// Every failure it returns wraps ErrUnavailable.
type Adapter struct {
	fetcher Fetcher
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	metrics *Metrics
	logger  *logging.Logger
}

// NewAdapter creates an Adapter around f.
func NewAdapter(f Fetcher, cfg AdapterConfig, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		fetcher: f,
		timeout: cfg.Timeout,
		logger:  logging.Nop(),
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	if m, ok := f.(interface{ Model() string }); ok {
		a.model = m.Model()
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("embeddings")
	return a
}

// Model returns the model name of the wrapped provider, if it reports one.
func (a *Adapter) Model() string {
	return a.model
}

// Fetch calls the provider within the configured timeout.
func (a *Adapter) Fetch(ctx context.Context, text string) (RawOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.fetch(ctx, text)
	elapsed := time.Since(start)
	a.metrics.RecordGeneration(ctx, a.model, elapsed, err)

	if err != nil {
		a.logger.Warn(ctx, "embedding provider unavailable",
			zap.String("model", a.model),
			zap.Duration("duration", elapsed),
			logging.SnippetDigest("snippet_digest", text),
			zap.Error(err),
		)
		return RawOutput{}, err
	}

	a.logger.Debug(ctx, "embedding fetched",
		zap.String("model", a.model),
		zap.Duration("duration", elapsed),
		zap.Int("dimension", max(len(out.Vector), tokenDim(out.Tokens))),
		zap.Int("tokens", len(out.Tokens)),
	)
	return out, nil
}

func (a *Adapter) fetch(ctx context.Context, text string) (RawOutput, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return RawOutput{}, fmt.Errorf("%w: rate limit wait: %v", ErrUnavailable, err)
		}
	}

	out, err := a.fetcher.Fetch(ctx, text)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return RawOutput{}, err
		}
		return RawOutput{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if out.IsEmpty() {
		return RawOutput{}, fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return out, nil
}

// Embed fetches and pools one text into a unit vector.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := a.Fetch(ctx, text)
	if err != nil {
		return nil, err
	}
	v := Pool(out)
	if len(v) == 0 {
		a.logger.Warn(ctx, "embedding output rejected",
			zap.String("model", a.model),
			zap.Int("tokens", len(out.Tokens)),
		)
		return nil, ErrMalformedOutput
	}
	return v, nil
}

// RecordFallback counts a score computed without embeddings.
func (a *Adapter) RecordFallback(ctx context.Context, reason string) {
	a.metrics.RecordFallback(ctx, reason)
}

func tokenDim(tokens [][]float32) int {
	if len(tokens) == 0 {
		return 0
	}
	return len(tokens[0])
}
