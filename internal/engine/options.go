package engine

import (
	"fmt"

	"github.com/fyrsmithlabs/codesim/internal/cache"
	"github.com/fyrsmithlabs/codesim/internal/config"
	"github.com/fyrsmithlabs/codesim/internal/logging"
	"github.com/fyrsmithlabs/codesim/internal/preprocess"
	"github.com/fyrsmithlabs/codesim/internal/secrets"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxConcurrency bounds parallel embedding fetches in one build.
const DefaultMaxConcurrency = 8

// Config holds engine construction parameters.
type Config struct {
	Profile        preprocess.Profile
	MaxLength      int
	CacheCapacity  int
	MaxConcurrency int
}

// DefaultConfig returns the basic profile with default bounds.
func DefaultConfig() Config {
	return Config{
		Profile:        preprocess.Basic,
		MaxLength:      preprocess.DefaultMaxLength,
		CacheCapacity:  cache.DefaultCapacity,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// ConfigFrom maps the file/env engine section to a Config.
func ConfigFrom(ec config.EngineConfig) (Config, error) {
	profile, err := preprocess.ParseProfile(ec.Profile)
	if err != nil {
		return Config{}, fmt.Errorf("engine profile: %w", err)
	}
	return Config{
		Profile:        profile,
		MaxLength:      ec.MaxLength,
		CacheCapacity:  ec.CacheCapacity,
		MaxConcurrency: ec.MaxConcurrency,
	}, nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer used for engine spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithScrubber redacts secrets from code before it is normalized, embedded
// or compared.
func WithScrubber(s secrets.Scrubber) Option {
	return func(e *Engine) {
		if s != nil {
			e.scrubber = s
		}
	}
}
