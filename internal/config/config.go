// Package config provides configuration loading for codesim.
//
// Configuration is assembled from hardcoded defaults, an optional YAML file
// and CODESIM_* environment variables. See LoadWithFile for precedence.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete codesim configuration.
type Config struct {
	Engine     EngineConfig     `koanf:"engine"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Privacy    PrivacyConfig    `koanf:"privacy"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// EngineConfig holds similarity engine configuration.
type EngineConfig struct {
	// Profile selects the preprocessing profile: "basic" or "extended".
	Profile string `koanf:"profile"`
	// MaxLength is the normalized text bound in characters.
	MaxLength int `koanf:"max_length"`
	// CacheCapacity bounds the embedding cache (FIFO eviction).
	CacheCapacity int `koanf:"cache_capacity"`
	// MaxConcurrency bounds parallel pair scoring inside one matrix build.
	MaxConcurrency int `koanf:"max_concurrency"`
}

// EmbeddingsConfig holds embedding provider configuration.
type EmbeddingsConfig struct {
	// Provider is one of: none, tei, huggingface, fastembed, openai, gemini, ollama.
	Provider string `koanf:"provider"`
	// Model and BaseURL fall back to per-provider defaults when empty.
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
	APIKey  Secret `koanf:"api_key"`
	// Timeout bounds a single provider call.
	Timeout Duration `koanf:"timeout"`
	// RateLimit is the sustained requests per second sent to the provider (0 = unlimited).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// Pooling selects "server" (provider pools) or "mean" (token vectors are mean-pooled locally).
	Pooling string `koanf:"pooling"`
	// WaitForModel asks hosted inference APIs to block while a cold model loads.
	WaitForModel bool `koanf:"wait_for_model"`
	// CacheDir is the model cache directory (fastembed only).
	CacheDir string `koanf:"cache_dir"`
}

// PrivacyConfig controls what leaves the process.
type PrivacyConfig struct {
	ScrubSecrets bool `koanf:"scrub_secrets"`
}

// LoggingConfig is the file/env view of logging settings.
type LoggingConfig struct {
	Level  string   `koanf:"level"`
	Format string   `koanf:"format"`
	Redact []string `koanf:"redact"`
}

// TelemetryConfig is the file/env view of OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Protocol    string  `koanf:"protocol"`
	Insecure    bool    `koanf:"insecure"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	// ErrInvalidConfig indicates a configuration value is out of range or unknown.
	ErrInvalidConfig = errors.New("invalid configuration")
)

var (
	validProfiles  = map[string]bool{"basic": true, "extended": true}
	validProviders = map[string]bool{
		"none": true, "tei": true, "huggingface": true, "fastembed": true,
		"openai": true, "gemini": true, "ollama": true,
	}
	validPooling = map[string]bool{"server": true, "mean": true}
)

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Profile:        "basic",
			MaxLength:      512,
			CacheCapacity:  1000,
			MaxConcurrency: 8,
		},
		Embeddings: EmbeddingsConfig{
			Provider:     "tei",
			Timeout:      Duration(10 * time.Second),
			RateBurst:    1,
			Pooling:      "server",
			WaitForModel: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			Protocol:    "grpc",
			Insecure:    true,
			ServiceName: "codesim",
			SampleRate:  1.0,
		},
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - the profile, provider or pooling mode is unknown
//   - the length bound, cache capacity or concurrency is not positive
//   - the provider timeout is not positive
func (c *Config) Validate() error {
	if !validProfiles[c.Engine.Profile] {
		return fmt.Errorf("%w: unknown profile %q (must be basic or extended)", ErrInvalidConfig, c.Engine.Profile)
	}
	if c.Engine.MaxLength < 4 {
		return fmt.Errorf("%w: engine.max_length must be at least 4, got %d", ErrInvalidConfig, c.Engine.MaxLength)
	}
	if c.Engine.CacheCapacity < 1 {
		return fmt.Errorf("%w: engine.cache_capacity must be positive, got %d", ErrInvalidConfig, c.Engine.CacheCapacity)
	}
	if c.Engine.MaxConcurrency < 1 {
		return fmt.Errorf("%w: engine.max_concurrency must be positive, got %d", ErrInvalidConfig, c.Engine.MaxConcurrency)
	}

	if !validProviders[c.Embeddings.Provider] {
		return fmt.Errorf("%w: unknown embeddings provider %q", ErrInvalidConfig, c.Embeddings.Provider)
	}
	if !validPooling[c.Embeddings.Pooling] {
		return fmt.Errorf("%w: embeddings.pooling must be server or mean, got %q", ErrInvalidConfig, c.Embeddings.Pooling)
	}
	if c.Embeddings.Timeout.Duration() <= 0 {
		return fmt.Errorf("%w: embeddings.timeout must be positive", ErrInvalidConfig)
	}
	if c.Embeddings.RateLimit < 0 {
		return fmt.Errorf("%w: embeddings.rate_limit cannot be negative", ErrInvalidConfig)
	}

	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return fmt.Errorf("%w: service name required when telemetry is enabled", ErrInvalidConfig)
	}

	return nil
}
