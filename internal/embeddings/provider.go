package embeddings

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/codesim/internal/config"
)

const (
	DefaultTEIURL         = "http://localhost:8080"
	DefaultFastEmbedModel = "BAAI/bge-small-en-v1.5"
)

// Provider names accepted by NewProvider.
const (
	ProviderNone        = "none"
	ProviderTEI         = "tei"
	ProviderHuggingFace = "huggingface"
	ProviderFastEmbed   = "fastembed"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
	ProviderOllama      = "ollama"
)

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the backend name; empty means tei.
	Provider string
	// Model is the embedding model name; backends apply their own default.
	Model string
	// BaseURL is the backend endpoint; backends apply their own default.
	BaseURL string
	APIKey  string
	// MeanPooling requests token-level output where the backend supports it.
	MeanPooling bool
	// WaitForModel is forwarded to hosted inference APIs.
	WaitForModel bool
	// CacheDir is the model cache directory (fastembed only).
	CacheDir string
	// MaxLength bounds the input sequence length (fastembed only).
	MaxLength int
}

// ProviderConfigFrom maps the file/env embeddings section to a ProviderConfig.
func ProviderConfigFrom(ec config.EmbeddingsConfig) ProviderConfig {
	return ProviderConfig{
		Provider:     ec.Provider,
		Model:        ec.Model,
		BaseURL:      ec.BaseURL,
		APIKey:       ec.APIKey.Value(),
		MeanPooling:  ec.Pooling == "mean",
		WaitForModel: ec.WaitForModel,
		CacheDir:     ec.CacheDir,
	}
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderNone:
		return NoneProvider{}, nil
	case ProviderTEI, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultTEIURL
		}
		model := cfg.Model
		if model == "" {
			model = DefaultFastEmbedModel
		}
		return NewTEIProvider(TEIConfig{
			BaseURL:    baseURL,
			Model:      model,
			APIKey:     cfg.APIKey,
			TokenLevel: cfg.MeanPooling,
		})
	case ProviderHuggingFace:
		return NewHuggingFaceProvider(HuggingFaceConfig{
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			APIKey:       cfg.APIKey,
			WaitForModel: cfg.WaitForModel,
		})
	case ProviderFastEmbed:
		return NewFastEmbedProvider(FastEmbedConfig{
			Model:     cfg.Model,
			CacheDir:  cfg.CacheDir,
			MaxLength: cfg.MaxLength,
		})
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case ProviderGemini:
		return NewGeminiProvider(ctx, GeminiConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case ProviderOllama:
		return NewOllamaProvider(OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// NoneProvider never produces embeddings. Every comparison takes the
// fallback path.
type NoneProvider struct{}

// Fetch always returns ErrUnavailable.
func (NoneProvider) Fetch(context.Context, string) (RawOutput, error) {
	return RawOutput{}, fmt.Errorf("%w: no provider configured", ErrUnavailable)
}

// Model returns "none".
func (NoneProvider) Model() string { return ProviderNone }

// Close is a no-op.
func (NoneProvider) Close() error { return nil }
