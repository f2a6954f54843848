package embeddings

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
)

const (
	DefaultOllamaURL   = "http://localhost:11434/api"
	DefaultOllamaModel = "nomic-embed-text"
)

// OllamaConfig holds configuration for a local Ollama server.
type OllamaConfig struct {
	// BaseURL is the Ollama API root including the /api suffix.
	BaseURL string
	Model   string
}

// OllamaProvider embeds text through Ollama using chromem-go's embedding
// function.
type OllamaProvider struct {
	embed chromem.EmbeddingFunc
	model string
}

// NewOllamaProvider creates an Ollama provider.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}

	return &OllamaProvider{
		embed: chromem.NewEmbeddingFuncOllama(cfg.Model, strings.TrimRight(cfg.BaseURL, "/")),
		model: cfg.Model,
	}, nil
}

// Fetch embeds one text.
func (p *OllamaProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	vector, err := p.embed(ctx, text)
	if err != nil {
		return RawOutput{}, fmt.Errorf("ollama: %w", err)
	}
	return RawOutput{Vector: vector}, nil
}

// Model returns the model name.
func (p *OllamaProvider) Model() string {
	return p.model
}

// Close is a no-op.
func (p *OllamaProvider) Close() error {
	return nil
}
