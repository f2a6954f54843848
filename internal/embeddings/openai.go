package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	DefaultOpenAIURL   = "https://api.openai.com/v1"
	DefaultOpenAIModel = "text-embedding-3-small"
)

// OpenAIConfig holds configuration for an OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint through
// langchaingo. Any server speaking that protocol works, including TEI's
// OpenAI route and vLLM.
type OpenAIProvider struct {
	embedder *lcembeddings.EmbedderImpl
	model    string
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for servers that ignore it
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return &OpenAIProvider{
		embedder: embedder,
		model:    cfg.Model,
	}, nil
}

// Fetch embeds one text.
func (p *OpenAIProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return RawOutput{}, fmt.Errorf("openai: %w", err)
	}
	return RawOutput{Vector: vector}, nil
}

// Model returns the embedding model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Close is a no-op.
func (p *OpenAIProvider) Close() error {
	return nil
}
