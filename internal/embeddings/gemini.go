package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the default Gemini embedding model.
const DefaultGeminiModel = "gemini-embedding-001"

// GeminiConfig holds configuration for the Gemini API.
type GeminiConfig struct {
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
	Model   string
	APIKey  string
}

// GeminiProvider embeds text with a Gemini embedding model.
type GeminiProvider struct {
	client *genai.Client
	model  string
	config *genai.EmbedContentConfig
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini requires an API key", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
		config: &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"},
	}, nil
}

// Fetch embeds one text.
func (p *GeminiProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	resp, err := p.client.Models.EmbedContent(ctx, p.model, genai.Text(text), p.config)
	if err != nil {
		return RawOutput{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return RawOutput{}, fmt.Errorf("gemini: no embeddings returned")
	}
	return RawOutput{Vector: resp.Embeddings[0].Values}, nil
}

// Model returns the embedding model name.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (p *GeminiProvider) Close() error {
	return nil
}
