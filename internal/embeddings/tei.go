package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TEIConfig holds configuration for a Text Embeddings Inference server.
type TEIConfig struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string

	// Model is informational; TEI serves one model per instance.
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// TokenLevel requests per-token vectors from /embed_all and leaves
	// pooling to the caller.
	TokenLevel bool
}

// Validate validates the configuration.
func (c TEIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	return nil
}

// TEIProvider fetches embeddings from a TEI server.
type TEIProvider struct {
	config TEIConfig
	client *http.Client
}

// teiRequest is the request body for the TEI embed endpoints.
type teiRequest struct {
	Inputs   string `json:"inputs"`
	Truncate bool   `json:"truncate"`
}

// NewTEIProvider creates a TEI provider.
func NewTEIProvider(cfg TEIConfig) (*TEIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &TEIProvider{
		config: cfg,
		client: &http.Client{},
	}, nil
}

// Fetch embeds one text. With TokenLevel set the result carries per-token
// vectors, otherwise the server-pooled vector.
func (p *TEIProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	var headers map[string]string
	if p.config.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	}

	req := teiRequest{Inputs: text, Truncate: true}

	if p.config.TokenLevel {
		body, err := postJSON(ctx, p.client, p.config.BaseURL+"/embed_all", headers, req)
		if err != nil {
			return RawOutput{}, err
		}
		return DecodeRawOutput(body)
	}

	body, err := postJSON(ctx, p.client, p.config.BaseURL+"/embed", headers, req)
	if err != nil {
		return RawOutput{}, err
	}

	var vectors [][]float32
	if err := json.Unmarshal(body, &vectors); err != nil {
		return RawOutput{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(vectors) == 0 {
		return RawOutput{}, fmt.Errorf("decoding response: no embeddings returned")
	}
	return RawOutput{Vector: vectors[0]}, nil
}

// Model returns the configured model name.
func (p *TEIProvider) Model() string {
	return p.config.Model
}

// Close is a no-op.
func (p *TEIProvider) Close() error {
	return nil
}
