package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultHuggingFaceURL is the hosted Inference API root.
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models"

	// DefaultHuggingFaceModel is a token-level code model.
	DefaultHuggingFaceModel = "microsoft/codebert-base"
)

// HuggingFaceConfig holds configuration for the Hugging Face Inference API.
type HuggingFaceConfig struct {
	// BaseURL is the API root; the model id is appended as a path.
	BaseURL string
	Model   string
	APIKey  string

	// WaitForModel asks the API to block while a cold model loads instead of
	// answering 503.
	WaitForModel bool
}

// HuggingFaceProvider calls the feature-extraction pipeline of the Hugging
// Face Inference API. Token models return per-token vectors, sentence models
// return one vector; both are passed through as RawOutput.
type HuggingFaceProvider struct {
	config HuggingFaceConfig
	url    string
	client *http.Client
}

type hfRequest struct {
	Inputs  string    `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceProvider creates a Hugging Face provider.
func NewHuggingFaceProvider(cfg HuggingFaceConfig) (*HuggingFaceProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHuggingFaceURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultHuggingFaceModel
	}
	if strings.ContainsAny(cfg.Model, " ?#") {
		return nil, fmt.Errorf("%w: invalid model id %q", ErrInvalidConfig, cfg.Model)
	}

	return &HuggingFaceProvider{
		config: cfg,
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Model,
		client: &http.Client{},
	}, nil
}

// Fetch runs feature extraction for one text.
func (p *HuggingFaceProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	var headers map[string]string
	if p.config.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	}

	body, err := postJSON(ctx, p.client, p.url, headers, hfRequest{
		Inputs:  text,
		Options: hfOptions{WaitForModel: p.config.WaitForModel},
	})
	if err != nil {
		return RawOutput{}, err
	}
	return DecodeRawOutput(body)
}

// Model returns the model id.
func (p *HuggingFaceProvider) Model() string {
	return p.config.Model
}

// Close is a no-op.
func (p *HuggingFaceProvider) Close() error {
	return nil
}
