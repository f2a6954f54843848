package embeddings

import (
	"context"
	"testing"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ProviderConfig
		wantModel string
		wantErr   bool
	}{
		{name: "none", cfg: ProviderConfig{Provider: ProviderNone}, wantModel: "none"},
		{name: "empty defaults to tei", cfg: ProviderConfig{}, wantModel: DefaultFastEmbedModel},
		{name: "tei", cfg: ProviderConfig{Provider: ProviderTEI, Model: "custom"}, wantModel: "custom"},
		{name: "huggingface", cfg: ProviderConfig{Provider: ProviderHuggingFace}, wantModel: DefaultHuggingFaceModel},
		{name: "openai", cfg: ProviderConfig{Provider: ProviderOpenAI, APIKey: "sk-test"}, wantModel: DefaultOpenAIModel},
		{name: "ollama", cfg: ProviderConfig{Provider: ProviderOllama}, wantModel: DefaultOllamaModel},
		{name: "gemini without key", cfg: ProviderConfig{Provider: ProviderGemini}, wantErr: true},
		{name: "unknown", cfg: ProviderConfig{Provider: "word2vec"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			defer p.Close()

			assert.Equal(t, tt.wantModel, p.Model())
		})
	}
}

func TestNewProvider_TEITokenLevel(t *testing.T) {
	p, err := NewProvider(context.Background(), ProviderConfig{Provider: ProviderTEI, MeanPooling: true})
	require.NoError(t, err)

	tei, ok := p.(*TEIProvider)
	require.True(t, ok)
	assert.True(t, tei.config.TokenLevel)
	assert.Equal(t, DefaultTEIURL, tei.config.BaseURL)
}

func TestNoneProvider(t *testing.T) {
	_, err := NoneProvider{}.Fetch(context.Background(), "x")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestProviderConfigFrom(t *testing.T) {
	ec := config.EmbeddingsConfig{
		Provider:     "huggingface",
		Model:        "microsoft/codebert-base",
		APIKey:       config.Secret("hf_x"),
		Timeout:      config.Duration(time.Second),
		Pooling:      "mean",
		WaitForModel: true,
		CacheDir:     "/tmp/models",
	}

	got := ProviderConfigFrom(ec)

	assert.Equal(t, ProviderConfig{
		Provider:     "huggingface",
		Model:        "microsoft/codebert-base",
		APIKey:       "hf_x",
		MeanPooling:  true,
		WaitForModel: true,
		CacheDir:     "/tmp/models",
	}, got)
}
