//go:build cgo

package embeddings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedConfig holds configuration for the FastEmbed provider.
type FastEmbedConfig struct {
	// Model is a friendly or fastembed model name. Defaults to
	// BAAI/bge-small-en-v1.5.
	Model string

	// CacheDir is the model download directory. Defaults to
	// ~/.cache/codesim/models.
	CacheDir string

	// MaxLength is the maximum input sequence length in tokens.
	MaxLength int
}

// FastEmbedProvider embeds text with a local ONNX model.
type FastEmbedProvider struct {
	model     *fastembed.FlagEmbedding
	modelName string
	mu        sync.RWMutex
}

var modelMapping = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// NewFastEmbedProvider loads the model, downloading it on first use.
func NewFastEmbedProvider(cfg FastEmbedConfig) (*FastEmbedProvider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultFastEmbedModel
	}
	model, ok := modelMapping[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported fastembed model %q", ErrInvalidConfig, cfg.Model)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = defaultModelCacheDir()
	}

	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}

	showProgress := false
	flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing FastEmbed: %w", err)
	}

	return &FastEmbedProvider{
		model:     flagEmbed,
		modelName: cfg.Model,
	}, nil
}

// Fetch embeds one text as a passage. Both sides of a comparison go through
// the same prefix so scores stay symmetric.
func (p *FastEmbedProvider) Fetch(ctx context.Context, text string) (RawOutput, error) {
	if text == "" {
		return RawOutput{}, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	select {
	case <-ctx.Done():
		return RawOutput{}, ctx.Err()
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	vectors, err := p.model.PassageEmbed([]string{text}, 1)
	if err != nil {
		return RawOutput{}, fmt.Errorf("fastembed: %w", err)
	}
	if len(vectors) == 0 {
		return RawOutput{}, fmt.Errorf("fastembed: no embeddings returned")
	}
	return RawOutput{Vector: vectors[0]}, nil
}

// Model returns the configured model name.
func (p *FastEmbedProvider) Model() string {
	return p.modelName
}

// Close releases the ONNX session.
func (p *FastEmbedProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.model != nil {
		err := p.model.Destroy()
		p.model = nil
		return err
	}
	return nil
}

func defaultModelCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "local_cache")
	}
	return filepath.Join(dir, "codesim", "models")
}
