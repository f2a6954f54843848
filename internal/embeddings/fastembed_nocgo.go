//go:build !cgo

package embeddings

import (
	"context"
	"errors"
)

// ErrFastEmbedNotAvailable is returned when the binary was built without cgo.
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without CGO support, use the tei provider instead)")

// FastEmbedConfig holds configuration for the FastEmbed provider.
type FastEmbedConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
}

// FastEmbedProvider is a stub for non-cgo builds.
type FastEmbedProvider struct{}

// NewFastEmbedProvider returns ErrFastEmbedNotAvailable.
func NewFastEmbedProvider(_ FastEmbedConfig) (*FastEmbedProvider, error) {
	return nil, ErrFastEmbedNotAvailable
}

// Fetch returns ErrFastEmbedNotAvailable.
func (p *FastEmbedProvider) Fetch(_ context.Context, _ string) (RawOutput, error) {
	return RawOutput{}, ErrFastEmbedNotAvailable
}

// Model returns an empty string.
func (p *FastEmbedProvider) Model() string {
	return ""
}

// Close is a no-op.
func (p *FastEmbedProvider) Close() error {
	return nil
}
