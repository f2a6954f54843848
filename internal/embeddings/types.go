package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is the single signal for any provider failure: timeout,
	// cold model, network error, bad status or undecodable response.
	ErrUnavailable = errors.New("embedding provider unavailable")

	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid embeddings configuration")

	// ErrEmptyInput indicates empty text was passed to a provider.
	ErrEmptyInput = errors.New("empty input")
)

// RawOutput is what a provider returns for one text. Exactly one of Vector or
// Tokens is set on success.
type RawOutput struct {
	// Vector is a single, already pooled embedding.
	Vector []float32
	// Tokens holds one embedding per input token.
	Tokens [][]float32
}

// IsEmpty reports whether the output carries no data.
func (r RawOutput) IsEmpty() bool {
	return len(r.Vector) == 0 && len(r.Tokens) == 0
}

// Fetcher produces embedding output for a single text.
type Fetcher interface {
	Fetch(ctx context.Context, text string) (RawOutput, error)
}

// Provider is a Fetcher bound to a concrete backend and model.
type Provider interface {
	Fetcher

	// Model returns the model identifier sent to the backend.
	Model() string

	// Close releases backend resources.
	Close() error
}
