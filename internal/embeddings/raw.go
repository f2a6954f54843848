package embeddings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRawOutput decodes a feature-extraction response body by its nesting
// depth:
//
//	[f, ...]            single vector
//	[[f, ...], ...]     per-token vectors for one input
//	[[[f, ...], ...]]   per-token vectors for a batch; the first input is used
//
// Anything else is an error.
func DecodeRawOutput(body []byte) (RawOutput, error) {
	body = bytes.TrimSpace(body)
	switch depth(body) {
	case 1:
		var v []float32
		if err := json.Unmarshal(body, &v); err != nil {
			return RawOutput{}, fmt.Errorf("decoding vector: %w", err)
		}
		return RawOutput{Vector: v}, nil
	case 2:
		var tokens [][]float32
		if err := json.Unmarshal(body, &tokens); err != nil {
			return RawOutput{}, fmt.Errorf("decoding token vectors: %w", err)
		}
		return RawOutput{Tokens: tokens}, nil
	case 3:
		var batch [][][]float32
		if err := json.Unmarshal(body, &batch); err != nil {
			return RawOutput{}, fmt.Errorf("decoding batch: %w", err)
		}
		if len(batch) == 0 {
			return RawOutput{}, fmt.Errorf("decoding batch: empty response")
		}
		return RawOutput{Tokens: batch[0]}, nil
	default:
		return RawOutput{}, fmt.Errorf("unexpected response shape")
	}
}

// depth counts leading '[' characters, ignoring whitespace.
func depth(body []byte) int {
	n := 0
	for _, b := range body {
		switch b {
		case '[':
			n++
		case ' ', '\t', '\n', '\r':
		default:
			return n
		}
	}
	return n
}
