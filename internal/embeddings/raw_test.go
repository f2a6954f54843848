package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRawOutput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantVector []float32
		wantTokens [][]float32
		wantErr    bool
	}{
		{
			name:       "single vector",
			body:       `[0.1, 0.2, 0.3]`,
			wantVector: []float32{0.1, 0.2, 0.3},
		},
		{
			name:       "token vectors",
			body:       `[[1, 2], [3, 4]]`,
			wantTokens: [][]float32{{1, 2}, {3, 4}},
		},
		{
			name:       "batched token vectors use first input",
			body:       " \n[[[1, 2], [3, 4]], [[5, 6]]]",
			wantTokens: [][]float32{{1, 2}, {3, 4}},
		},
		{
			name:    "object",
			body:    `{"error": "model loading"}`,
			wantErr: true,
		},
		{
			name:    "too deep",
			body:    `[[[[1]]]]`,
			wantErr: true,
		},
		{
			name:    "non-numeric",
			body:    `["a", "b"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRawOutput([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantVector != nil {
				assert.Equal(t, tt.wantVector, got.Vector)
			}
			if tt.wantTokens != nil {
				assert.Equal(t, tt.wantTokens, got.Tokens)
			}
		})
	}
}

func TestDecodeRawOutput_EmptyBatchPoolsToNothing(t *testing.T) {
	got, err := DecodeRawOutput([]byte(`[[[]]]`))
	require.NoError(t, err)

	assert.Empty(t, Pool(got))
}
