package embeddings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var sq float64
	for _, x := range v {
		sq += float64(x) * float64(x)
	}
	return math.Sqrt(sq)
}

func TestPool(t *testing.T) {
	tests := []struct {
		name string
		raw  RawOutput
		want []float32
	}{
		{
			name: "single vector normalized",
			raw:  RawOutput{Vector: []float32{3, 4}},
			want: []float32{0.6, 0.8},
		},
		{
			name: "tokens mean pooled then normalized",
			raw:  RawOutput{Tokens: [][]float32{{2, 0}, {0, 2}}},
			want: []float32{float32(1 / math.Sqrt2), float32(1 / math.Sqrt2)},
		},
		{
			name: "zero vector returned unchanged",
			raw:  RawOutput{Vector: []float32{0, 0, 0}},
			want: []float32{0, 0, 0},
		},
		{
			name: "empty output",
			raw:  RawOutput{},
			want: nil,
		},
		{
			name: "ragged tokens",
			raw:  RawOutput{Tokens: [][]float32{{1, 2}, {1}}},
			want: nil,
		},
		{
			name: "empty token vectors",
			raw:  RawOutput{Tokens: [][]float32{{}}},
			want: nil,
		},
		{
			name: "NaN component",
			raw:  RawOutput{Vector: []float32{1, float32(math.NaN())}},
			want: nil,
		},
		{
			name: "infinite component",
			raw:  RawOutput{Tokens: [][]float32{{1, float32(math.Inf(1))}}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pool(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, len(tt.want))
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}

func TestPool_UnitLength(t *testing.T) {
	v := Pool(RawOutput{Tokens: [][]float32{{1, 2, 3}, {4, 5, 6}, {-1, 0, 7}}})

	require.Len(t, v, 3)
	assert.InDelta(t, 1.0, norm(v), 1e-6)
}

func TestPool_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	_ = Pool(RawOutput{Vector: in})

	assert.Equal(t, []float32{3, 4}, in)
}
