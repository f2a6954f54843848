package embeddings

import "math"

// Pool reduces raw provider output to one embedding vector.
//
// Token sequences are mean-pooled, then the result is L2-normalized. A vector
// whose norm is zero is returned unchanged. Empty, ragged or non-finite input
// yields nil, which callers treat as "no embedding".
func Pool(raw RawOutput) []float32 {
	var v []float32
	switch {
	case len(raw.Tokens) > 0:
		v = meanPool(raw.Tokens)
	case len(raw.Vector) > 0:
		v = make([]float32, len(raw.Vector))
		copy(v, raw.Vector)
	}
	if len(v) == 0 {
		return nil
	}
	return normalize(v)
}

func meanPool(tokens [][]float32) []float32 {
	dim := len(tokens[0])
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	for _, tok := range tokens {
		if len(tok) != dim {
			return nil
		}
		for i, x := range tok {
			sum[i] += float64(x)
		}
	}

	out := make([]float32, dim)
	n := float64(len(tokens))
	for i, s := range sum {
		out[i] = float32(s / n)
	}
	return out
}

// normalize scales v to unit length in place. Returns nil if any component
// is NaN or infinite.
func normalize(v []float32) []float32 {
	var sq float64
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		sq += f * f
	}
	if sq == 0 {
		return v
	}
	norm := math.Sqrt(sq)
	if math.IsInf(norm, 0) {
		return nil
	}
	for i, x := range v {
		v[i] = float32(float64(x) / norm)
	}
	return v
}
