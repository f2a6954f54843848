package similarity

import "math"

// Cosine returns the rescaled cosine similarity of two embedding vectors.
//
// The shorter vector is treated as zero-padded. Positions where both vectors
// are zero are skipped. If either magnitude is zero the score is 0. Otherwise
// the cosine is clamped to [-1,1] and mapped to [0,1] as (cos+1)/2.
//
// ok is false when the result is not a number; the caller should fall back.
// Cosine panics if either vector is empty: callers must route missing
// embeddings to Fallback.
func Cosine(v1, v2 []float32) (score Score, ok bool) {
	if len(v1) == 0 || len(v2) == 0 {
		panic("similarity: Cosine called with an empty vector")
	}

	n := max(len(v1), len(v2))

	var dot, mag1, mag2 float64
	for i := 0; i < n; i++ {
		var a, b float64
		if i < len(v1) {
			a = float64(v1[i])
		}
		if i < len(v2) {
			b = float64(v2[i])
		}
		if a == 0 && b == 0 {
			continue
		}
		dot += a * b
		mag1 += a * a
		mag2 += b * b
	}

	if mag1 == 0 || mag2 == 0 {
		return Min, true
	}

	cos := dot / math.Sqrt(mag1*mag2)
	if math.IsNaN(cos) {
		return 0, false
	}

	cos = math.Max(-1, math.Min(1, cos))
	return Score((cos + 1) / 2), true
}
