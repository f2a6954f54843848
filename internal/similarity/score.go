// Package similarity scores pairs of code snippets.
//
// Cosine compares embedding vectors; Fallback compares raw text by term
// frequency and needs no external model. Both return a Score in [0,1].
package similarity

import "math"

// Score is a similarity fraction in [0,1].
type Score float64

const (
	// Min is the score of unrelated snippets.
	Min Score = 0
	// Max is the score of identical snippets.
	Max Score = 1
)

// Percent returns the score as a whole percentage, rounded to nearest.
func (s Score) Percent() int {
	return int(math.Round(float64(s.clamp()) * 100))
}

func (s Score) clamp() Score {
	switch {
	case s < Min:
		return Min
	case s > Max:
		return Max
	default:
		return s
	}
}
