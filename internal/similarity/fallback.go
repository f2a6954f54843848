package similarity

import (
	"math"
	"sort"
	"strings"
)

// Fallback scores raw code by the cosine of whitespace-token term
// frequencies. It is deterministic and always available.
//
// Term frequencies are non-negative, so the cosine is already in [0,1] and
// is not rescaled. Text with no tokens scores 0.
func Fallback(code1, code2 string) Score {
	tf1 := termFrequencies(code1)
	tf2 := termFrequencies(code2)
	if len(tf1) == 0 || len(tf2) == 0 {
		return Min
	}

	// Sum over the sorted union so the result does not depend on map order
	// or argument order.
	var dot, mag1, mag2 float64
	for _, term := range vocabulary(tf1, tf2) {
		f1, f2 := tf1[term], tf2[term]
		dot += f1 * f2
		mag1 += f1 * f1
		mag2 += f2 * f2
	}
	if mag1 == 0 || mag2 == 0 {
		return Min
	}

	cos := dot / math.Sqrt(mag1*mag2)
	return Score(cos).clamp()
}

// termFrequencies maps each token to count/len(tokens).
func termFrequencies(code string) map[string]float64 {
	tokens := strings.Fields(code)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	total := float64(len(tokens))
	for tok, c := range counts {
		counts[tok] = c / total
	}
	return counts
}

func vocabulary(a, b map[string]float64) []string {
	terms := make([]string, 0, len(a)+len(b))
	for t := range a {
		terms = append(terms, t)
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			terms = append(terms, t)
		}
	}
	sort.Strings(terms)
	return terms
}
