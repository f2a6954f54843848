package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/fyrsmithlabs/codesim/internal/embeddings"
	"github.com/fyrsmithlabs/codesim/internal/similarity"
	"github.com/fyrsmithlabs/codesim/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrixSnippets() []Snippet {
	return []Snippet{
		{ID: "alice", Code: "for i in range(10): print(i)"},
		{ID: "bob", Code: "for j in range(10): print(j)"},
		{ID: "carol", Code: "while true: break"},
		{ID: "dave", Code: "x = 1"},
	}
}

func TestBuildSimilarityMatrix_Invariants(t *testing.T) {
	f := &countingFetcher{vectors: map[string][]float32{
		"for i in range10 printi": {0.9, 0.1, 0.0},
		"for j in range10 printj": {0.8, 0.2, 0.1},
		"while true break":        {-0.1, 0.9, 0.3},
		// dave has no vector and goes through the fallback
	}}
	e := newTestEngine(t, f)

	m := e.BuildSimilarityMatrix(context.Background(), matrixSnippets())

	require.Len(t, m.Scores, 4)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, m.Index)
	for i := range m.Scores {
		require.Len(t, m.Scores[i], 4)
		assert.Equal(t, similarity.Max, m.Scores[i][i], "diagonal must be 1")
		for j := range m.Scores[i] {
			assert.Equal(t, m.Scores[i][j], m.Scores[j][i], "matrix must be symmetric at %d,%d", i, j)
			assert.GreaterOrEqual(t, float64(m.Scores[i][j]), 0.0)
			assert.LessOrEqual(t, float64(m.Scores[i][j]), 1.0)
		}
	}

	assert.Greater(t, m.Scores[0][1], m.Scores[0][2])
	assert.Equal(t, int32(4), f.calls.Load(), "each snippet is fetched once")
	assert.Equal(t, uint64(3), e.Stats().Fallbacks, "every pair with dave falls back")
}

func TestBuildSimilarityMatrix_Percent(t *testing.T) {
	m := Matrix{
		Scores: [][]similarity.Score{{1, 0.554}, {0.554, 1}},
		Index:  []string{"a", "b"},
	}

	assert.Equal(t, [][]int{{100, 55}, {55, 100}}, m.Percent())
}

func TestBuildSimilarityMatrix_DuplicatesShareFetch(t *testing.T) {
	f := &countingFetcher{vectors: map[string][]float32{"same code": {1, 2}}}
	e := newTestEngine(t, f)

	snippets := make([]Snippet, 6)
	for i := range snippets {
		snippets[i] = Snippet{ID: fmt.Sprintf("s%d", i), Code: "same code"}
	}
	m := e.BuildSimilarityMatrix(context.Background(), snippets)

	assert.Equal(t, int32(1), f.calls.Load())
	for i := range m.Scores {
		for j := range m.Scores[i] {
			assert.InDelta(t, 1.0, float64(m.Scores[i][j]), 1e-9)
		}
	}
}

func TestBuildSimilarityMatrix_Empty(t *testing.T) {
	e := newTestEngine(t, embeddings.NoneProvider{})

	m := e.BuildSimilarityMatrix(context.Background(), nil)

	assert.Empty(t, m.Scores)
	assert.Empty(t, m.Index)
}

func TestBuildSimilarityMatrix_Single(t *testing.T) {
	f := &countingFetcher{}
	e := newTestEngine(t, f)

	m := e.BuildSimilarityMatrix(context.Background(), []Snippet{{ID: "only", Code: "x"}})

	assert.Equal(t, [][]similarity.Score{{1}}, m.Scores)
	assert.Equal(t, uint64(0), e.Stats().Scored)
}

func TestBuildSimilarityMatrix_Span(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	e := newTestEngine(t, embeddings.NoneProvider{}, WithTracer(tel.Tracer("test")))

	e.BuildSimilarityMatrix(context.Background(), matrixSnippets())

	tel.AssertSpanExists(t, "engine.BuildMatrix")
	tel.AssertSpanAttribute(t, "engine.BuildMatrix", "pairs", int64(6))
	tel.AssertSpanAttribute(t, "engine.BuildMatrix", "fallbacks", int64(6))
}
