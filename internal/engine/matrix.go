package engine

import (
	"context"

	"github.com/fyrsmithlabs/codesim/internal/similarity"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Matrix is a square, symmetric similarity matrix with a unit diagonal.
// Index[i] is the ID of the snippet in row and column i.
type Matrix struct {
	Scores [][]similarity.Score `json:"matrix"`
	Index  []string             `json:"index"`
}

// Percent returns the matrix as whole percentages.
func (m Matrix) Percent() [][]int {
	out := make([][]int, len(m.Scores))
	for i, row := range m.Scores {
		out[i] = make([]int, len(row))
		for j, s := range row {
			out[i][j] = s.Percent()
		}
	}
	return out
}

// BuildSimilarityMatrix scores every pair of snippets. Each snippet is
// embedded at most once; the upper triangle is computed and mirrored.
func (e *Engine) BuildSimilarityMatrix(ctx context.Context, snippets []Snippet) Matrix {
	ctx, span := e.tracer.Start(ctx, "engine.BuildMatrix")
	defer span.End()

	n := len(snippets)
	m := Matrix{
		Scores: make([][]similarity.Score, n),
		Index:  make([]string, n),
	}
	for i, s := range snippets {
		m.Scores[i] = make([]similarity.Score, n)
		m.Scores[i][i] = similarity.Max
		m.Index[i] = s.ID
	}

	codes := make([]string, n)
	for i, s := range snippets {
		codes[i] = s.Code
	}
	items := e.prepareAll(ctx, codes)

	before := e.fallbacks.Load()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score, _ := e.compare(ctx, items[i], items[j])
			m.Scores[i][j] = score
			m.Scores[j][i] = score
		}
	}

	span.SetAttributes(
		attribute.Int("snippets", n),
		attribute.Int("pairs", n*(n-1)/2),
		attribute.Int64("fallbacks", int64(e.fallbacks.Load()-before)),
	)
	return m
}

// prepareAll scrubs and embeds codes concurrently, bounded by
// maxConcurrency. The result is index-aligned with codes.
func (e *Engine) prepareAll(ctx context.Context, codes []string) []prepared {
	items := make([]prepared, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)
	for i, code := range codes {
		g.Go(func() error {
			items[i] = e.prepare(gctx, code)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return items
}
