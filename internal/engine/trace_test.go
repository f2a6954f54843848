package engine

import (
	"context"
	"testing"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/embeddings"
	"github.com/fyrsmithlabs/codesim/internal/similarity"
	"github.com/fyrsmithlabs/codesim/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshots(codes ...string) []Snapshot {
	out := make([]Snapshot, len(codes))
	for i, code := range codes {
		out[i] = Snapshot{Snippet: Snippet{Code: code}, Version: i + 1}
	}
	return out
}

func TestBuildSequentialTrace(t *testing.T) {
	e := newTestEngine(t, embeddings.NoneProvider{})

	trace := e.BuildSequentialTrace(context.Background(), snapshots("a b", "a b", "a c", "x y"))

	require.Len(t, trace, 3)
	for i, entry := range trace {
		assert.Equal(t, i, entry.From)
		assert.Equal(t, i+1, entry.To)
	}
	assert.Equal(t, similarity.Max, trace[0].Score)
	assert.Equal(t, 50, trace[1].Percent())
	assert.Equal(t, similarity.Min, trace[2].Score)
	assert.Equal(t, uint64(3), e.Stats().Scored, "only adjacent pairs are scored")
}

func TestBuildSequentialTrace_TooShort(t *testing.T) {
	e := newTestEngine(t, embeddings.NoneProvider{})

	assert.Empty(t, e.BuildSequentialTrace(context.Background(), nil))
	assert.Empty(t, e.BuildSequentialTrace(context.Background(), snapshots("only")))
}

func TestBuildSequentialTrace_UsesEmbeddings(t *testing.T) {
	f := &countingFetcher{vectors: map[string][]float32{
		"v1": {1, 0},
		"v2": {1, 0},
		"v3": {0, 1},
	}}
	e := newTestEngine(t, f)

	trace := e.BuildSequentialTrace(context.Background(), snapshots("v1", "v2", "v3"))

	require.Len(t, trace, 2)
	assert.Equal(t, 100, trace[0].Percent())
	assert.Equal(t, 50, trace[1].Percent())
	assert.Equal(t, int32(3), f.calls.Load())
	assert.Equal(t, uint64(0), e.Stats().Fallbacks)
}

func TestNextTraceEntry(t *testing.T) {
	e := newTestEngine(t, embeddings.NoneProvider{})
	snaps := snapshots("a b", "a c")

	entry := e.NextTraceEntry(context.Background(), 4, snaps[0], snaps[1])

	assert.Equal(t, TraceEntry{From: 4, To: 5, Score: similarity.Fallback("a b", "a c")}, entry)
}

func TestBuildSequentialTrace_Span(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	e := newTestEngine(t, embeddings.NoneProvider{}, WithTracer(tel.Tracer("test")))

	e.BuildSequentialTrace(context.Background(), snapshots("a", "b", "c", "d"))

	tel.AssertSpanAttribute(t, "engine.BuildTrace", "snapshots", int64(4))
}

func TestSortSnapshots(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("by version", func(t *testing.T) {
		snaps := []Snapshot{
			{Snippet: Snippet{ID: "c"}, Version: 3},
			{Snippet: Snippet{ID: "a"}, Version: 1},
			{Snippet: Snippet{ID: "b"}, Version: 2},
		}
		SortSnapshots(snaps)
		assert.Equal(t, []string{"a", "b", "c"}, ids(snaps))
	})

	t.Run("by timestamp when version missing", func(t *testing.T) {
		snaps := []Snapshot{
			{Snippet: Snippet{ID: "late", Timestamp: base.Add(2 * time.Hour)}},
			{Snippet: Snippet{ID: "early", Timestamp: base}},
			{Snippet: Snippet{ID: "mid", Timestamp: base.Add(time.Hour)}},
		}
		SortSnapshots(snaps)
		assert.Equal(t, []string{"early", "mid", "late"}, ids(snaps))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		snaps := []Snapshot{
			{Snippet: Snippet{ID: "first"}},
			{Snippet: Snippet{ID: "second"}},
		}
		SortSnapshots(snaps)
		assert.Equal(t, []string{"first", "second"}, ids(snaps))
	})
}

func ids(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.ID
	}
	return out
}
