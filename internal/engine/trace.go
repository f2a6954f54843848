package engine

import (
	"context"

	"github.com/fyrsmithlabs/codesim/internal/similarity"
	"go.opentelemetry.io/otel/attribute"
)

// TraceEntry is the similarity between two consecutive snapshots.
type TraceEntry struct {
	From  int              `json:"from"`
	To    int              `json:"to"`
	Score similarity.Score `json:"score"`
}

// Percent returns the entry score as a whole percentage.
func (t TraceEntry) Percent() int {
	return t.Score.Percent()
}

// BuildSequentialTrace scores each snapshot against the next one, in the
// order given. Fewer than two snapshots yield an empty trace. Callers that
// need revision order should call SortSnapshots first.
func (e *Engine) BuildSequentialTrace(ctx context.Context, snaps []Snapshot) []TraceEntry {
	ctx, span := e.tracer.Start(ctx, "engine.BuildTrace")
	defer span.End()

	span.SetAttributes(attribute.Int("snapshots", len(snaps)))
	if len(snaps) < 2 {
		return []TraceEntry{}
	}

	codes := make([]string, len(snaps))
	for i, s := range snaps {
		codes[i] = s.Code
	}
	items := e.prepareAll(ctx, codes)

	trace := make([]TraceEntry, 0, len(snaps)-1)
	for i := 0; i+1 < len(items); i++ {
		score, _ := e.compare(ctx, items[i], items[i+1])
		trace = append(trace, TraceEntry{From: i, To: i + 1, Score: score})
	}
	return trace
}

// NextTraceEntry scores snapshot next against prev and labels the entry with
// the given indexes. It is used to extend a trace one version at a time.
func (e *Engine) NextTraceEntry(ctx context.Context, from int, prev, next Snapshot) TraceEntry {
	ctx, span := e.tracer.Start(ctx, "engine.BuildTrace")
	defer span.End()

	a, b := e.prepare(ctx, prev.Code), e.prepare(ctx, next.Code)
	score, _ := e.compare(ctx, a, b)
	return TraceEntry{From: from, To: from + 1, Score: score}
}
