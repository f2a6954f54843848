package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fyrsmithlabs/codesim/internal/engine"
	"github.com/fyrsmithlabs/codesim/internal/similarity"
)

const (
	formatJSON  = "json"
	formatTable = "table"

	sparklineHeight = 3
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	highStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
)

// highThreshold marks scores worth a reviewer's attention in table output.
const highThreshold = 80

type pairOutput struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Score int    `json:"score"`
}

type matrixOutput struct {
	Matrix [][]int  `json:"matrix"`
	Index  []string `json:"index"`
}

type traceOutput struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Score  int    `json:"score"`
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPair(w io.Writer, format, a, b string, score int) error {
	if format == formatJSON {
		return writeJSON(w, pairOutput{A: a, B: b, Score: score})
	}
	_, err := fmt.Fprintf(w, "%s\n", percentStyle(score).UnsetPadding().Render(fmt.Sprintf("%d%%", score)))
	return err
}

func renderMatrix(w io.Writer, format string, m engine.Matrix) error {
	percent := m.Percent()
	if format == formatJSON {
		return writeJSON(w, matrixOutput{Matrix: percent, Index: m.Index})
	}

	headers := append([]string{""}, m.Index...)
	rows := make([][]string, len(percent))
	for i, row := range percent {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, m.Index[i])
		for _, p := range row {
			cells = append(cells, strconv.Itoa(p))
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			case row == col-1:
				return cellStyle.Foreground(lipgloss.Color("245"))
			}
			return percentStyle(percent[row][col-1])
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func renderTrace(w io.Writer, format string, snaps []engine.Snapshot, trace []engine.TraceEntry) error {
	if format == formatJSON {
		out := make([]traceOutput, len(trace))
		for i, e := range trace {
			out[i] = newTraceOutput(snaps[e.From], snaps[e.To], e)
		}
		return writeJSON(w, out)
	}

	if len(trace) == 0 {
		_, err := fmt.Fprintln(w, dimStyle.Render("fewer than two versions, nothing to compare"))
		return err
	}

	rows := make([][]string, len(trace))
	scores := make([]similarity.Score, len(trace))
	for i, e := range trace {
		rows[i] = []string{snapLabel(snaps[e.From]), snapLabel(snaps[e.To]), strconv.Itoa(e.Percent())}
		scores[i] = e.Score
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("from", "to", "score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return percentStyle(trace[row].Percent())
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, createSparkline(scores))
	return err
}

// renderTraceEntry prints one entry as it arrives during watch.
func renderTraceEntry(w io.Writer, format string, from, to engine.Snapshot, entry engine.TraceEntry) error {
	if format == formatJSON {
		b, err := json.Marshal(newTraceOutput(from, to, entry))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	_, err := fmt.Fprintf(w, "%s -> %s  %s\n",
		snapLabel(from), snapLabel(to),
		percentStyle(entry.Percent()).UnsetPadding().Render(fmt.Sprintf("%d%%", entry.Percent())),
	)
	return err
}

func renderStats(w io.Writer, s engine.Stats) error {
	if outputFormat == formatJSON {
		return writeJSON(w, s)
	}

	rows := [][]string{
		{"scored", strconv.FormatUint(s.Scored, 10)},
		{"fallbacks", strconv.FormatUint(s.Fallbacks, 10)},
		{"cache size", fmt.Sprintf("%d/%d", s.Cache.Size, s.Cache.Capacity)},
		{"cache hits", strconv.FormatUint(s.Cache.Hits, 10)},
		{"cache misses", strconv.FormatUint(s.Cache.Misses, 10)},
		{"cache evictions", strconv.FormatUint(s.Cache.Evictions, 10)},
		{"shared fetches", strconv.FormatUint(s.Cache.Shared, 10)},
		{"failed fetches", strconv.FormatUint(s.Cache.Failures, 10)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newTraceOutput(from, to engine.Snapshot, e engine.TraceEntry) traceOutput {
	return traceOutput{
		From:   e.From,
		To:     e.To,
		Score:  e.Percent(),
		FromID: from.ID,
		ToID:   to.ID,
	}
}

func snapLabel(s engine.Snapshot) string {
	if s.Author != "" {
		return fmt.Sprintf("v%d %s (%s)", s.Version, s.ID, s.Author)
	}
	return s.ID
}

func percentStyle(p int) lipgloss.Style {
	if p >= highThreshold {
		return highStyle
	}
	return cellStyle
}

// createSparkline draws the trace scores as percentages.
func createSparkline(scores []similarity.Score) string {
	if len(scores) < 2 {
		return ""
	}

	spark := sparkline.New(len(scores), sparklineHeight)
	for _, s := range scores {
		spark.Push(float64(s.Percent()))
	}
	spark.Draw()

	return sparklineStyle.Render(spark.View())
}
