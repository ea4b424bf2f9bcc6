package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Score Trend", []Series{
		{Name: "Tapping Speed", Values: []float64{40, 55, 70, 65, 80}},
		{Name: "Reaction Time", Values: []float64{20, 30, 45, 60, 75}},
	}, 10, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Score Trend") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "100 │") || !strings.Contains(out, "  0 │") {
		t.Fatalf("expected fixed score axis labels, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 4 + 1 // title + plot rows + legend
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := len(axisLabelTop) + runewidth.StringWidth(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	out := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %f, want %f", i, out[i], want[i])
		}
	}
	// Window of 1 copies the input.
	out = MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 should copy values, got %v", out)
		}
	}
}

func TestSparklineUsesScoreScale(t *testing.T) {
	out := Sparkline([]float64{0, 50, 100})
	if len(out) != 3 {
		t.Fatalf("expected 3 chars, got %q", out)
	}
	if out[0] != sparkChars[0] {
		t.Fatalf("score 0 should map to the lowest glyph, got %q", out)
	}
	if out[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("score 100 should map to the highest glyph, got %q", out)
	}
	if Sparkline(nil) != "" {
		t.Fatal("empty input should render empty")
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Task", "Average", "Sessions"}
	rows := [][]string{
		{"Tapping Speed", "72.5", "12"},
		{"Stroop Test", "88.0", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Task          Average Sessions" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Tapping Speed    72.5       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Stroop Test      88.0        3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
