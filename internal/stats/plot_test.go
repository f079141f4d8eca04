package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineChart(t *testing.T) {
	var buf bytes.Buffer
	err := LineChart(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 10, 4, false)
	if err != nil {
		t.Fatalf("LineChart failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, 4 rows and legend, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Test Plot" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "      4 ┤") {
		t.Fatalf("expected top label 4, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "      1 ┤") {
		t.Fatalf("expected bottom label 1, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "A") || !strings.Contains(lines[5], "B") {
		t.Fatalf("expected legend, got %q", lines[5])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("unexpected color codes")
	}
}

func TestLineChartSingleSeriesHasNoLegend(t *testing.T) {
	var buf bytes.Buffer
	if err := LineChart(&buf, "", []Series{{Name: "A", Values: []float64{3, 3, 3}}}, 10, 2, false); err != nil {
		t.Fatalf("LineChart failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
}

func TestLineChartColor(t *testing.T) {
	var buf bytes.Buffer
	if err := LineChart(&buf, "", []Series{{Name: "A", Values: []float64{1, 2}}}, 10, 2, true); err != nil {
		t.Fatalf("LineChart failed: %v", err)
	}
	if !strings.Contains(buf.String(), palette[0]) {
		t.Fatalf("expected series color in output")
	}
}

func TestLineChartSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := LineChart(&buf, "Empty", []Series{{Name: "A"}}, 10, 4, false); err != nil {
		t.Fatalf("LineChart failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestBarChart(t *testing.T) {
	var buf bytes.Buffer
	err := BarChart(&buf, "Words", []Bar{
		{Label: "easy", Value: 10},
		{Label: "hard", Value: 5},
	}, 30, "%.0f")
	if err != nil {
		t.Fatalf("BarChart failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if got := strings.Count(lines[1], "█"); got != 21 {
		t.Fatalf("expected full bar of 21, got %d", got)
	}
	if got := strings.Count(lines[2], "█"); got != 11 {
		t.Fatalf("expected half bar of 11, got %d", got)
	}
	if !strings.HasSuffix(lines[1], "10") || !strings.HasSuffix(lines[2], " 5") {
		t.Fatalf("expected right-aligned values: %q %q", lines[1], lines[2])
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 71 {
		t.Fatalf("expected 71, got %d", got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected min width, got %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width for unknown terminal, got %d", got)
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []float64
	}{
		{name: "shrink", values: []float64{1, 2, 3, 4}, n: 2, want: []float64{1.5, 3.5}},
		{name: "stretch", values: []float64{0, 10}, n: 3, want: []float64{0, 5, 10}},
		{name: "single", values: []float64{5}, n: 3, want: []float64{5, 5, 5}},
		{name: "same", values: []float64{1, 2}, n: 2, want: []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.values, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Resample = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Resample = %v, want %v", got, tt.want)
				}
			}
		})
	}
	if Resample(nil, 4) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage = %v, want %v", got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{7, 7, 7}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}
