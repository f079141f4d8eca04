package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series is a named sequence of values for a chart.
type Series struct {
	Name   string
	Values []float64
}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " ┤"
	barRune             = '█'
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}

// canvas is a braille grid: each cell holds 2x4 dots.
type canvas struct {
	cols, rows int
	cells      [][]uint8
	owner      [][]int
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.cells = make([][]uint8, rows)
	c.owner = make([][]int, rows)
	for y := 0; y < rows; y++ {
		c.cells[y] = make([]uint8, cols)
		c.owner[y] = make([]int, cols)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

func (c *canvas) dot(x, y, series int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	c.cells[cy][cx] |= brailleBit(x%2, y%4)
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// line draws between two dot coordinates with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.dot(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func brailleBit(x, y int) uint8 {
	if y == 3 {
		return []uint8{0x40, 0x80}[x]
	}
	return uint8(1) << uint(y+3*x)
}

// LineChart renders series on a shared vertical scale as braille lines.
func LineChart(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	lo, hi := valueRange(series)
	c := newCanvas(width, height)
	dotsX, dotsY := width*2, height*4
	for si, s := range series {
		values := Resample(s.Values, dotsX)
		px, py := -1, -1
		for x, v := range values {
			y := scaleToRow(v, lo, hi, dotsY)
			if px >= 0 {
				c.line(px, py, x, y, si)
			} else {
				c.dot(x, y, si)
			}
			px, py = x, y
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var b strings.Builder
		b.WriteString(axisLabel(y, height, lo, hi))
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			ch := rune(0x2800 + int(c.cells[y][x]))
			if owner := c.owner[y][x]; useColor && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	if len(series) > 1 {
		names := make([]string, 0, len(series))
		for i, s := range series {
			label := "⣿ " + s.Name
			if useColor {
				label = palette[i%len(palette)] + label + colorReset
			}
			names = append(names, label)
		}
		if _, err := fmt.Fprintln(w, strings.Repeat(" ", axisLabelWidth+2)+strings.Join(names, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// BarChart renders one horizontal bar per entry, scaled to the largest value.
func BarChart(w io.Writer, title string, bars []Bar, width int, format string) error {
	if len(bars) == 0 {
		return nil
	}
	if format == "" {
		format = "%.1f"
	}
	labelWidth := 0
	valueWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, utf8.RuneCountInString(b.Label))
		valueWidth = max(valueWidth, len(fmt.Sprintf(format, b.Value)))
		maxVal = math.Max(maxVal, b.Value)
	}
	if width <= 0 {
		width = terminalWidth()
	}
	barWidth := width - labelWidth - valueWidth - 3
	if barWidth < minPlotWidth {
		barWidth = minPlotWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		n := 0
		if maxVal > 0 && b.Value > 0 {
			n = int(math.Round(b.Value / maxVal * float64(barWidth)))
		}
		line := fmt.Sprintf("%s %s %*s",
			padCell(b.Label, labelWidth, false),
			padCell(strings.Repeat(string(barRune), n), barWidth, false),
			valueWidth, fmt.Sprintf(format, b.Value))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes the braille grid width that fits in totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

// Resample stretches or averages values to exactly n points.
func Resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := 0; i < n; i++ {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			sum := 0.0
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := 0; i < n; i++ {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// UseColor reports whether w is a terminal that accepts ANSI colors.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func valueRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func scaleToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func axisLabel(row, height int, lo, hi float64) string {
	var v float64
	switch row {
	case 0:
		v = hi
	case height - 1:
		v = lo
	case height / 2:
		v = (lo + hi) / 2
	default:
		return strings.Repeat(" ", axisLabelWidth)
	}
	return fmt.Sprintf("%*s", axisLabelWidth, compactNumber(v))
}

func compactNumber(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case math.Abs(v) >= 1e4:
		return fmt.Sprintf("%.1fk", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
