package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// FormatMinutes renders fractional minutes as "12m 30s".
func FormatMinutes(minutes float64) string {
	total := int(math.Round(minutes * 60))
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}

// RenderSummary prints headline numbers for the snapshot.
func RenderSummary(w io.Writer, a *Analytics, now time.Time) error {
	if a.QuizCount() == 0 {
		_, err := fmt.Fprintln(w, "No quizzes found.")
		return err
	}
	today := a.DailyMetrics(now)
	lines := []string{
		"Summary",
		fmt.Sprintf("Quizzes: %d", a.QuizCount()),
		fmt.Sprintf("Average score: %.1f%%", a.AverageScore()),
		fmt.Sprintf("Correct answers: %d/%d (%.1f%%)", a.CorrectCount(), a.ResponseCount(), a.CorrectPercent()),
		fmt.Sprintf("Words read: %d", a.TotalWordsRead()),
		fmt.Sprintf("Reading time: %s", FormatMinutes(a.TotalTimeMinutes())),
		fmt.Sprintf("Current streak: %d day(s)", a.CurrentStreak(now)),
		fmt.Sprintf("Today: %d quizzes, %d words, %s", today.Quizzes, today.Words, FormatMinutes(today.Minutes)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCategoryTable prints score, words and time per category.
func RenderCategoryTable(w io.Writer, a *Analytics) error {
	scores := a.PerformanceByCategory()
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No category stats found.")
		return err
	}
	words := a.WordsByCategory()
	times := a.TimeByCategoryMinutes()
	rows := make([][]string, 0, len(scores))
	for i, s := range scores {
		rows = append(rows, []string{
			string(s.Category),
			fmt.Sprintf("%.1f%%", s.AverageScore),
			fmt.Sprintf("%d", words[i].Words),
			FormatMinutes(times[i].Minutes),
		})
	}
	return writeTable(w, "By Category",
		[]string{"Category", "Avg Score", "Words", "Time"}, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderTypeTable prints percent correct per question type.
func RenderTypeTable(w io.Writer, a *Analytics) error {
	perf := a.PerformanceByQuestionType()
	if len(perf) == 0 {
		_, err := fmt.Fprintln(w, "No responses found.")
		return err
	}
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{p.Type, fmt.Sprintf("%.1f%%", p.PercentCorrect), fmt.Sprintf("%d", p.Count)})
	}
	return writeTable(w, "By Question Type",
		[]string{"Type", "Correct", "Answers"}, rows, map[int]bool{1: true, 2: true})
}

// RenderCurves prints the score trend and cumulative progress charts.
func RenderCurves(w io.Writer, a *Analytics, window, totalWidth, height int, useColor bool) error {
	if a.QuizCount() == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	scores := a.ScoreSeries()
	if err := LineChart(w, "Score Over Time", []Series{
		{Name: "Score", Values: scores},
		{Name: fmt.Sprintf("Avg(%d)", window), Values: MovingAverage(scores, window)},
	}, width, height, useColor); err != nil {
		return err
	}
	points := a.CumulativeCounts()
	counts := make([]float64, len(points))
	words := make([]float64, len(points))
	for i, p := range points {
		counts[i] = float64(p.Count)
		words[i] = float64(p.Words)
	}
	if err := LineChart(w, "Quizzes Taken", []Series{{Name: "Quizzes", Values: counts}}, width, height, useColor); err != nil {
		return err
	}
	return LineChart(w, "Words Read", []Series{{Name: "Words", Values: words}}, width, height, useColor)
}

// RenderCategoryBars prints bar charts for words and minutes per category.
func RenderCategoryBars(w io.Writer, a *Analytics, width int) error {
	words := a.WordsByCategory()
	if len(words) == 0 {
		return nil
	}
	wordBars := make([]Bar, 0, len(words))
	for _, c := range words {
		wordBars = append(wordBars, Bar{Label: string(c.Category), Value: float64(c.Words)})
	}
	if err := BarChart(w, "Words by Category", wordBars, width, "%.0f"); err != nil {
		return err
	}
	times := a.TimeByCategoryMinutes()
	timeBars := make([]Bar, 0, len(times))
	for _, c := range times {
		timeBars = append(timeBars, Bar{Label: string(c.Category), Value: c.Minutes})
	}
	return BarChart(w, "Minutes by Category", timeBars, width, "%.1f")
}

// RenderScoreDistribution prints one sparkline of scores per category.
func RenderScoreDistribution(w io.Writer, a *Analytics) error {
	dist := a.ScoresByCategory()
	if len(dist) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Score Distribution"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(dist))
	for _, d := range dist {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range d.Scores {
			lo = math.Min(lo, s)
			hi = math.Max(hi, s)
		}
		rows = append(rows, []string{
			string(d.Category),
			fmt.Sprintf("%.0f-%.0f", lo, hi),
			Sparkline(d.Scores),
		})
	}
	for _, line := range formatTable([]string{"Category", "Range", "Scores"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
