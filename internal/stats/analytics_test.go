package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"
)

var testNow = time.Date(2025, 3, 29, 15, 0, 0, 0, time.Local)

func quizAt(id int64, date time.Time, cat model.Category, words, seconds int, score float64) model.QuizRecord {
	return model.QuizRecord{
		ID:              id,
		Date:            date,
		Category:        cat,
		WordCount:       words,
		DurationSeconds: seconds,
		ScorePercentage: score,
	}
}

func sampleSnapshot() model.Snapshot {
	today := testNow
	return model.Snapshot{
		Quizzes: []model.QuizRecord{
			quizAt(1, today.Add(-time.Hour), model.CategoryEasy, 100, 120, 80),
			quizAt(2, today.AddDate(0, 0, -1), model.CategoryMedium, 200, 240, 90),
			quizAt(3, today.AddDate(0, 0, -3), model.CategoryEasy, 120, 90, 70),
		},
		Responses: []model.ResponseRecord{
			{ID: 1, QuestionType: model.QuestionVocabulary, IsCorrect: true, QuizID: 1},
			{ID: 2, QuestionType: model.QuestionVocabulary, IsCorrect: true, QuizID: 1},
			{ID: 3, QuestionType: model.QuestionVocabulary, IsCorrect: false, QuizID: 2},
			{ID: 4, QuestionType: model.QuestionVocabulary, IsCorrect: true, QuizID: 3},
			{ID: 5, QuestionType: model.QuestionComprehension, IsCorrect: false, QuizID: 3},
		},
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyticsTotals(t *testing.T) {
	a := NewAnalytics(sampleSnapshot())
	if a.QuizCount() != 3 || a.ResponseCount() != 5 {
		t.Fatalf("unexpected counts %d %d", a.QuizCount(), a.ResponseCount())
	}
	if !near(a.AverageScore(), 80) {
		t.Fatalf("expected average 80, got %v", a.AverageScore())
	}
	if a.CorrectCount() != 3 || a.IncorrectCount() != 2 {
		t.Fatalf("unexpected correctness %d/%d", a.CorrectCount(), a.IncorrectCount())
	}
	if !near(a.CorrectPercent(), 60) {
		t.Fatalf("expected 60%%, got %v", a.CorrectPercent())
	}
	if a.TotalWordsRead() != 420 {
		t.Fatalf("expected 420 words, got %d", a.TotalWordsRead())
	}
	if !near(a.TotalTimeMinutes(), 7.5) {
		t.Fatalf("expected 7.5 minutes, got %v", a.TotalTimeMinutes())
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	a := NewAnalytics(model.Snapshot{})
	if a.AverageScore() != 0 || a.CorrectPercent() != 0 || a.TotalTimeMinutes() != 0 {
		t.Fatalf("expected zeros for empty snapshot")
	}
	if len(a.PerformanceByQuestionType()) != 0 || len(a.PerformanceByCategory()) != 0 {
		t.Fatalf("expected no groups for empty snapshot")
	}
	if len(a.CumulativeCounts()) != 0 || a.CurrentStreak(testNow) != 0 {
		t.Fatalf("expected empty timeline")
	}
}

func TestPerformanceByQuestionType(t *testing.T) {
	perf := NewAnalytics(sampleSnapshot()).PerformanceByQuestionType()
	if len(perf) != 2 {
		t.Fatalf("expected 2 types, got %+v", perf)
	}
	if perf[0].Type != model.QuestionComprehension || perf[0].PercentCorrect != 0 || perf[0].Count != 1 {
		t.Fatalf("unexpected comprehension entry %+v", perf[0])
	}
	if perf[1].Type != model.QuestionVocabulary || !near(perf[1].PercentCorrect, 75) || perf[1].Count != 4 {
		t.Fatalf("unexpected vocabulary entry %+v", perf[1])
	}
}

func TestCategoryBreakdowns(t *testing.T) {
	a := NewAnalytics(sampleSnapshot())
	scores := a.PerformanceByCategory()
	if len(scores) != 2 || scores[0].Category != model.CategoryEasy || !near(scores[0].AverageScore, 75) {
		t.Fatalf("unexpected category scores %+v", scores)
	}
	words := a.WordsByCategory()
	if words[0].Words != 220 || words[1].Words != 200 {
		t.Fatalf("unexpected words %+v", words)
	}
	times := a.TimeByCategoryMinutes()
	if !near(times[0].Minutes, 3.5) || !near(times[1].Minutes, 4) {
		t.Fatalf("unexpected minutes %+v", times)
	}
	dist := a.ScoresByCategory()
	if len(dist[0].Scores) != 2 || len(dist[1].Scores) != 1 {
		t.Fatalf("unexpected distribution %+v", dist)
	}
}

func TestCumulativeCounts(t *testing.T) {
	day := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := NewAnalytics(model.Snapshot{Quizzes: []model.QuizRecord{
		quizAt(1, day.AddDate(0, 0, 2), model.CategoryEasy, 30, 0, 0),
		quizAt(2, day, model.CategoryEasy, 10, 0, 0),
		quizAt(3, day, model.CategoryEasy, 20, 0, 0),
	}})
	points := a.CumulativeCounts()
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Count != 2 || points[1].Count != 2 || points[2].Count != 3 {
		t.Fatalf("unexpected counts %+v", points)
	}
	if points[0].Words != 30 || points[2].Words != 60 {
		t.Fatalf("unexpected words %+v", points)
	}
	series := a.ScoreSeries()
	if len(series) != 3 {
		t.Fatalf("unexpected series %v", series)
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{name: "today and yesterday", days: []int{0, -1}, want: 2},
		{name: "gap breaks streak", days: []int{0, -1, -3}, want: 2},
		{name: "none today", days: []int{-1, -2}, want: 0},
		{name: "several today", days: []int{0, 0, 0}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var quizzes []model.QuizRecord
			for i, d := range tt.days {
				quizzes = append(quizzes, quizAt(int64(i), testNow.AddDate(0, 0, d), model.CategoryEasy, 10, 10, 0))
			}
			got := NewAnalytics(model.Snapshot{Quizzes: quizzes}).CurrentStreak(testNow)
			if got != tt.want {
				t.Fatalf("CurrentStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDailyMetrics(t *testing.T) {
	m := NewAnalytics(sampleSnapshot()).DailyMetrics(testNow)
	if m.Quizzes != 1 || m.Words != 100 || !near(m.Minutes, 2) {
		t.Fatalf("unexpected daily metrics %+v", m)
	}
}

func TestDaysFollowCallerZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, zone)
	// 02:00 UTC is 21:00 on the previous local day.
	lateYesterday := quizAt(1, time.Date(2025, 3, 29, 2, 0, 0, 0, time.UTC), model.CategoryEasy, 40, 60, 50)
	thisMorning := quizAt(2, time.Date(2025, 3, 29, 15, 0, 0, 0, time.UTC), model.CategoryMedium, 200, 120, 100)

	a := NewAnalytics(model.Snapshot{Quizzes: []model.QuizRecord{lateYesterday, thisMorning}})
	if m := a.DailyMetrics(now); m.Quizzes != 1 || m.Words != 200 {
		t.Fatalf("DailyMetrics = %+v, want only the local-today quiz", m)
	}
	if got := a.DailyMetrics(now.AddDate(0, 0, -1)); got.Quizzes != 1 || got.Words != 40 {
		t.Fatalf("previous local day = %+v", got)
	}
	if got := a.CurrentStreak(now); got != 2 {
		t.Fatalf("CurrentStreak = %d, want 2", got)
	}

	onlyYesterday := NewAnalytics(model.Snapshot{Quizzes: []model.QuizRecord{lateYesterday}})
	if got := onlyYesterday.CurrentStreak(now); got != 0 {
		t.Fatalf("CurrentStreak = %d, want 0 without a local-today quiz", got)
	}
	if got := onlyYesterday.DailyMetrics(now).Quizzes; got != 0 {
		t.Fatalf("DailyMetrics counted %d quizzes from the previous local day", got)
	}
}

func TestAnalyticsIsIdempotentAndIsolated(t *testing.T) {
	snap := sampleSnapshot()
	a := NewAnalytics(snap)
	first := a.AverageScore()
	snap.Quizzes[0].ScorePercentage = 0
	if a.AverageScore() != first || a.AverageScore() != first {
		t.Fatalf("analytics changed after snapshot mutation")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, NewAnalytics(sampleSnapshot()), testNow); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Quizzes: 3", "Average score: 80.0%", "Words read: 420", "Current streak: 2 day(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, NewAnalytics(model.Snapshot{}), testNow); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No quizzes found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer
	a := NewAnalytics(sampleSnapshot())
	if err := RenderCategoryTable(&buf, a); err != nil {
		t.Fatalf("render categories: %v", err)
	}
	if err := RenderTypeTable(&buf, a); err != nil {
		t.Fatalf("render types: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"By Category", "easy", "medium", "By Question Type", "reading comprehension"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(12.5); got != "12m 30s" {
		t.Fatalf("unexpected %q", got)
	}
}
