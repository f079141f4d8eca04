// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/readquiz/internal/model"
)

// TypePerformance is the share of correct answers for one question type.
type TypePerformance struct {
	Type           string
	PercentCorrect float64
	Count          int
}

// CategoryScore is the mean quiz score for one category.
type CategoryScore struct {
	Category     model.Category
	AverageScore float64
}

// CategoryWords is the number of words read in one category.
type CategoryWords struct {
	Category model.Category
	Words    int
}

// CategoryMinutes is the reading time in one category.
type CategoryMinutes struct {
	Category model.Category
	Minutes  float64
}

// CategoryScores lists every score recorded in one category.
type CategoryScores struct {
	Category model.Category
	Scores   []float64
}

// DailyMetrics summarizes the quizzes taken on one calendar day.
type DailyMetrics struct {
	Quizzes int
	Words   int
	Minutes float64
}

// CumulativePoint is a running total at the date of one quiz.
type CumulativePoint struct {
	Date  time.Time
	Count int
	Words int
}

// Analytics derives reading metrics from a record snapshot. All methods are
// read-only; zero denominators produce 0.
type Analytics struct {
	quizzes   []model.QuizRecord
	responses []model.ResponseRecord
}

// NewAnalytics copies the snapshot so later changes to it are not observed.
func NewAnalytics(snap model.Snapshot) *Analytics {
	quizzes := make([]model.QuizRecord, len(snap.Quizzes))
	copy(quizzes, snap.Quizzes)
	responses := make([]model.ResponseRecord, len(snap.Responses))
	copy(responses, snap.Responses)
	return &Analytics{quizzes: quizzes, responses: responses}
}

// QuizCount returns the number of quizzes.
func (a *Analytics) QuizCount() int {
	return len(a.quizzes)
}

// ResponseCount returns the number of answered questions.
func (a *Analytics) ResponseCount() int {
	return len(a.responses)
}

// AverageScore returns the mean score over all quizzes.
func (a *Analytics) AverageScore() float64 {
	return meanScore(a.quizzes)
}

// CorrectCount returns the number of correct responses.
func (a *Analytics) CorrectCount() int {
	return lo.CountBy(a.responses, func(r model.ResponseRecord) bool { return r.IsCorrect })
}

// IncorrectCount returns the number of incorrect responses.
func (a *Analytics) IncorrectCount() int {
	return len(a.responses) - a.CorrectCount()
}

// CorrectPercent returns the share of correct responses in percent.
func (a *Analytics) CorrectPercent() float64 {
	return percent(a.CorrectCount(), len(a.responses))
}

// TotalWordsRead sums words over all quizzes.
func (a *Analytics) TotalWordsRead() int {
	return lo.SumBy(a.quizzes, func(q model.QuizRecord) int { return q.WordCount })
}

// TotalTimeMinutes sums reading time over all quizzes.
func (a *Analytics) TotalTimeMinutes() float64 {
	return minutes(a.quizzes)
}

// PerformanceByQuestionType returns percent correct per question type, sorted by type.
func (a *Analytics) PerformanceByQuestionType() []TypePerformance {
	grouped := lo.GroupBy(a.responses, func(r model.ResponseRecord) string { return r.QuestionType })
	out := make([]TypePerformance, 0, len(grouped))
	for typ, rs := range grouped {
		correct := lo.CountBy(rs, func(r model.ResponseRecord) bool { return r.IsCorrect })
		out = append(out, TypePerformance{
			Type:           typ,
			PercentCorrect: percent(correct, len(rs)),
			Count:          len(rs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// PerformanceByCategory returns the mean score per category, sorted by category.
func (a *Analytics) PerformanceByCategory() []CategoryScore {
	grouped := a.byCategory()
	out := make([]CategoryScore, 0, len(grouped))
	for _, cat := range sortedCategories(grouped) {
		out = append(out, CategoryScore{Category: cat, AverageScore: meanScore(grouped[cat])})
	}
	return out
}

// WordsByCategory returns words read per category, sorted by category.
func (a *Analytics) WordsByCategory() []CategoryWords {
	grouped := a.byCategory()
	out := make([]CategoryWords, 0, len(grouped))
	for _, cat := range sortedCategories(grouped) {
		words := lo.SumBy(grouped[cat], func(q model.QuizRecord) int { return q.WordCount })
		out = append(out, CategoryWords{Category: cat, Words: words})
	}
	return out
}

// TimeByCategoryMinutes returns reading minutes per category, sorted by category.
func (a *Analytics) TimeByCategoryMinutes() []CategoryMinutes {
	grouped := a.byCategory()
	out := make([]CategoryMinutes, 0, len(grouped))
	for _, cat := range sortedCategories(grouped) {
		out = append(out, CategoryMinutes{Category: cat, Minutes: minutes(grouped[cat])})
	}
	return out
}

// ScoresByCategory returns the individual scores per category, sorted by category.
func (a *Analytics) ScoresByCategory() []CategoryScores {
	grouped := a.byCategory()
	out := make([]CategoryScores, 0, len(grouped))
	for _, cat := range sortedCategories(grouped) {
		scores := lo.Map(grouped[cat], func(q model.QuizRecord, _ int) float64 { return q.ScorePercentage })
		out = append(out, CategoryScores{Category: cat, Scores: scores})
	}
	return out
}

// QuizzesOrderedByDate returns the quizzes in ascending date order.
func (a *Analytics) QuizzesOrderedByDate() []model.QuizRecord {
	out := make([]model.QuizRecord, len(a.quizzes))
	copy(out, a.quizzes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CumulativeCounts returns, for each quiz in date order, the number of quizzes
// and words with a date at or before it.
func (a *Analytics) CumulativeCounts() []CumulativePoint {
	ordered := a.QuizzesOrderedByDate()
	prefixWords := make([]int, len(ordered)+1)
	for i, q := range ordered {
		prefixWords[i+1] = prefixWords[i] + q.WordCount
	}
	out := make([]CumulativePoint, 0, len(ordered))
	for _, q := range ordered {
		n := sort.Search(len(ordered), func(k int) bool { return ordered[k].Date.After(q.Date) })
		out = append(out, CumulativePoint{Date: q.Date, Count: n, Words: prefixWords[n]})
	}
	return out
}

// ScoreSeries returns quiz scores in date order.
func (a *Analytics) ScoreSeries() []float64 {
	return lo.Map(a.QuizzesOrderedByDate(), func(q model.QuizRecord, _ int) float64 { return q.ScorePercentage })
}

// CurrentStreak counts consecutive local calendar days with at least one quiz,
// walking back from the day of now. No quiz today means a streak of 0.
func (a *Analytics) CurrentStreak(now time.Time) int {
	days := make(map[string]struct{}, len(a.quizzes))
	for _, q := range a.quizzes {
		days[dayKey(q.Date.In(now.Location()))] = struct{}{}
	}
	streak := 0
	day := startOfDay(now)
	for {
		if _, ok := days[dayKey(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// DailyMetrics aggregates the quizzes that fall on the local calendar day of day.
func (a *Analytics) DailyMetrics(day time.Time) DailyMetrics {
	target := startOfDay(day)
	todays := lo.Filter(a.quizzes, func(q model.QuizRecord, _ int) bool {
		return startOfDay(q.Date.In(day.Location())).Equal(target)
	})
	return DailyMetrics{
		Quizzes: len(todays),
		Words:   lo.SumBy(todays, func(q model.QuizRecord) int { return q.WordCount }),
		Minutes: minutes(todays),
	}
}

func (a *Analytics) byCategory() map[model.Category][]model.QuizRecord {
	return lo.GroupBy(a.quizzes, func(q model.QuizRecord) model.Category { return q.Category })
}

func sortedCategories(grouped map[model.Category][]model.QuizRecord) []model.Category {
	cats := lo.Keys(grouped)
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func meanScore(quizzes []model.QuizRecord) float64 {
	if len(quizzes) == 0 {
		return 0
	}
	total := lo.SumBy(quizzes, func(q model.QuizRecord) float64 { return q.ScorePercentage })
	return total / float64(len(quizzes))
}

func minutes(quizzes []model.QuizRecord) float64 {
	seconds := lo.SumBy(quizzes, func(q model.QuizRecord) int { return q.DurationSeconds })
	return float64(seconds) / 60.0
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
