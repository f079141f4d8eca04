package generator

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/readquiz/internal/model"
)

// Sample history defaults.
const (
	DefaultSampleQuizzes   = 20
	DefaultSampleResponses = 10
	sampleDays             = 30
)

type band struct {
	minWords, maxWords int
	pCorrect           float64
}

var bands = map[model.Category]band{
	model.CategoryEasy:   {minWords: 50, maxWords: 150, pCorrect: 0.8},
	model.CategoryMedium: {minWords: 150, maxWords: 300, pCorrect: 0.7},
	model.CategoryHard:   {minWords: 300, maxWords: 500, pCorrect: 0.6},
}

var questionTypes = []string{model.QuestionVocabulary, model.QuestionComprehension}

// SampleHistory fabricates quizzes quizzes of responses answers each, dated
// within the 30 days before now. Quiz ids start at 1 and responses reference them.
func (g *Generator) SampleHistory(quizzes, responses int, now time.Time) model.Snapshot {
	var snap model.Snapshot
	if quizzes <= 0 {
		return snap
	}
	if responses <= 0 {
		responses = DefaultSampleResponses
	}
	sessionID := uuid.NewString()
	var responseID int64
	for i := 1; i <= quizzes; i++ {
		cat := model.Categories[g.rnd.Intn(len(model.Categories))]
		b := bands[cat]
		words := b.minWords + g.rnd.Intn(b.maxWords-b.minWords+1)
		spread := 1 + (g.rnd.Float64()*0.4 - 0.2)
		seconds := int(float64(words) * 1.2 * spread)
		date := now.AddDate(0, 0, -g.rnd.Intn(sampleDays+1))

		quizID := int64(i)
		correct := 0
		for j := 0; j < responses; j++ {
			ok := g.rnd.Float64() < b.pCorrect
			if ok {
				correct++
			}
			responseID++
			snap.Responses = append(snap.Responses, model.ResponseRecord{
				ID:           responseID,
				QuestionType: questionTypes[g.rnd.Intn(len(questionTypes))],
				IsCorrect:    ok,
				QuizID:       quizID,
			})
		}
		snap.Quizzes = append(snap.Quizzes, model.QuizRecord{
			ID:              quizID,
			SessionID:       sessionID,
			BookTitle:       "Sample",
			WordCount:       words,
			DurationSeconds: seconds,
			Date:            date,
			Category:        cat,
			ScorePercentage: float64(correct*100) / float64(responses),
		})
	}
	return snap
}
