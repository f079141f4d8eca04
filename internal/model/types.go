// Package model defines shared data structures.
package model

import "time"

// Category is the difficulty band of a quiz.
type Category string

// Quiz difficulty bands.
const (
	CategoryEasy   Category = "easy"
	CategoryMedium Category = "medium"
	CategoryHard   Category = "hard"
)

// Categories lists every difficulty band in display order.
var Categories = []Category{CategoryEasy, CategoryMedium, CategoryHard}

// Question types recorded on responses.
const (
	QuestionVocabulary    = "vocabulary"
	QuestionComprehension = "reading comprehension"
)

// CategoryForWords maps the number of words read before a quiz to a difficulty band.
func CategoryForWords(words int) Category {
	switch {
	case words < 150:
		return CategoryEasy
	case words < 300:
		return CategoryMedium
	default:
		return CategoryHard
	}
}

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Config defines reader settings.
type Config struct {
	BookID      int
	PageSize    int
	Quizzes     int
	Questions   int
	Distractors string
	UseClaude   bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Category    string
	Last        int
	CurveWindow int
}

// QuizRecord is one completed quiz attempt.
type QuizRecord struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"session_id"`
	BookID          int       `json:"book_id"`
	BookTitle       string    `json:"book_title"`
	WordCount       int       `json:"word_count"`
	DurationSeconds int       `json:"duration_seconds"`
	Date            time.Time `json:"date"`
	Category        Category  `json:"category"`
	ScorePercentage float64   `json:"score_percentage"`
}

// ResponseRecord is one answered question within a quiz attempt.
type ResponseRecord struct {
	ID           int64  `json:"id"`
	QuestionType string `json:"question_type"`
	IsCorrect    bool   `json:"is_correct"`
	QuizID       int64  `json:"quiz_id"`
}

// Snapshot is the full record set read from the store.
type Snapshot struct {
	Quizzes   []QuizRecord     `json:"quizzes"`
	Responses []ResponseRecord `json:"responses"`
}

// Question is a multiple-choice quiz question.
type Question struct {
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Author is a book author from the catalog.
type Author struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

// Book is a catalog entry.
type Book struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []Author          `json:"authors"`
	Languages     []string          `json:"languages"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
}

// AuthorNames joins author names for display.
func (b Book) AuthorNames() string {
	out := ""
	for i, a := range b.Authors {
		if i > 0 {
			out += "; "
		}
		out += a.Name
	}
	return out
}
