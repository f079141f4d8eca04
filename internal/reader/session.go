package reader

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/readquiz/internal/model"
)

// State is the reading session mode.
type State int

// Session states.
const (
	StateReading State = iota
	StateQuizActive
)

func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateQuizActive:
		return "quiz"
	default:
		return "unknown"
	}
}

// Summary reports what was read in a session.
type Summary struct {
	Words   int
	Elapsed time.Duration
	Quizzes int
}

// Minutes returns the whole minutes of the elapsed time.
func (s Summary) Minutes() int {
	return int(s.Elapsed / time.Minute)
}

// Seconds returns the seconds remainder of the elapsed time.
func (s Summary) Seconds() int {
	return int((s.Elapsed % time.Minute) / time.Second)
}

// Session tracks the current page and decides when a quiz is due.
type Session struct {
	ID        string
	BookID    int
	BookTitle string

	pages     []string
	positions []int
	quizAt    map[int]struct{}
	shown     map[int]bool
	visited   map[int]bool

	current  int
	state    State
	quizPage int

	now          func() time.Time
	startedAt    time.Time
	segmentStart time.Time
	segmentWords int
	wordsRead    int
	quizzesTaken int
}

// NewSession starts a session on page 0 with quizCount quizzes planned.
func NewSession(book model.Book, pages []string, quizCount int, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	if len(pages) == 0 {
		pages = []string{NoContentPage}
	}
	positions := Plan(len(pages), quizCount)
	quizAt := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		quizAt[p] = struct{}{}
	}
	start := now()
	s := &Session{
		ID:           uuid.NewString(),
		BookID:       book.ID,
		BookTitle:    book.Title,
		pages:        pages,
		positions:    positions,
		quizAt:       quizAt,
		shown:        map[int]bool{},
		visited:      map[int]bool{},
		quizPage:     -1,
		now:          now,
		startedAt:    start,
		segmentStart: start,
	}
	s.visit(0)
	return s
}

// Pages returns the paginated text.
func (s *Session) Pages() []string { return s.pages }

// Positions returns the planned quiz pages.
func (s *Session) Positions() []int { return s.positions }

// Current returns the current page index.
func (s *Session) Current() int { return s.current }

// Page returns the text of the current page.
func (s *Session) Page() string { return s.pages[s.current] }

// Total returns the number of pages.
func (s *Session) Total() int { return len(s.pages) }

// State returns the session mode.
func (s *Session) State() State { return s.state }

// QuizPage returns the page that opened the active quiz, or -1.
func (s *Session) QuizPage() int { return s.quizPage }

// Next moves forward one page. It reports whether a quiz became active.
func (s *Session) Next() bool {
	return s.Goto(s.current + 1)
}

// Prev moves back one page. It reports whether a quiz became active.
func (s *Session) Prev() bool {
	return s.Goto(s.current - 1)
}

// Goto moves to page i, clamped to the valid range, and evaluates the quiz
// trigger. Navigation is ignored while a quiz is active.
func (s *Session) Goto(i int) bool {
	if s.state == StateQuizActive {
		return false
	}
	if i < 0 {
		i = 0
	}
	if i > len(s.pages)-1 {
		i = len(s.pages) - 1
	}
	s.current = i
	s.visit(i)
	return s.checkQuiz()
}

func (s *Session) checkQuiz() bool {
	if _, ok := s.quizAt[s.current]; !ok {
		return false
	}
	if s.shown[s.current] {
		return false
	}
	s.shown[s.current] = true
	s.quizPage = s.current
	s.state = StateQuizActive
	return true
}

// Dismiss closes the active quiz without recording it.
func (s *Session) Dismiss() {
	s.state = StateReading
	s.quizPage = -1
}

// Complete records answers for the active quiz, closes it and starts a new
// reading segment. answers[i] is the chosen option index for questions[i].
func (s *Session) Complete(questions []model.Question, answers []int) (model.QuizRecord, []model.ResponseRecord) {
	end := s.now()
	correct := 0
	responses := make([]model.ResponseRecord, 0, len(questions))
	for i, q := range questions {
		ok := i < len(answers) && answers[i] == q.Answer
		if ok {
			correct++
		}
		responses = append(responses, model.ResponseRecord{
			QuestionType: q.Type,
			IsCorrect:    ok,
		})
	}
	score := 0.0
	if len(questions) > 0 {
		score = float64(correct) / float64(len(questions)) * 100
	}
	record := model.QuizRecord{
		SessionID:       s.ID,
		BookID:          s.BookID,
		BookTitle:       s.BookTitle,
		WordCount:       s.segmentWords,
		DurationSeconds: int(end.Sub(s.segmentStart) / time.Second),
		Date:            end,
		Category:        model.CategoryForWords(s.segmentWords),
		ScorePercentage: score,
	}

	s.quizzesTaken++
	s.segmentStart = end
	s.segmentWords = 0
	s.Dismiss()
	return record, responses
}

// Summary returns totals for the session so far.
func (s *Session) Summary() Summary {
	return Summary{
		Words:   s.wordsRead,
		Elapsed: s.now().Sub(s.startedAt),
		Quizzes: s.quizzesTaken,
	}
}

func (s *Session) visit(i int) {
	if s.visited[i] {
		return
	}
	s.visited[i] = true
	words := WordCount(s.pages[i])
	s.wordsRead += words
	s.segmentWords += words
}
