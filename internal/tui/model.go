// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/catalog"
	"github.com/verte-zerg/readquiz/internal/generator"
	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/reader"
)

// QuizSaver persists completed quizzes.
type QuizSaver interface {
	InsertQuiz(ctx context.Context, quiz model.QuizRecord, responses []model.ResponseRecord) (int64, error)
}

// Options wires the reader UI to its collaborators.
type Options struct {
	Config    model.Config
	Books     catalog.BookSource
	Questions generator.Source
	Saver     QuizSaver
	Now       func() time.Time
}

type state int

const (
	stateSearch state = iota
	stateSearching
	stateResults
	stateLoading
	stateReading
	statePreparingQuiz
	stateQuiz
	stateSummary
	stateError
)

type (
	searchDoneMsg struct{ books []model.Book }
	bookLoadedMsg struct {
		book  model.Book
		pages []string
	}
	questionsMsg struct{ questions []model.Question }
	quizSavedMsg struct {
		record model.QuizRecord
		err    error
	}
	errMsg struct{ err error }
)

// Model implements the Bubble Tea reading UI.
type Model struct {
	opts Options

	state  state
	width  int
	height int

	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model

	results []model.Book
	cursor  int

	session *reader.Session
	quiz    *quizState
	notice  string
	err     error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 2)
)

// NewModel constructs the reader. With a book id in the config the book is
// opened directly; otherwise the UI starts with a catalog search.
func NewModel(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	input := textinput.New()
	input.Placeholder = "title or author"
	input.Prompt = "Search: "
	input.CharLimit = 120

	m := &Model{
		opts:     opts,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:    input,
		viewport: viewport.New(80, 20),
	}
	if opts.Config.BookID > 0 {
		m.state = stateLoading
	} else {
		m.state = stateSearch
		m.input.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.state == stateLoading {
		return tea.Batch(m.spinner.Tick, m.loadBookByID(m.opts.Config.BookID))
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case searchDoneMsg:
		m.results = msg.books
		m.cursor = 0
		m.state = stateResults
		if len(m.results) == 0 {
			m.notice = "No readable books found."
		}
		return m, nil
	case bookLoadedMsg:
		m.session = reader.NewSession(msg.book, msg.pages, m.opts.Config.Quizzes, m.opts.Now)
		m.state = stateReading
		m.notice = ""
		log.Info("book opened",
			zap.Int("book_id", msg.book.ID),
			zap.Int("pages", len(msg.pages)),
			zap.Ints("quiz_pages", m.session.Positions()),
			zap.String("session_id", m.session.ID))
		m.refreshPage()
		return m, nil
	case questionsMsg:
		if len(msg.questions) == 0 {
			m.session.Dismiss()
			m.state = stateReading
			m.notice = "Not enough text on this page for a quiz."
			return m, nil
		}
		m.quiz = newQuiz(msg.questions)
		m.state = stateQuiz
		return m, nil
	case quizSavedMsg:
		if msg.err != nil {
			log.Error("save quiz", zap.Error(msg.err))
			m.notice = "Could not save quiz: " + msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Quiz saved · score %.0f%% · %s", msg.record.ScorePercentage, msg.record.Category)
		return m, nil
	case errMsg:
		log.Error("reader failed", zap.Error(msg.err))
		m.err = msg.err
		m.state = stateError
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	if m.state == stateSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSearch:
		return m.handleSearchKey(msg)
	case stateResults:
		return m.handleResultsKey(msg)
	case stateReading:
		return m.handleReadingKey(msg)
	case stateQuiz:
		return m.handleQuizKey(msg)
	case stateSummary, stateError:
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.state = stateSearching
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, m.search(query))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case "esc", "/":
		m.state = stateSearch
		m.input.Focus()
		return m, textinput.Blink
	case "q":
		return m, tea.Quit
	case "enter":
		if len(m.results) == 0 {
			return m, nil
		}
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadText(m.results[m.cursor]))
	}
	return m, nil
}

func (m *Model) handleReadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "right", "l", "n", " ", "pgdown":
		return m, m.afterNavigation(m.session.Next())
	case "left", "h", "p", "pgup":
		return m, m.afterNavigation(m.session.Prev())
	case "home", "g":
		return m, m.afterNavigation(m.session.Goto(0))
	case "end", "G":
		return m, m.afterNavigation(m.session.Goto(m.session.Total() - 1))
	case "q", "esc":
		m.state = stateSummary
		s := m.session.Summary()
		log.Info("session finished", zap.String("session_id", m.session.ID),
			zap.Int("words", s.Words), zap.Duration("elapsed", s.Elapsed), zap.Int("quizzes", s.Quizzes))
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) afterNavigation(quizDue bool) tea.Cmd {
	m.notice = ""
	m.refreshPage()
	if !quizDue {
		return nil
	}
	m.state = statePreparingQuiz
	return tea.Batch(m.spinner.Tick, m.prepareQuiz(m.session.Page()))
}

func (m *Model) finishQuiz() tea.Cmd {
	record, responses := m.session.Complete(m.quiz.questions, m.quiz.answers)
	m.quiz = nil
	m.state = stateReading
	m.refreshPage()
	return m.saveQuiz(record, responses)
}

func (m *Model) busy() bool {
	switch m.state {
	case stateSearching, stateLoading, statePreparingQuiz:
		return true
	}
	return false
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(int(float64(m.width)*0.70), 20)
}

func (m *Model) resize() {
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = max(m.height-4, 3)
	m.refreshPage()
}

func (m *Model) refreshPage() {
	if m.session == nil {
		return
	}
	m.viewport.SetContent(textStyle.Render(wrapText(m.session.Page(), m.viewport.Width)))
	m.viewport.GotoTop()
}

func (m *Model) search(query string) tea.Cmd {
	books := m.opts.Books
	return func() tea.Msg {
		results, err := books.Search(context.Background(), query)
		if err != nil {
			return errMsg{err: err}
		}
		readable := make([]model.Book, 0, len(results))
		for _, b := range results {
			if catalog.HasText(b) {
				readable = append(readable, b)
			}
		}
		return searchDoneMsg{books: readable}
	}
}

func (m *Model) loadBookByID(id int) tea.Cmd {
	books := m.opts.Books
	pageSize := m.opts.Config.PageSize
	return func() tea.Msg {
		ctx := context.Background()
		book, err := books.Book(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return fetchPages(ctx, books, book, pageSize)
	}
}

func (m *Model) loadText(book model.Book) tea.Cmd {
	books := m.opts.Books
	pageSize := m.opts.Config.PageSize
	return func() tea.Msg {
		return fetchPages(context.Background(), books, book, pageSize)
	}
}

func fetchPages(ctx context.Context, books catalog.BookSource, book model.Book, pageSize int) tea.Msg {
	text, err := books.FetchText(ctx, book)
	if err != nil {
		return errMsg{err: err}
	}
	return bookLoadedMsg{book: book, pages: reader.Paginate(text, pageSize)}
}

func (m *Model) prepareQuiz(page string) tea.Cmd {
	src := m.opts.Questions
	n := m.opts.Config.Questions
	return func() tea.Msg {
		questions, err := src.Questions(context.Background(), page, n)
		if err != nil {
			log.Warn("quiz generation failed", zap.Error(err))
			return questionsMsg{}
		}
		return questionsMsg{questions: questions}
	}
}

func (m *Model) saveQuiz(record model.QuizRecord, responses []model.ResponseRecord) tea.Cmd {
	saver := m.opts.Saver
	return func() tea.Msg {
		id, err := saver.InsertQuiz(context.Background(), record, responses)
		if err != nil {
			return quizSavedMsg{record: record, err: err}
		}
		record.ID = id
		log.Info("quiz saved", zap.Int64("quiz_id", id), zap.Float64("score", record.ScorePercentage),
			zap.Int("words", record.WordCount), zap.String("category", string(record.Category)))
		return quizSavedMsg{record: record}
	}
}
