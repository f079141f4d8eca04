package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/readquiz/internal/model"
)

type quizState struct {
	questions []model.Question
	answers   []int
	index     int
	selected  int
	revealed  bool
}

func newQuiz(questions []model.Question) *quizState {
	return &quizState{questions: questions, answers: make([]int, 0, len(questions))}
}

func (q *quizState) current() model.Question {
	return q.questions[q.index]
}

func (q *quizState) done() bool {
	return q.index >= len(q.questions)
}

// choose records the selected option for the current question.
func (q *quizState) choose() {
	if q.revealed {
		return
	}
	q.answers = append(q.answers, q.selected)
	q.revealed = true
}

func (q *quizState) advance() {
	q.index++
	q.selected = 0
	q.revealed = false
}

func (q *quizState) move(delta int) {
	if q.revealed {
		return
	}
	n := len(q.current().Options)
	q.selected = (q.selected + delta + n) % n
}

func (m *Model) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	key := msg.String()
	switch key {
	case "up", "k":
		q.move(-1)
	case "down", "j", "tab":
		q.move(1)
	case "enter", " ":
		if !q.revealed {
			q.choose()
			return m, nil
		}
		q.advance()
		if q.done() {
			return m, m.finishQuiz()
		}
	case "s":
		m.quiz = nil
		m.session.Dismiss()
		m.state = stateReading
		m.notice = "Quiz skipped."
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' && !q.revealed {
			if idx := int(key[0] - '1'); idx < len(q.current().Options) {
				q.selected = idx
				q.choose()
			}
		}
	}
	return m, nil
}

func (m *Model) renderQuiz() string {
	q := m.quiz
	question := q.current()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Quiz · question %d of %d", q.index+1, len(q.questions))))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(wrapText(question.Prompt, m.contentWidth()-6)))
	b.WriteString("\n\n")
	for i, opt := range question.Options {
		marker := "  "
		style := textStyle
		if i == q.selected {
			marker = "> "
			style = selectedStyle
		}
		if q.revealed {
			switch {
			case i == question.Answer:
				style = correctStyle
			case i == q.selected:
				style = wrongStyle
			}
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d. %s", marker, i+1, opt)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if q.revealed {
		if q.answers[len(q.answers)-1] == question.Answer {
			b.WriteString(correctStyle.Render("Correct!"))
		} else {
			b.WriteString(wrongStyle.Render("Not quite. The answer was " + question.Options[question.Answer] + "."))
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter: continue"))
	} else {
		b.WriteString(mutedStyle.Render("↑/↓ or 1-9: choose · enter: answer · s: skip quiz"))
	}
	return boxStyle.Width(m.contentWidth()).Render(b.String())
}
