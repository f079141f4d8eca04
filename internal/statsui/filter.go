package statsui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/readquiz/internal/model"
)

const (
	fieldCategory = iota
	fieldSince
	fieldLast
	fieldWindow
)

// filterForm edits a StatsConfig in place of the dashboard body.
type filterForm struct {
	active bool
	fields []textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	prompts := []string{
		"Category (easy/medium/hard): ",
		"Since (YYYY-MM-DD): ",
		"Last N quizzes: ",
		"Average window: ",
	}
	f := filterForm{fields: make([]textinput.Model, len(prompts))}
	for i, p := range prompts {
		in := textinput.New()
		in.Prompt = p
		f.fields[i] = in
	}
	return f
}

// open fills the fields from cfg and focuses the first one.
func (f *filterForm) open(cfg model.StatsConfig) tea.Cmd {
	f.active = true
	f.err = ""
	f.fields[fieldCategory].SetValue(cfg.Category)
	f.fields[fieldSince].SetValue("")
	if cfg.Since != nil {
		f.fields[fieldSince].SetValue(cfg.Since.Format(time.DateOnly))
	}
	f.fields[fieldLast].SetValue("")
	if cfg.Last > 0 {
		f.fields[fieldLast].SetValue(strconv.Itoa(cfg.Last))
	}
	f.fields[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focusField(0)
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	n := len(f.fields)
	f.focus = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].Focus()
			continue
		}
		f.fields[i].Blur()
	}
	return cmd
}

// update handles a key while the form is open. It reports a new config once
// the user submits valid values.
func (f *filterForm) update(msg tea.KeyMsg, current model.StatsConfig) (model.StatsConfig, bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.active = false
		return current, false, nil
	case tea.KeyEnter:
		cfg, err := f.parse(current)
		if err != nil {
			f.err = err.Error()
			return current, false, nil
		}
		f.active = false
		f.err = ""
		return cfg, true, nil
	case tea.KeyTab, tea.KeyDown:
		return current, false, f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return current, false, f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return current, false, cmd
}

func (f *filterForm) parse(current model.StatsConfig) (model.StatsConfig, error) {
	value := func(i int) string { return strings.TrimSpace(f.fields[i].Value()) }
	cfg := model.StatsConfig{CurveWindow: current.CurveWindow}

	if c := strings.ToLower(value(fieldCategory)); c != "" {
		if _, ok := model.ParseCategory(c); !ok {
			return current, errors.New("category must be easy, medium or hard")
		}
		cfg.Category = c
	}
	if s := value(fieldSince); s != "" {
		since, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			return current, errors.New("since must look like 2025-01-31")
		}
		cfg.Since = &since
	}
	if s := value(fieldLast); s != "" {
		last, err := strconv.Atoi(s)
		if err != nil || last < 0 {
			return current, errors.New("last must be 0 or a positive number")
		}
		cfg.Last = last
	}
	if s := value(fieldWindow); s != "" {
		window, err := strconv.Atoi(s)
		if err != nil || window < 1 {
			return current, errors.New("average window must be at least 1")
		}
		cfg.CurveWindow = window
	}
	return cfg, nil
}

func (f *filterForm) setWidth(width int) {
	for i := range f.fields {
		f.fields[i].Width = max(10, width-lipgloss.Width(f.fields[i].Prompt)-2)
	}
}

func (f filterForm) view() string {
	lines := make([]string, 0, len(f.fields)+2)
	lines = append(lines, cardValueStyle.Render("Filters"))
	for _, in := range f.fields {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
