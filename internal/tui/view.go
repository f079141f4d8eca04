package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.state {
	case stateSearch:
		content = m.renderSearch()
	case stateSearching:
		content = m.spinner.View() + " Searching the catalog…"
	case stateResults:
		content = m.renderResults()
	case stateLoading:
		content = m.spinner.View() + " Downloading book…"
	case statePreparingQuiz:
		content = m.spinner.View() + " Preparing quiz…"
	case stateReading:
		return m.renderReading()
	case stateQuiz:
		content = m.renderQuiz()
	case stateSummary:
		content = m.renderSummary()
	case stateError:
		content = wrongStyle.Render("Error: "+m.err.Error()) + "\n\n" + mutedStyle.Render("press any key to quit")
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderSearch() string {
	lines := []string{
		titleStyle.Render("Search Project Gutenberg"),
		"",
		m.input.View(),
		"",
		mutedStyle.Render("enter: search · esc: quit"),
	}
	if m.notice != "" {
		lines = append(lines, "", mutedStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	if len(m.results) == 0 {
		return mutedStyle.Render(m.notice) + "\n\n" + mutedStyle.Render("esc: new search · q: quit")
	}
	visible := max(m.height-6, 5)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.results))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d books", len(m.results))))
	b.WriteString("\n\n")
	for i := start; i < end; i++ {
		book := m.results[i]
		line := fmt.Sprintf("%-6d %s", book.ID, book.Title)
		if authors := book.AuthorNames(); authors != "" {
			line += mutedStyle.Render(" · " + authors)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/↓: move · enter: read · esc: new search · q: quit"))
	return b.String()
}

func (m *Model) renderReading() string {
	header := titleStyle.Render(m.session.BookTitle)
	body := m.viewport.View()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + body + "\n" + footer
	}
	column := lipgloss.JoinVertical(lipgloss.Left, header, "", body)
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, column)
	return main + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderFooter() string {
	if m.session == nil || m.session.Total() == 0 {
		return ""
	}
	current := m.session.Current() + 1
	total := m.session.Total()
	summary := m.session.Summary()
	segments := []string{
		fmt.Sprintf("Page %d/%d", current, total),
		fmt.Sprintf("Progress %d%%", current*100/total),
		fmt.Sprintf("Quizzes %d/%d", summary.Quizzes, len(lo.Uniq(m.session.Positions()))),
		fmt.Sprintf("Words %d", summary.Words),
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	segments = append(segments, "←/→ page · q: finish")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderSummary() string {
	if m.session == nil {
		return mutedStyle.Render("Nothing read.")
	}
	s := m.session.Summary()
	lines := []string{
		titleStyle.Render("Reading summary"),
		"",
		fmt.Sprintf("Book:     %s", m.session.BookTitle),
		fmt.Sprintf("Words:    %d", s.Words),
		fmt.Sprintf("Time:     %d min %d sec", s.Minutes(), s.Seconds()),
		fmt.Sprintf("Quizzes:  %d", s.Quizzes),
		"",
		mutedStyle.Render("press any key to exit"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
