package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/stats"
)

const plotHeight = 8

const (
	colorAccent = lipgloss.Color("#5FAFD7")
	colorText   = lipgloss.Color("#EAEAEA")
	colorDim    = lipgloss.Color("#7A7A7A")
	colorFrame  = lipgloss.Color("#3C3C3C")
	colorAlert  = lipgloss.Color("#E06C75")
)

var (
	tabBase        = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	tabOn          = tabBase.Foreground(colorText).Bold(true).BorderForeground(colorAccent)
	tabOff         = tabBase.Foreground(colorDim).BorderForeground(colorFrame)
	dimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle     = lipgloss.NewStyle().Foreground(colorAlert)
	cardStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(colorFrame)
	cardLabelStyle = dimStyle
	cardValueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
)

const emptyHistory = "No quizzes found."

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), dimStyle.Render(truncateLine(m.filterSummary(), m.width)))
	return lipgloss.JoinVertical(lipgloss.Left,
		frame(header, m.width, m.headerHeight()),
		frame(m.body(), m.width, m.bodyHeight()),
		frame(m.footer(), m.width, m.footerHeight()),
	)
}

func (m *Model) headerHeight() int {
	return lipgloss.Height(tabOn.Render("x")) + 1
}

func (m *Model) footerHeight() int {
	if m.errMsg != "" && !m.filter.active {
		return 2
	}
	return 1
}

func (m *Model) bodyHeight() int {
	return max(m.height-m.headerHeight()-m.footerHeight(), 1)
}

func (m *Model) tabBar() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		style := tabOff
		if i == m.activeTab {
			style = tabOn
		}
		tabs[i] = style.Render(title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) filterSummary() string {
	category, since, last := "any", "any", "all"
	if m.cfg.Category != "" {
		category = m.cfg.Category
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(time.DateOnly)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("category %s · since %s · last %s · avg window %d", category, since, last, m.cfg.CurveWindow)
}

func (m *Model) body() string {
	switch {
	case m.filter.active:
		return m.filter.view()
	case m.activeTab == tabCategories && m.errMsg == "":
		if a := m.report.Analytics; a == nil || a.QuizCount() == 0 {
			return emptyHistory
		}
		return dimStyle.Render(m.catTable.View()) + "\n\n" + m.pages[tabCategories].View()
	}
	return m.pages[m.activeTab].View()
}

func (m *Model) footer() string {
	if m.filter.active {
		return dimStyle.Render("tab/↓ next field · shift+tab/↑ previous · enter apply · esc cancel")
	}
	line := m.help.View(m.keys)
	if m.errMsg != "" {
		line += "\n" + errorStyle.Render(m.errMsg)
	}
	return line
}

// fillPages re-renders every tab into its viewport.
func (m *Model) fillPages() {
	if m.errMsg != "" {
		for i := range m.pages {
			m.pages[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	a := m.report.Analytics
	m.pages[tabOverview].SetContent(overview(a, m.now(), width))
	m.pages[tabCategories].SetContent(capture(func(buf *bytes.Buffer) error {
		return stats.RenderCategoryBars(buf, a, width)
	}))
	m.pages[tabTypes].SetContent(capture(func(buf *bytes.Buffer) error {
		return stats.RenderTypeTable(buf, a)
	}))
	m.pages[tabTimeline].SetContent(timeline(m.report, m.cfg.CurveWindow, width))
}

func overview(a *stats.Analytics, now time.Time, width int) string {
	if a.QuizCount() == 0 {
		return emptyHistory
	}
	today := a.DailyMetrics(now)
	cards := []string{
		card("Quizzes", strconv.Itoa(a.QuizCount())),
		card("Avg Score", fmt.Sprintf("%.1f%%", a.AverageScore())),
		card("Correct", fmt.Sprintf("%d/%d", a.CorrectCount(), a.ResponseCount())),
		card("Incorrect", strconv.Itoa(a.IncorrectCount())),
		card("Words Read", strconv.Itoa(a.TotalWordsRead())),
		card("Reading Time", stats.FormatMinutes(a.TotalTimeMinutes())),
		card("Streak", fmt.Sprintf("%d day(s)", a.CurrentStreak(now))),
		card("Today", fmt.Sprintf("%d quizzes, %d words", today.Quizzes, today.Words)),
	}
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...),
	)
}

func timeline(report stats.Report, window, width int) string {
	if report.Analytics.QuizCount() == 0 {
		return emptyHistory
	}
	return capture(func(buf *bytes.Buffer) error {
		if err := stats.RenderCurves(buf, report.Analytics, window, width, plotHeight, true); err != nil {
			return err
		}
		recent := report.Window
		if _, err := fmt.Fprintf(buf, "\nLast %d quizzes: avg score %.1f%%, %d words\n\n",
			recent.QuizCount(), recent.AverageScore(), recent.TotalWordsRead()); err != nil {
			return err
		}
		return stats.RenderScoreDistribution(buf, report.Analytics)
	})
}

// capture runs a stats renderer into a string.
func capture(render func(buf *bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return errorStyle.Render("render failed: " + err.Error())
	}
	return strings.TrimRight(buf.String(), "\n")
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newCategoryTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(colorText).
		BorderForeground(colorFrame).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(colorAccent).Bold(true)

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 10},
			{Title: "Quizzes", Width: 8},
			{Title: "Avg Score", Width: 10},
			{Title: "Words", Width: 8},
			{Title: "Time", Width: 9},
		}),
		table.WithHeight(len(model.Categories)),
		table.WithStyles(styles),
	)
}

func categoryRows(a *stats.Analytics) []table.Row {
	scores := a.PerformanceByCategory()
	words := a.WordsByCategory()
	minutes := a.TimeByCategoryMinutes()
	dist := a.ScoresByCategory()
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			string(s.Category),
			strconv.Itoa(len(dist[i].Scores)),
			fmt.Sprintf("%.1f%%", s.AverageScore),
			strconv.Itoa(words[i].Words),
			stats.FormatMinutes(minutes[i].Minutes),
		}
	}
	return rows
}

// frame clips s to a width x height block and pads it with blanks.
func frame(s string, width, height int) string {
	clipped := lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).Render(s)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, clipped)
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
