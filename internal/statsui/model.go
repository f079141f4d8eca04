// Package statsui provides the Bubble Tea stats dashboard.
package statsui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/stats"
)

const (
	tabOverview = iota
	tabCategories
	tabTypes
	tabTimeline
	tabCount
)

var tabTitles = [tabCount]string{"Overview", "Categories", "Question Types", "Timeline"}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store stats.RecordStore
	cfg   model.StatsConfig
	now   func() time.Time

	report stats.Report
	errMsg string

	activeTab int
	pages     [tabCount]viewport.Model
	catTable  table.Model
	filter    filterForm

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over st.
func NewModel(st stats.RecordStore, cfg model.StatsConfig, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	cfg.CurveWindow = max(cfg.CurveWindow, 1)
	m := &Model{
		store:    st,
		cfg:      cfg,
		now:      now,
		catTable: newCategoryTable(),
		filter:   newFilterForm(),
		keys:     defaultKeys(),
		help:     help.New(),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filter.active {
			cfg, applied, cmd := m.filter.update(msg, m.cfg)
			if applied {
				m.cfg = cfg
				m.reload()
			}
			return m, cmd
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(m.activeTab - 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(m.activeTab + 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.WiderCurve):
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.reload()
	case key.Matches(msg, m.keys.NarrowCurve):
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.reload()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	case key.Matches(msg, m.keys.Filter):
		return m.filter.open(m.cfg)
	case key.Matches(msg, m.keys.Top):
		if m.activeTab == tabCategories {
			m.catTable.GotoTop()
		}
		m.pages[m.activeTab].GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		if m.activeTab == tabCategories {
			m.catTable.GotoBottom()
		}
		m.pages[m.activeTab].GotoBottom()
	default:
		var cmd tea.Cmd
		if m.activeTab == tabCategories {
			m.catTable, cmd = m.catTable.Update(msg)
			return cmd
		}
		m.pages[m.activeTab], cmd = m.pages[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) switchTab(idx int) {
	m.activeTab = (idx + tabCount) % tabCount
	if m.activeTab == tabCategories {
		m.catTable.Focus()
		return
	}
	m.catTable.Blur()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.filter.setWidth(width)
	body := m.bodyHeight()
	for i := range m.pages {
		m.pages[i].Width = width
		m.pages[i].Height = body
	}
	m.catTable.SetWidth(width)
	m.catTable.SetHeight(len(model.Categories))
	// Header row, its rule and a spacer line sit above the bars.
	m.pages[tabCategories].Height = max(body-len(model.Categories)-3, 1)
	m.fillPages()
}

// reload rebuilds the report from the store with the current filters.
func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		log.Error("load stats", zap.Error(err))
		m.errMsg = err.Error()
		m.fillPages()
		return
	}
	m.errMsg = ""
	m.report = report
	m.catTable.SetRows(categoryRows(report.Analytics))
	m.fillPages()
}
