// Package dashui provides the Bubble Tea dashboard interface.
package dashui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mindgym-app/mindgym/internal/chart"
	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/progress"
	"github.com/mindgym-app/mindgym/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabTrends
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	store *store.Store

	report progress.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	histTable table.Model

	window int // moving-average window for trend curves

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterTask  model.TaskType // empty means all tasks
	filterError string
}

// NewModel constructs a dashboard model and loads the report.
func NewModel(st *store.Store, window int) *Model {
	if window < 1 {
		window = 1
	}
	m := &Model{
		store:  st,
		window: window,
		tabs:   []string{"Overview", "History", "Trends"},
	}
	m.initFilterInput()
	m.initHistTable()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
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
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.activeTab == tabHistory {
			m.histTable.Focus()
		} else {
			m.histTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window += 5 - (m.window % 5)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window -= 5
			if m.window < 1 {
				m.window = 1
			}
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.histTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.histTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.histTable, cmd = m.histTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.filterMode {
		return fitLines(m.renderFilterModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initFilterInput() {
	input := textinput.New()
	input.Prompt = "Task: "
	input.Placeholder = "tapping-speed (empty for all)"
	input.Cursor.SetMode(cursor.CursorBlink)
	m.filterInput = input
}

func (m *Model) initHistTable() {
	m.histTable = table.New(
		table.WithColumns(historyColumns()),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	m.histTable.SetStyles(styles)
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Task", Width: 21},
		{Title: "Score", Width: 5},
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.histTable.SetWidth(m.width)
	m.histTable.SetHeight(maxInt(1, vpHeight-1))
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	task := "all"
	if m.filterTask != "" {
		task = string(m.filterTask)
	}
	summary := fmt.Sprintf("Settings: task=%s  window=%d", task, m.window)
	summary = truncateLine(summary, m.width)
	return tabs + "\n" + padLines(headerStyle.Render(summary), m.width)
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q"
	if m.errMsg != "" {
		return headerStyle.Render(help) + "\n" + errorStyle.Render(m.errMsg)
	}
	return headerStyle.Render(help)
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabHistory {
		if len(m.filteredPerformances()) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.histTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := progress.BuildReport(context.Background(), m.store, time.Now())
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.applyHistTable()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabTrends].SetContent(m.renderTrends(width))
}

func (m *Model) renderOverview(width int) string {
	stats := m.report.Stats
	if stats.TasksCompleted == 0 {
		return "No sessions yet. Run `mindgym` to play a task."
	}
	cards := []string{
		metricCard("Brain & Body Score", fmt.Sprintf("%d", m.report.Overall)),
		metricCard("Streak", fmt.Sprintf("%d day(s)", stats.Streak)),
		metricCard("Sessions", fmt.Sprintf("%d", stats.TasksCompleted)),
		metricCard("Total Score", fmt.Sprintf("%d", stats.TotalScore)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	rows := make([]string, 0, len(model.AllTasks))
	for _, task := range model.AllTasks {
		avg := stats.Averages[task]
		series := progress.ScoreSeries(m.report.Performances, task)
		spark := chart.Sparkline(series)
		rows = append(rows, fmt.Sprintf("%-21s %5.1f  %s", task.Name(), avg, spark))
	}
	sections := []string{summary, "", strings.Join(rows, "\n")}
	if line := m.renderChallengeLine(); line != "" {
		sections = append(sections, "", line)
	}
	return strings.TrimRight(strings.Join(sections, "\n"), "\n")
}

func (m *Model) renderChallengeLine() string {
	ch := m.report.Challenge
	if ch == nil {
		return ""
	}
	if ch.Completed {
		return doneStyle.Render("Daily challenge complete!")
	}
	parts := make([]string, 0, len(ch.Tasks))
	for _, task := range ch.Tasks {
		mark := "·"
		if ch.TaskDone(task) {
			mark = "✓"
		}
		parts = append(parts, fmt.Sprintf("%s %s", mark, task.Name()))
	}
	return headerStyle.Render("Daily challenge: " + strings.Join(parts, "  "))
}

func (m *Model) renderTrends(width int) string {
	if len(m.report.Performances) == 0 {
		return "No sessions found."
	}
	series := make([]chart.Series, 0, len(model.AllTasks))
	for _, task := range model.AllTasks {
		if m.filterTask != "" && task != m.filterTask {
			continue
		}
		values := progress.ScoreSeries(m.report.Performances, task)
		if len(values) == 0 {
			continue
		}
		series = append(series, chart.Series{
			Name:   task.Name(),
			Values: chart.MovingAverage(values, m.window),
		})
	}
	if len(series) == 0 {
		return "No sessions for the selected task."
	}
	var buf bytes.Buffer
	if err := chart.PlotSeriesWithColor(&buf, "Score trend", series, chart.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) filteredPerformances() []model.UserPerformance {
	perfs := m.report.Performances
	if m.filterTask == "" {
		return perfs
	}
	out := make([]model.UserPerformance, 0, len(perfs))
	for _, p := range perfs {
		if p.Task == m.filterTask {
			out = append(out, p)
		}
	}
	return out
}

func (m *Model) applyHistTable() {
	perfs := m.filteredPerformances()
	rows := make([]table.Row, 0, len(perfs))
	// Newest first.
	for i := len(perfs) - 1; i >= 0; i-- {
		p := perfs[i]
		rows = append(rows, table.Row{
			p.CompletedAt.Local().Format("2006-01-02 15:04"),
			p.Task.Name(),
			fmt.Sprintf("%d", p.Score),
		})
	}
	m.histTable.SetColumns(historyColumns())
	m.histTable.SetRows(rows)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInput.SetValue(string(m.filterTask))
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.filterInput.Value())
		if raw == "" {
			m.filterTask = ""
		} else {
			task, err := model.ParseTask(raw)
			if err != nil {
				m.filterError = err.Error()
				return m, nil
			}
			m.filterTask = task
		}
		m.filterMode = false
		m.filterError = ""
		m.applyHistTable()
		m.renderTabContents()
		return m, tea.ClearScreen
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) renderFilterModal() string {
	body := []string{
		cardValueStyle.Render("Filter by task"),
		m.filterInput.View(),
		headerStyle.Render("Task identifier, e.g. stroop-test. Empty shows all."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	if m.filterError != "" {
		body = append(body, errorStyle.Render(m.filterError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
