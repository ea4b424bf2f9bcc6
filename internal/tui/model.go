// Package tui provides the Bubble Tea task interface.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/progress"
	"github.com/mindgym-app/mindgym/internal/store"
)

type mode int

const (
	modePicker mode = iota
	modeTask
	modeResult
)

// playableTasks lists the tasks with a terminal runner. Sound discrimination
// has no terminal audio path; its sessions come in through the log command.
var playableTasks = []model.TaskType{
	model.TaskTapping,
	model.TaskStroop,
	model.TaskReaction,
	model.TaskHanoi,
	model.TaskSpatial,
	model.TaskDecision,
}

// runner is one task session in progress.
type runner interface {
	init() tea.Cmd
	update(msg tea.Msg) (runner, tea.Cmd)
	view() string
	done() bool
	metrics() model.TaskMetrics
}

// Model implements the Bubble Tea task picker and session flow.
type Model struct {
	store *store.Store
	cfg   model.Config
	rnd   *rand.Rand

	width  int
	height int

	mode   mode
	cursor int

	activeTask model.TaskType
	active     runner

	stats     model.UserStats
	hasStats  bool
	challenge *model.DailyChallenge

	result model.UserPerformance
	errMsg string
}

// NewModel constructs the picker model and loads the current progress.
func NewModel(st *store.Store, cfg model.Config) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.loadProgress()
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modePicker:
			return m.updatePicker(msg)
		case modeTask:
			if msg.Type == tea.KeyEsc {
				// Abandoned sessions are never persisted.
				m.active = nil
				m.mode = modePicker
				return m, tea.ClearScreen
			}
			return m.updateTask(msg)
		case modeResult:
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
				m.mode = modePicker
				return m, tea.ClearScreen
			}
			return m, nil
		}
		return m, nil
	default:
		if m.mode == modeTask {
			return m.updateTask(msg)
		}
		return m, nil
	}
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(playableTasks) - 1
		}
		return m, nil
	case "down", "j":
		m.cursor++
		if m.cursor >= len(playableTasks) {
			m.cursor = 0
		}
		return m, nil
	case "enter":
		return m.startTask(playableTasks[m.cursor])
	}
	return m, nil
}

func (m *Model) updateTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.active == nil {
		m.mode = modePicker
		return m, nil
	}
	var cmd tea.Cmd
	m.active, cmd = m.active.update(msg)
	if m.active.done() {
		m.finishTask()
		return m, tea.ClearScreen
	}
	return m, cmd
}

func (m *Model) startTask(task model.TaskType) (tea.Model, tea.Cmd) {
	var r runner
	switch task {
	case model.TaskTapping:
		r = newTappingRunner(m.cfg.TappingSeconds)
	case model.TaskStroop:
		r = newStroopRunner(m.cfg.StroopTrials, m.rnd)
	case model.TaskReaction:
		r = newReactionRunner(m.cfg.ReactionRounds, m.rnd)
	case model.TaskHanoi:
		r = newHanoiRunner(m.cfg.HanoiDisks)
	case model.TaskSpatial:
		r = newSpatialRunner(m.cfg.SpatialLength, m.rnd)
	case model.TaskDecision:
		r = newDecisionRunner()
	default:
		return m, nil
	}
	m.activeTask = task
	m.active = r
	m.mode = modeTask
	m.errMsg = ""
	return m, tea.Batch(tea.ClearScreen, r.init())
}

func (m *Model) finishTask() {
	metrics := m.active.metrics()
	m.active = nil
	m.mode = modeResult
	perf, stats, err := progress.RecordSession(context.Background(), m.store, metrics, time.Now())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
		logErrf("failed to save session: %v\n", err)
		return
	}
	m.result = perf
	m.stats = stats
	m.hasStats = true
	m.refreshChallenge()
}

func (m *Model) loadProgress() {
	ctx := context.Background()
	stats, found, err := m.store.GetStats(ctx)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load stats: %v", err)
		logErrf("failed to load stats: %v\n", err)
		return
	}
	if found {
		m.stats = stats
		m.hasStats = true
	}
	ch, err := progress.EnsureTodaysChallenge(ctx, m.store, m.rnd, time.Now())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load daily challenge: %v", err)
		logErrf("failed to load daily challenge: %v\n", err)
		return
	}
	m.challenge = &ch
}

func (m *Model) refreshChallenge() {
	day := time.Now().Local().Format(progress.DayFormat)
	ch, found, err := m.store.GetChallenge(context.Background(), day)
	if err != nil {
		logErrf("failed to reload daily challenge: %v\n", err)
		return
	}
	if found {
		m.challenge = &ch
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.mode {
	case modeTask:
		if m.active != nil {
			content = m.active.view()
		}
	case modeResult:
		content = m.viewResult()
	default:
		content = m.viewPicker()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewPicker() string {
	lines := []string{titleStyle.Render("Mind Gym"), ""}
	for i, task := range playableTasks {
		label := task.Name()
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+label))
		} else {
			lines = append(lines, itemStyle.Render("  "+label))
		}
	}
	lines = append(lines, "", m.renderProgressLine(), m.renderChallengeLine())
	lines = append(lines,
		dimStyle.Render("Sound Discrimination has no terminal runner; use `mindgym log`."),
		"",
		footerStyle.Render("up/down: select  enter: start  q: quit"))
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderProgressLine() string {
	if !m.hasStats {
		return dimStyle.Render("No sessions yet. Pick a task to get started.")
	}
	return dimStyle.Render(fmt.Sprintf("Streak %d day(s) · %d session(s) · total score %d",
		m.stats.Streak, m.stats.TasksCompleted, m.stats.TotalScore))
}

func (m *Model) renderChallengeLine() string {
	if m.challenge == nil {
		return ""
	}
	if m.challenge.Completed {
		return doneStyle.Render("Daily challenge complete!")
	}
	parts := make([]string, 0, len(m.challenge.Tasks))
	for _, task := range m.challenge.Tasks {
		mark := "·"
		if m.challenge.TaskDone(task) {
			mark = "✓"
		}
		parts = append(parts, fmt.Sprintf("%s %s", mark, task.Name()))
	}
	return dimStyle.Render("Daily challenge: " + strings.Join(parts, "  "))
}

func (m *Model) viewResult() string {
	if m.errMsg != "" {
		return strings.Join([]string{
			errorStyle.Render(m.errMsg),
			"",
			footerStyle.Render("enter: back"),
		}, "\n")
	}
	lines := []string{
		titleStyle.Render(m.result.Task.Name()),
		"",
		"Score: " + valueStyle.Render(fmt.Sprintf("%d / 100", m.result.Score)),
		dimStyle.Render(fmt.Sprintf("Streak %d day(s) · %d session(s) total", m.stats.Streak, m.stats.TasksCompleted)),
	}
	if line := m.renderChallengeLine(); line != "" {
		lines = append(lines, line)
	}
	lines = append(lines, "", footerStyle.Render("enter: back"))
	return strings.Join(lines, "\n")
}
