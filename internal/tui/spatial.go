package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindgym-app/mindgym/internal/model"
)

const (
	spatialGridCells = 9
	spatialMaxRounds = 5
	spatialMaxMisses = 2
	spatialShowPace  = 600 * time.Millisecond
)

type spatialShowMsg struct {
	round int
	step  int
}

// spatialRunner flashes a sequence of grid cells and asks the player to
// repeat it. Each successful round grows the sequence by one. A wrong cell
// restarts the round with a fresh sequence; the second miss ends the
// session.
type spatialRunner struct {
	rnd      *rand.Rand
	length   int
	round    int
	sequence []int
	showing  bool
	showStep int // -1 before the first flash
	inputPos int
	correct  int
	attempts int
	best     int
	misses   int
	finished bool
}

func newSpatialRunner(startLength int, rnd *rand.Rand) *spatialRunner {
	if startLength <= 0 {
		startLength = 4
	}
	r := &spatialRunner{rnd: rnd, length: startLength, round: 1}
	r.newSequence()
	return r
}

func (r *spatialRunner) newSequence() {
	r.sequence = make([]int, r.length)
	prev := -1
	for i := range r.sequence {
		cell := r.rnd.Intn(spatialGridCells)
		for cell == prev {
			cell = r.rnd.Intn(spatialGridCells)
		}
		r.sequence[i] = cell
		prev = cell
	}
	r.showing = true
	r.showStep = -1
	r.inputPos = 0
}

func (r *spatialRunner) init() tea.Cmd {
	return r.showTick()
}

func (r *spatialRunner) showTick() tea.Cmd {
	round, step := r.round, r.showStep+1
	return tea.Tick(spatialShowPace, func(time.Time) tea.Msg {
		return spatialShowMsg{round: round, step: step}
	})
}

func (r *spatialRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	switch msg := msg.(type) {
	case spatialShowMsg:
		if msg.round != r.round || !r.showing || msg.step != r.showStep+1 {
			return r, nil
		}
		r.showStep = msg.step
		if r.showStep >= len(r.sequence) {
			r.showing = false
			return r, nil
		}
		return r, r.showTick()
	case tea.KeyMsg:
		if r.showing || r.finished {
			return r, nil
		}
		key := msg.String()
		if len(key) != 1 || key[0] < '1' || key[0] > '9' {
			return r, nil
		}
		r.pressCell(int(key[0] - '1'))
		if !r.finished && r.showing {
			return r, r.showTick()
		}
		return r, nil
	}
	return r, nil
}

func (r *spatialRunner) pressCell(cell int) {
	r.attempts++
	if cell != r.sequence[r.inputPos] {
		r.misses++
		if r.misses >= spatialMaxMisses {
			r.finished = true
			return
		}
		r.newSequence()
		return
	}
	r.correct++
	r.inputPos++
	if r.inputPos < len(r.sequence) {
		return
	}
	// Full sequence reproduced.
	r.best = r.length
	r.round++
	if r.round > spatialMaxRounds {
		r.finished = true
		return
	}
	r.length++
	r.newSequence()
}

func (r *spatialRunner) view() string {
	lines := []string{titleStyle.Render("Spatial Memory"), ""}
	if r.showing {
		lines = append(lines, dimStyle.Render("Watch the sequence..."))
	} else {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Repeat the sequence (%d of %d).", r.inputPos+1, len(r.sequence))))
	}
	lines = append(lines, "")
	lines = append(lines, r.renderGrid()...)
	status := fmt.Sprintf("Round %d of %d · length %d", minInt(r.round, spatialMaxRounds), spatialMaxRounds, len(r.sequence))
	if r.misses > 0 {
		status += fmt.Sprintf(" · %d miss", r.misses)
	}
	lines = append(lines, "", dimStyle.Render(status))
	lines = append(lines, "", footerStyle.Render("1-9: cells  esc: abandon"))
	return strings.Join(lines, "\n")
}

func (r *spatialRunner) renderGrid() []string {
	lit := -1
	if r.showing && r.showStep >= 0 && r.showStep < len(r.sequence) {
		lit = r.sequence[r.showStep]
	}
	rows := make([]string, 0, 3)
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			label := fmt.Sprintf("[%d]", idx+1)
			if idx == lit {
				cells[col] = cellLitStyle.Render("[■]")
			} else {
				cells[col] = cellStyle.Render(label)
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

func (r *spatialRunner) done() bool {
	return r.finished
}

func (r *spatialRunner) metrics() model.TaskMetrics {
	return model.SpatialMetrics{
		CorrectMatches: r.correct,
		TotalAttempts:  r.attempts,
		SequenceLength: r.best,
	}
}
