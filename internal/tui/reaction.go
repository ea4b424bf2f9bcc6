package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindgym-app/mindgym/internal/model"
)

type reactionGoMsg struct {
	round int
	arm   int
}

// reactionRunner plays a fixed number of rounds. Each round waits a random
// delay, flips to GO, and measures the time until the next space press.
// Pressing during the wait is a false start and re-arms the same round.
type reactionRunner struct {
	rounds     int
	rnd        *rand.Rand
	round      int
	arm        int // bumped on every re-arm so stale go messages are dropped
	waiting    bool
	showGo     bool
	goAt       time.Time
	times      []float64
	falseStart bool
	finished   bool
}

func newReactionRunner(rounds int, rnd *rand.Rand) *reactionRunner {
	if rounds <= 0 {
		rounds = 5
	}
	return &reactionRunner{rounds: rounds, rnd: rnd, round: 1}
}

func (r *reactionRunner) init() tea.Cmd {
	return r.armRound()
}

func (r *reactionRunner) armRound() tea.Cmd {
	r.waiting = true
	r.showGo = false
	r.arm++
	delay := time.Duration(1500+r.rnd.Intn(2500)) * time.Millisecond
	round, arm := r.round, r.arm
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return reactionGoMsg{round: round, arm: arm}
	})
}

func (r *reactionRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	switch msg := msg.(type) {
	case reactionGoMsg:
		if msg.round != r.round || msg.arm != r.arm || !r.waiting {
			return r, nil
		}
		r.waiting = false
		r.showGo = true
		r.goAt = time.Now()
		return r, nil
	case tea.KeyMsg:
		if msg.Type != tea.KeySpace || r.finished {
			return r, nil
		}
		if r.showGo {
			r.times = append(r.times, float64(time.Since(r.goAt).Milliseconds()))
			r.showGo = false
			r.falseStart = false
			r.round++
			if r.round > r.rounds {
				r.finished = true
				return r, nil
			}
			return r, r.armRound()
		}
		if r.waiting {
			r.falseStart = true
			return r, r.armRound()
		}
		return r, nil
	}
	return r, nil
}

func (r *reactionRunner) view() string {
	lines := []string{titleStyle.Render("Reaction Time"), ""}
	switch {
	case r.showGo:
		lines = append(lines, goStyle.Render("GO! Press space!"))
	case r.waiting:
		lines = append(lines, waitStyle.Render("Wait for it..."))
	}
	if r.falseStart {
		lines = append(lines, errorStyle.Render("Too soon! Wait for GO."))
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("Round %d of %d", minInt(r.round, r.rounds), r.rounds)))
	if len(r.times) > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Last: %.0f ms", r.times[len(r.times)-1])))
	}
	lines = append(lines, "", footerStyle.Render("space: react  esc: abandon"))
	return strings.Join(lines, "\n")
}

func (r *reactionRunner) done() bool {
	return r.finished
}

func (r *reactionRunner) metrics() model.TaskMetrics {
	var sum float64
	for _, t := range r.times {
		sum += t
	}
	avg := 0.0
	if len(r.times) > 0 {
		avg = sum / float64(len(r.times))
	}
	return model.ReactionMetrics{AvgReactionMs: avg}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
