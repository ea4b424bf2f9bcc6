package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindgym-app/mindgym/internal/model"
)

const tappingTickInterval = 100 * time.Millisecond

type tappingTickMsg time.Time

// tappingRunner counts space presses inside a fixed window. The clock starts
// on the first tap.
type tappingRunner struct {
	duration  time.Duration
	bar       progress.Model
	started   bool
	startedAt time.Time
	elapsed   time.Duration
	taps      int
	finished  bool
}

func newTappingRunner(seconds int) *tappingRunner {
	if seconds <= 0 {
		seconds = 10
	}
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return &tappingRunner{
		duration: time.Duration(seconds) * time.Second,
		bar:      bar,
	}
}

func (r *tappingRunner) init() tea.Cmd {
	return nil
}

func (r *tappingRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	switch msg := msg.(type) {
	case tappingTickMsg:
		if !r.started || r.finished {
			return r, nil
		}
		r.elapsed = time.Since(r.startedAt)
		if r.elapsed >= r.duration {
			r.elapsed = r.duration
			r.finished = true
			return r, nil
		}
		return r, tappingTick()
	case tea.KeyMsg:
		if msg.Type != tea.KeySpace || r.finished {
			return r, nil
		}
		r.taps++
		if !r.started {
			r.started = true
			r.startedAt = time.Now()
			return r, tappingTick()
		}
		return r, nil
	}
	return r, nil
}

func tappingTick() tea.Cmd {
	return tea.Tick(tappingTickInterval, func(t time.Time) tea.Msg {
		return tappingTickMsg(t)
	})
}

func (r *tappingRunner) view() string {
	lines := []string{titleStyle.Render("Tapping Speed"), ""}
	if !r.started {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Press space as fast as you can for %d seconds.", int(r.duration.Seconds()))))
		lines = append(lines, dimStyle.Render("The first tap starts the clock."))
	} else {
		remaining := r.duration - r.elapsed
		if remaining < 0 {
			remaining = 0
		}
		lines = append(lines,
			"Taps: "+valueStyle.Render(fmt.Sprintf("%d", r.taps)),
			r.bar.ViewAs(float64(r.elapsed)/float64(r.duration)),
			dimStyle.Render(fmt.Sprintf("%.1fs left", remaining.Seconds())))
	}
	lines = append(lines, "", footerStyle.Render("space: tap  esc: abandon"))
	return strings.Join(lines, "\n")
}

func (r *tappingRunner) done() bool {
	return r.finished
}

func (r *tappingRunner) metrics() model.TaskMetrics {
	return model.TappingMetrics{
		Taps:       r.taps,
		DurationMs: r.duration.Milliseconds(),
	}
}
