package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mindgym-app/mindgym/internal/model"
)

type stroopColor struct {
	name  string
	key   string
	style lipgloss.Style
}

var stroopColors = []stroopColor{
	{name: "RED", key: "r", style: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)},
	{name: "GREEN", key: "g", style: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)},
	{name: "BLUE", key: "b", style: lipgloss.NewStyle().Foreground(lipgloss.Color("#40A9FF")).Bold(true)},
	{name: "YELLOW", key: "y", style: lipgloss.NewStyle().Foreground(lipgloss.Color("#FADB14")).Bold(true)},
}

// stroopRunner shows color words printed in a random ink. The player answers
// with the INK color, not the word.
type stroopRunner struct {
	trials      int
	rnd         *rand.Rand
	index       int
	word        stroopColor
	ink         stroopColor
	shownAt     time.Time
	correct     int
	incorrect   int
	reactionSum float64
	finished    bool
}

func newStroopRunner(trials int, rnd *rand.Rand) *stroopRunner {
	if trials <= 0 {
		trials = 20
	}
	r := &stroopRunner{trials: trials, rnd: rnd}
	r.nextTrial()
	return r
}

func (r *stroopRunner) nextTrial() {
	r.word = stroopColors[r.rnd.Intn(len(stroopColors))]
	r.ink = stroopColors[r.rnd.Intn(len(stroopColors))]
	r.shownAt = time.Now()
}

func (r *stroopRunner) init() tea.Cmd {
	// The first trial clock starts when the runner is built; trials are
	// self-paced after that.
	r.shownAt = time.Now()
	return nil
}

func (r *stroopRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || r.finished {
		return r, nil
	}
	pressed := key.String()
	var answer *stroopColor
	for i := range stroopColors {
		if stroopColors[i].key == pressed {
			answer = &stroopColors[i]
			break
		}
	}
	if answer == nil {
		return r, nil
	}

	r.reactionSum += float64(time.Since(r.shownAt).Milliseconds())
	if answer.name == r.ink.name {
		r.correct++
	} else {
		r.incorrect++
	}
	r.index++
	if r.index >= r.trials {
		r.finished = true
		return r, nil
	}
	r.nextTrial()
	return r, nil
}

func (r *stroopRunner) view() string {
	lines := []string{
		titleStyle.Render("Stroop Test"),
		"",
		dimStyle.Render("Press the key for the INK color, not the word."),
		"",
		r.ink.style.Render(r.word.name),
		"",
		dimStyle.Render(fmt.Sprintf("Trial %d of %d · %d correct", r.index+1, r.trials, r.correct)),
		"",
		footerStyle.Render("r: red  g: green  b: blue  y: yellow  esc: abandon"),
	}
	return strings.Join(lines, "\n")
}

func (r *stroopRunner) done() bool {
	return r.finished
}

func (r *stroopRunner) metrics() model.TaskMetrics {
	answered := r.correct + r.incorrect
	avg := 0.0
	if answered > 0 {
		avg = r.reactionSum / float64(answered)
	}
	return model.StroopMetrics{
		Correct:       r.correct,
		Incorrect:     r.incorrect,
		AvgReactionMs: avg,
	}
}
