package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindgym-app/mindgym/internal/decision"
	"github.com/mindgym-app/mindgym/internal/model"
)

// decisionRunner drives the two-door reward game. Rewards follow a hidden
// schedule that shifts between phases; the player only sees outcomes.
type decisionRunner struct {
	game *decision.Game
	last *model.DecisionTrial
}

func newDecisionRunner() *decisionRunner {
	return &decisionRunner{game: decision.New()}
}

func (r *decisionRunner) init() tea.Cmd {
	return nil
}

func (r *decisionRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || r.game.Done() {
		return r, nil
	}
	if r.game.AtCheckpoint() {
		switch key.String() {
		case "c", "enter":
			r.game.Continue()
		case "s":
			r.game.Stop()
		}
		return r, nil
	}
	var door model.Door
	switch key.String() {
	case "left", "h":
		door = model.DoorLeft
	case "right", "l":
		door = model.DoorRight
	default:
		return r, nil
	}
	trial, err := r.game.Choose(door)
	if err != nil {
		return r, nil
	}
	r.last = &trial
	return r, nil
}

func (r *decisionRunner) view() string {
	lines := []string{
		titleStyle.Render("Decision Task"),
		"",
		dimStyle.Render("Two doors hide rewards. Pick one each trial and learn as you go."),
		"",
		itemStyle.Render("  [ LEFT ]    [ RIGHT ]"),
		"",
	}
	if r.last != nil {
		switch r.last.Tier {
		case model.RewardHigh:
			lines = append(lines, goStyle.Render(fmt.Sprintf("+%d! Jackpot.", r.last.Reward)))
		case model.RewardLow:
			lines = append(lines, itemStyle.Render(fmt.Sprintf("+%d.", r.last.Reward)))
		default:
			lines = append(lines, waitStyle.Render("Nothing this time."))
		}
	}
	m := r.game.Metrics()
	trialNo := r.game.Trial()
	if trialNo > decision.TotalTrials {
		trialNo = decision.TotalTrials
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("Trial %d of %d · total reward %d", trialNo, decision.TotalTrials, m.TotalReward)))
	if r.game.AtCheckpoint() {
		lines = append(lines, "", valueStyle.Render("Checkpoint: keep going?"), footerStyle.Render("c: continue  s: stop here"))
	} else {
		lines = append(lines, "", footerStyle.Render("left/right: choose a door  esc: abandon"))
	}
	return strings.Join(lines, "\n")
}

func (r *decisionRunner) done() bool {
	return r.game.Done()
}

func (r *decisionRunner) metrics() model.TaskMetrics {
	return r.game.Metrics()
}
