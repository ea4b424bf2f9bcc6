// Package decision implements the two-door probabilistic reward schedule.
package decision

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mindgym-app/mindgym/internal/model"
)

// Schedule constants.
const (
	TotalTrials     = 50
	CheckpointTrial = 40
	HighReward      = 10
	LowReward       = 2

	// Chance that any reward occurs at all during the frustration phase.
	frustrationGate = 0.1
)

// Phase is a contiguous trial range with fixed door probabilities of the
// high reward.
type Phase struct {
	Name  string
	First int
	Last  int
	Left  float64
	Right float64
}

// Phases is the fixed 50-trial schedule.
var Phases = []Phase{
	{Name: "Initial Learning", First: 1, Last: 7, Left: 0.8, Right: 0.2},
	{Name: "Probability Reversal", First: 8, Last: 30, Left: 0.3, Right: 0.7},
	{Name: "Frustration Period", First: 31, Last: 40, Left: 0.1, Right: 0.1},
	{Name: "Recovery", First: 41, Last: 50, Left: 0.6, Right: 0.4},
}

// PhaseFor returns the phase containing the given trial number.
func PhaseFor(trial int) Phase {
	for _, p := range Phases {
		if trial >= p.First && trial <= p.Last {
			return p
		}
	}
	return Phases[len(Phases)-1]
}

func (p Phase) frustration() bool {
	return p.First == 31
}

// Game runs one 50-trial decision session. After trial 40 the game pauses
// at a checkpoint until the player chooses to continue or stop.
type Game struct {
	rnd     *rand.Rand
	trials  []model.DecisionTrial
	resumed bool
	stopped bool
}

// New returns a Game seeded with the current time.
func New() *Game {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Game drawing randomness from the given source.
func NewWithSource(src rand.Source) *Game {
	return &Game{rnd: rand.New(src)}
}

// Trial returns the upcoming trial number (1-based).
func (g *Game) Trial() int {
	return len(g.trials) + 1
}

// Done reports whether the session is over, either by finishing all trials
// or by stopping at the checkpoint.
func (g *Game) Done() bool {
	return g.stopped || len(g.trials) >= TotalTrials
}

// AtCheckpoint reports whether the game is paused at the trial-40
// continue/stop decision.
func (g *Game) AtCheckpoint() bool {
	return len(g.trials) == CheckpointTrial && !g.resumed && !g.stopped
}

// Continue resumes play past the checkpoint.
func (g *Game) Continue() {
	if g.AtCheckpoint() {
		g.resumed = true
	}
}

// Stop ends the session at the checkpoint with the trials recorded so far.
func (g *Game) Stop() {
	if g.AtCheckpoint() {
		g.stopped = true
	}
}

// Choose plays one trial with the given door and resolves its reward.
func (g *Game) Choose(door model.Door) (model.DecisionTrial, error) {
	if g.Done() {
		return model.DecisionTrial{}, fmt.Errorf("session is over")
	}
	if g.AtCheckpoint() {
		return model.DecisionTrial{}, fmt.Errorf("awaiting checkpoint decision")
	}
	if door != model.DoorLeft && door != model.DoorRight {
		return model.DecisionTrial{}, fmt.Errorf("unknown door %q", door)
	}

	n := g.Trial()
	phase := PhaseFor(n)
	p := phase.Left
	if door == model.DoorRight {
		p = phase.Right
	}

	trial := model.DecisionTrial{Trial: n, Door: door}
	if phase.frustration() {
		// A gate draw decides whether any reward occurs, then an independent
		// second draw against the phase probability picks the tier. The
		// effective high-reward chance here is 0.01, not 0.1; the nested
		// draw is intentional.
		if g.rnd.Float64() < frustrationGate {
			trial.Reward, trial.Tier = g.drawTier(p)
		} else {
			trial.Tier = model.RewardNone
		}
	} else {
		trial.Reward, trial.Tier = g.drawTier(p)
	}

	g.trials = append(g.trials, trial)
	return trial, nil
}

func (g *Game) drawTier(p float64) (int, model.RewardTier) {
	if g.rnd.Float64() < p {
		return HighReward, model.RewardHigh
	}
	return LowReward, model.RewardLow
}

// Trials returns the recorded trial log.
func (g *Game) Trials() []model.DecisionTrial {
	out := make([]model.DecisionTrial, len(g.trials))
	copy(out, g.trials)
	return out
}

// Metrics derives the session's decision metrics from the trial log.
func (g *Game) Metrics() model.DecisionMetrics {
	return Derive(g.trials)
}

// Derive computes the metrics bundle for a completed trial log.
func Derive(trials []model.DecisionTrial) model.DecisionMetrics {
	m := model.DecisionMetrics{
		AdaptationRate: AdaptationRate(trials),
		RiskTaking:     RiskTaking(trials),
		Learning:       Learning(trials),
	}
	m.Trials = make([]model.DecisionTrial, len(trials))
	copy(m.Trials, trials)
	for _, t := range trials {
		m.TotalReward += t.Reward
		if t.Door == model.DoorLeft {
			m.LeftChoices++
		} else {
			m.RightChoices++
		}
	}
	return m
}
