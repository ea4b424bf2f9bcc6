package decision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mindgym-app/mindgym/internal/model"
)

func playFull(t *testing.T, game *Game, pick func(trial int) model.Door) []model.DecisionTrial {
	t.Helper()
	for !game.Done() {
		if game.AtCheckpoint() {
			game.Continue()
			continue
		}
		if _, err := game.Choose(pick(game.Trial())); err != nil {
			t.Fatalf("trial %d: %v", game.Trial(), err)
		}
	}
	return game.Trials()
}

func TestPhaseBoundaries(t *testing.T) {
	cases := []struct {
		trial int
		name  string
		left  float64
	}{
		{1, "Initial Learning", 0.8},
		{7, "Initial Learning", 0.8},
		{8, "Probability Reversal", 0.3},
		{30, "Probability Reversal", 0.3},
		{31, "Frustration Period", 0.1},
		{40, "Frustration Period", 0.1},
		{41, "Recovery", 0.6},
		{50, "Recovery", 0.6},
	}
	for _, tc := range cases {
		p := PhaseFor(tc.trial)
		if p.Name != tc.name || p.Left != tc.left {
			t.Errorf("trial %d: got %s/%.1f, want %s/%.1f", tc.trial, p.Name, p.Left, tc.name, tc.left)
		}
	}
}

func TestGameRunsFiftyTrials(t *testing.T) {
	game := NewWithSource(rand.NewSource(1))
	trials := playFull(t, game, func(int) model.Door { return model.DoorLeft })
	if len(trials) != TotalTrials {
		t.Fatalf("got %d trials, want %d", len(trials), TotalTrials)
	}
	for i, tr := range trials {
		if tr.Trial != i+1 {
			t.Fatalf("trial %d numbered %d", i+1, tr.Trial)
		}
		if tr.Tier == model.RewardNone && (tr.Trial < 31 || tr.Trial > 40) {
			t.Fatalf("trial %d: no-reward outcome outside the frustration phase", tr.Trial)
		}
	}
}

func TestCheckpointPausesAtFortyTrials(t *testing.T) {
	game := NewWithSource(rand.NewSource(2))
	for i := 0; i < CheckpointTrial; i++ {
		if _, err := game.Choose(model.DoorRight); err != nil {
			t.Fatalf("trial %d: %v", i+1, err)
		}
	}
	if !game.AtCheckpoint() {
		t.Fatal("expected checkpoint after trial 40")
	}
	if _, err := game.Choose(model.DoorRight); err == nil {
		t.Fatal("expected error choosing while paused at checkpoint")
	}
	game.Continue()
	if game.AtCheckpoint() {
		t.Fatal("checkpoint should clear after Continue")
	}
	if _, err := game.Choose(model.DoorRight); err != nil {
		t.Fatalf("trial 41: %v", err)
	}
}

func TestStopEndsSessionAtCheckpoint(t *testing.T) {
	game := NewWithSource(rand.NewSource(3))
	for i := 0; i < CheckpointTrial; i++ {
		if _, err := game.Choose(model.DoorLeft); err != nil {
			t.Fatalf("trial %d: %v", i+1, err)
		}
	}
	game.Stop()
	if !game.Done() {
		t.Fatal("expected Done after Stop")
	}
	if got := len(game.Trials()); got != CheckpointTrial {
		t.Fatalf("got %d trials, want %d", got, CheckpointTrial)
	}
	if _, err := game.Choose(model.DoorLeft); err == nil {
		t.Fatal("expected error choosing after Stop")
	}
}

func TestFrustrationRewardsAreGated(t *testing.T) {
	// With the 0.1 gate and the nested 0.1 tier draw, a large sample of
	// frustration trials must be mostly rewardless and almost never high.
	none, high := 0, 0
	samples := 0
	for seed := int64(0); seed < 40; seed++ {
		game := NewWithSource(rand.NewSource(seed))
		trials := playFull(t, game, func(int) model.Door { return model.DoorLeft })
		for _, tr := range trials {
			if tr.Trial < 31 || tr.Trial > 40 {
				continue
			}
			samples++
			switch tr.Tier {
			case model.RewardNone:
				none++
				if tr.Reward != 0 {
					t.Fatalf("no-reward trial carries reward %d", tr.Reward)
				}
			case model.RewardHigh:
				high++
			}
		}
	}
	if samples != 400 {
		t.Fatalf("expected 400 frustration trials, got %d", samples)
	}
	if none < samples*3/4 {
		t.Errorf("expected most frustration trials rewardless, got %d/%d", none, samples)
	}
	if high > samples/10 {
		t.Errorf("high rewards should be rare under the nested draw, got %d/%d", high, samples)
	}
}

func TestDerivedMetricsWithinBounds(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		game := NewWithSource(rand.NewSource(seed))
		trials := playFull(t, game, func(trial int) model.Door {
			if trial%3 == 0 {
				return model.DoorRight
			}
			return model.DoorLeft
		})
		m := Derive(trials)
		for name, v := range map[string]float64{
			"adaptationRate": m.AdaptationRate,
			"riskTaking":     m.RiskTaking,
			"learning":       m.Learning,
		} {
			if v < 0 || v > 1 {
				t.Errorf("seed %d: %s = %f out of [0,1]", seed, name, v)
			}
		}
		if m.LeftChoices+m.RightChoices != len(trials) {
			t.Errorf("seed %d: door counts do not sum to trial count", seed)
		}
	}
}

func TestAdaptationRate(t *testing.T) {
	// All-left before each transition, all-right after: every transition
	// contributes |0-1| = 1.
	var trials []model.DecisionTrial
	for n := 1; n <= 50; n++ {
		door := model.DoorLeft
		switch {
		case n >= 8 && n <= 10, n >= 31 && n <= 33, n >= 41 && n <= 43:
			door = model.DoorRight
		}
		trials = append(trials, model.DecisionTrial{Trial: n, Door: door})
	}
	if got := AdaptationRate(trials); got != 1 {
		t.Fatalf("got %f, want 1", got)
	}
	// Constant behavior adapts not at all.
	for i := range trials {
		trials[i].Door = model.DoorLeft
	}
	if got := AdaptationRate(trials); got != 0 {
		t.Fatalf("got %f, want 0", got)
	}
}

func TestAdaptationRateSkipsShortWindows(t *testing.T) {
	// Only 9 trials: transition 8 lacks the three after-trials (8-10 needs
	// trial 10), transitions 31/41 lack everything. Nothing to average.
	var trials []model.DecisionTrial
	for n := 1; n <= 9; n++ {
		trials = append(trials, model.DecisionTrial{Trial: n, Door: model.DoorLeft})
	}
	if got := AdaptationRate(trials); got != 0 {
		t.Fatalf("got %f, want 0", got)
	}
	// One more trial makes the first transition measurable.
	trials = append(trials, model.DecisionTrial{Trial: 10, Door: model.DoorRight})
	want := 1.0 / 3.0
	if got := AdaptationRate(trials); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %f, want %f", got, want)
	}
}

func TestRiskTaking(t *testing.T) {
	var trials []model.DecisionTrial
	for n := 1; n <= 30; n++ {
		trials = append(trials, model.DecisionTrial{Trial: n, Door: model.DoorLeft})
	}
	// No frustration trials recorded: neutral default.
	if got := RiskTaking(trials); got != 0.5 {
		t.Fatalf("got %f, want 0.5", got)
	}
	for n := 31; n <= 40; n++ {
		door := model.DoorRight
		if n <= 34 {
			door = model.DoorLeft
		}
		trials = append(trials, model.DecisionTrial{Trial: n, Door: door})
	}
	if got := RiskTaking(trials); got != 0.4 {
		t.Fatalf("got %f, want 0.4", got)
	}
}

func TestLearning(t *testing.T) {
	var trials []model.DecisionTrial
	for n := 1; n <= 50; n++ {
		reward := LowReward
		if n > 40 {
			reward = HighReward
		}
		trials = append(trials, model.DecisionTrial{Trial: n, Door: model.DoorLeft, Reward: reward})
	}
	// First 10 average 2, last 10 average 10: (10-2)/10 = 0.8.
	if got := Learning(trials); got != 0.8 {
		t.Fatalf("got %f, want 0.8", got)
	}
	// Declining rewards floor at 0.
	for i := range trials {
		trials[i].Reward = 0
		if trials[i].Trial <= 10 {
			trials[i].Reward = HighReward
		}
	}
	if got := Learning(trials); got != 0 {
		t.Fatalf("got %f, want 0", got)
	}
	if got := Learning(nil); got != 0 {
		t.Fatalf("empty log: got %f, want 0", got)
	}
}
