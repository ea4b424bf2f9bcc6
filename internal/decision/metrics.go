package decision

import (
	"math"

	"github.com/mindgym-app/mindgym/internal/model"
)

// adaptationWindow is the number of trials compared on each side of a phase
// transition.
const adaptationWindow = 3

// transitionTrials are the first trials of each phase after the initial one.
var transitionTrials = []int{8, 31, 41}

// AdaptationRate measures how strongly door preference shifts across phase
// transitions: for each transition, the absolute difference between the
// left-choice fraction in the 3 trials before and the 3 trials after,
// averaged. Transitions without 3 full trials on both sides are skipped.
func AdaptationRate(trials []model.DecisionTrial) float64 {
	sum := 0.0
	count := 0
	for _, t := range transitionTrials {
		before, okBefore := leftFraction(trials, t-adaptationWindow, t-1)
		after, okAfter := leftFraction(trials, t, t+adaptationWindow-1)
		if !okBefore || !okAfter {
			continue
		}
		sum += math.Abs(after - before)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// RiskTaking is the left-choice fraction during the frustration trials
// (31-40), where both doors are equally poor. Defaults to 0.5 when no such
// trials were recorded.
func RiskTaking(trials []model.DecisionTrial) float64 {
	left := 0
	total := 0
	for _, t := range trials {
		if t.Trial < 31 || t.Trial > 40 {
			continue
		}
		total++
		if t.Door == model.DoorLeft {
			left++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(left) / float64(total)
}

// Learning compares the mean reward of the last 10 trials to the first 10,
// normalized by the high reward and floored at 0. Shorter logs shrink both
// windows to the available length.
func Learning(trials []model.DecisionTrial) float64 {
	if len(trials) == 0 {
		return 0
	}
	window := 10
	if len(trials) < window {
		window = len(trials)
	}
	first := meanReward(trials[:window])
	last := meanReward(trials[len(trials)-window:])
	return math.Max(0, (last-first)/HighReward)
}

// leftFraction computes the left-choice fraction among trials numbered
// from..to inclusive, reporting false unless the full window is present.
func leftFraction(trials []model.DecisionTrial, from, to int) (float64, bool) {
	if from < 1 {
		return 0, false
	}
	left := 0
	total := 0
	for _, t := range trials {
		if t.Trial < from || t.Trial > to {
			continue
		}
		total++
		if t.Door == model.DoorLeft {
			left++
		}
	}
	if total < to-from+1 {
		return 0, false
	}
	return float64(left) / float64(total), true
}

func meanReward(trials []model.DecisionTrial) float64 {
	if len(trials) == 0 {
		return 0
	}
	sum := 0
	for _, t := range trials {
		sum += t.Reward
	}
	return float64(sum) / float64(len(trials))
}
