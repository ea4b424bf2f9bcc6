// Package scoring maps raw task metrics to 0-100 scores.
package scoring

import (
	"math"

	"github.com/mindgym-app/mindgym/internal/model"
)

// Score computes the 0-100 score for a completed session. A zero value in
// any required metric field yields 0, meaning "insufficient data", never an
// error.
func Score(m model.TaskMetrics) int {
	switch v := m.(type) {
	case model.TappingMetrics:
		return tappingScore(v)
	case model.StroopMetrics:
		return stroopScore(v)
	case model.ReactionMetrics:
		return reactionScore(v)
	case model.HanoiMetrics:
		return hanoiScore(v)
	case model.SpatialMetrics:
		return spatialScore(v)
	case model.DecisionMetrics:
		return decisionScore(v)
	case model.SoundMetrics:
		return soundScore(v)
	default:
		return 0
	}
}

// Overall returns the arithmetic mean of all nonzero scores, rounded.
// Zero entries mean "never attempted" and are excluded; with no nonzero
// entries the overall score is 0.
func Overall(scores map[model.TaskType]int) int {
	sum := 0
	count := 0
	for _, s := range scores {
		if s == 0 {
			continue
		}
		sum += s
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// clamp rounds the raw score and caps it at 100. Formulas never go negative
// for valid inputs, so no lower clamp is applied.
func clamp(raw float64) int {
	score := int(math.Round(raw))
	if score > 100 {
		return 100
	}
	return score
}

// tappingScore maps tap rate (taps/second) to a score through a piecewise
// linear curve that is continuous at every breakpoint: 1, 3, 5, 7, and 9
// taps/sec land exactly on 20, 50, 70, 85, and 95.
func tappingScore(m model.TappingMetrics) int {
	if m.Taps == 0 || m.DurationMs == 0 {
		return 0
	}
	rate := float64(m.Taps) / (float64(m.DurationMs) / 1000)
	var raw float64
	switch {
	case rate >= 9:
		raw = 95 + math.Min(5, (rate-9)*2)
	case rate >= 7:
		raw = 85 + (rate-7)/2*10
	case rate >= 5:
		raw = 70 + (rate-5)/2*15
	case rate >= 3:
		raw = 50 + (rate-3)/2*20
	case rate >= 1:
		raw = 20 + (rate-1)/2*30
	default:
		raw = rate * 20
	}
	return clamp(raw)
}

func stroopScore(m model.StroopMetrics) int {
	if m.Correct == 0 || m.AvgReactionMs == 0 {
		return 0
	}
	accuracy := float64(m.Correct) / float64(m.Correct+m.Incorrect)
	speedBonus := math.Max(0, (2000-m.AvgReactionMs)/20)
	return clamp(accuracy*70 + speedBonus)
}

func reactionScore(m model.ReactionMetrics) int {
	if m.AvgReactionMs == 0 {
		return 0
	}
	return clamp(math.Max(0, (1000-m.AvgReactionMs)/10))
}

func hanoiScore(m model.HanoiMetrics) int {
	if m.MovesUsed == 0 || m.MinMoves == 0 || m.SolveTimeMs == 0 {
		return 0
	}
	efficiency := float64(m.MinMoves) / float64(m.MovesUsed)
	timeBonus := math.Max(0, (120000-float64(m.SolveTimeMs))/1200)
	return clamp(efficiency*60 + timeBonus)
}

func spatialScore(m model.SpatialMetrics) int {
	if m.CorrectMatches == 0 || m.TotalAttempts == 0 {
		return 0
	}
	accuracy := float64(m.CorrectMatches) / float64(m.TotalAttempts)
	lengthBonus := float64(m.SequenceLength) * 5
	return clamp(accuracy*70 + lengthBonus)
}

func decisionScore(m model.DecisionMetrics) int {
	if m.TotalReward == 0 {
		return 0
	}
	raw := math.Min(float64(m.TotalReward)/10, 40) +
		m.AdaptationRate*30 +
		m.RiskTaking*15 +
		m.Learning*15
	return clamp(raw)
}

func soundScore(m model.SoundMetrics) int {
	if m.Correct == 0 || m.AvgResponseMs == 0 {
		return 0
	}
	accuracy := float64(m.Correct) / float64(m.Correct+m.Incorrect)
	speedBonus := math.Max(0, (3000-m.AvgResponseMs)/30)
	return clamp(accuracy*80 + speedBonus)
}
