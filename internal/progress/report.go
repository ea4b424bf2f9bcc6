package progress

import (
	"context"
	"math"
	"time"

	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/scoring"
	"github.com/mindgym-app/mindgym/internal/store"
)

// Report contains precomputed data for dashboard rendering.
type Report struct {
	Performances []model.UserPerformance
	Stats        model.UserStats
	Overall      int // Brain & Body Score
	Challenge    *model.DailyChallenge
}

// BuildReport loads and prepares data for dashboard rendering. A missing
// stats row degrades to defaults; a missing challenge stays nil.
func BuildReport(ctx context.Context, st *store.Store, now time.Time) (Report, error) {
	performances, err := st.ListPerformances(ctx)
	if err != nil {
		return Report{}, err
	}
	stats, found, err := st.GetStats(ctx)
	if err != nil {
		return Report{}, err
	}
	if !found {
		stats = DefaultStats(now)
	}

	report := Report{
		Performances: performances,
		Stats:        stats,
		Overall:      OverallScore(stats),
	}

	day := now.Local().Format(DayFormat)
	ch, found, err := st.GetChallenge(ctx, day)
	if err != nil {
		return Report{}, err
	}
	if found {
		report.Challenge = &ch
	}
	return report, nil
}

// OverallScore computes the Brain & Body Score from the per-task averages:
// the mean of all nonzero rounded averages.
func OverallScore(stats model.UserStats) int {
	scores := make(map[model.TaskType]int, len(stats.Averages))
	for task, avg := range stats.Averages {
		scores[task] = int(math.Round(avg))
	}
	return scoring.Overall(scores)
}

// ScoreSeries returns the score history for one task in insertion order.
func ScoreSeries(performances []model.UserPerformance, task model.TaskType) []float64 {
	var out []float64
	for _, p := range performances {
		if p.Task != task {
			continue
		}
		out = append(out, float64(p.Score))
	}
	return out
}
