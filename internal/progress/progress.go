// Package progress maintains the running user stats, streaks, and daily
// challenges derived from the performance history.
package progress

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/scoring"
	"github.com/mindgym-app/mindgym/internal/store"
)

// DayFormat is the local calendar-day key used for streaks and challenges.
const DayFormat = "2006-01-02"

// challengeSize is the number of tasks in a daily challenge.
const challengeSize = 3

// DefaultStats returns the all-zero stats used before any session exists,
// with one average entry per task.
func DefaultStats(now time.Time) model.UserStats {
	averages := make(map[model.TaskType]float64, len(model.AllTasks))
	for _, t := range model.AllTasks {
		averages[t] = 0
	}
	return model.UserStats{
		Averages:     averages,
		LastActivity: now,
	}
}

// RecordSession scores a completed session, appends it to history, updates
// the running stats, and marks today's challenge when applicable. It
// returns the stored performance and the updated stats.
func RecordSession(ctx context.Context, st *store.Store, metrics model.TaskMetrics, now time.Time) (model.UserPerformance, model.UserStats, error) {
	if metrics == nil {
		return model.UserPerformance{}, model.UserStats{}, fmt.Errorf("metrics are nil")
	}
	perf := model.UserPerformance{
		ID:          uuid.NewString(),
		Task:        metrics.Task(),
		Score:       scoring.Score(metrics),
		CompletedAt: now,
		Metrics:     metrics,
	}
	if err := st.AppendPerformance(ctx, perf); err != nil {
		return model.UserPerformance{}, model.UserStats{}, err
	}
	stats, err := updateStats(ctx, st, perf, now)
	if err != nil {
		return model.UserPerformance{}, model.UserStats{}, err
	}
	if err := markChallengeTask(ctx, st, perf.Task, now); err != nil {
		return model.UserPerformance{}, model.UserStats{}, err
	}
	return perf, stats, nil
}

// updateStats recomputes the aggregate after one newly appended performance.
func updateStats(ctx context.Context, st *store.Store, perf model.UserPerformance, now time.Time) (model.UserStats, error) {
	stats, found, err := st.GetStats(ctx)
	if err != nil {
		return model.UserStats{}, err
	}
	if !found {
		stats = DefaultStats(now)
	}

	// The average covers every stored performance of this task, the new one
	// included; history is the source of truth.
	history, err := st.ListPerformancesByTask(ctx, perf.Task)
	if err != nil {
		return model.UserStats{}, err
	}
	if len(history) > 0 {
		sum := 0
		for _, p := range history {
			sum += p.Score
		}
		stats.Averages[perf.Task] = float64(sum) / float64(len(history))
	}

	stats.Streak = nextStreak(stats, now)
	stats.TotalScore += perf.Score
	stats.TasksCompleted++
	stats.LastActivity = now

	if err := st.PutStats(ctx, stats); err != nil {
		return model.UserStats{}, err
	}
	return stats, nil
}

// nextStreak applies the calendar-day streak rule: same day keeps the
// streak, yesterday extends it, anything else restarts at 1. Days are
// compared as local dates, never as elapsed durations.
func nextStreak(stats model.UserStats, now time.Time) int {
	if stats.TasksCompleted == 0 {
		return 1
	}
	last := stats.LastActivity
	if sameDay(last, now) {
		return stats.Streak
	}
	if sameDay(last, now.AddDate(0, 0, -1)) {
		return stats.Streak + 1
	}
	return 1
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// markChallengeTask marks the task complete on today's challenge, if one
// exists and includes it. Challenges are only created lazily elsewhere; a
// missing challenge is not an error.
func markChallengeTask(ctx context.Context, st *store.Store, task model.TaskType, now time.Time) error {
	day := now.Local().Format(DayFormat)
	ch, found, err := st.GetChallenge(ctx, day)
	if err != nil {
		return err
	}
	if !found || ch.Completed || !ch.Contains(task) || ch.TaskDone(task) {
		return nil
	}
	if err := ch.MarkTask(task); err != nil {
		return err
	}
	return st.UpsertChallenge(ctx, ch)
}

// EnsureTodaysChallenge returns today's challenge, creating it with three
// distinct random tasks on first access of the day.
func EnsureTodaysChallenge(ctx context.Context, st *store.Store, rnd *rand.Rand, now time.Time) (model.DailyChallenge, error) {
	day := now.Local().Format(DayFormat)
	ch, found, err := st.GetChallenge(ctx, day)
	if err != nil {
		return model.DailyChallenge{}, err
	}
	if found {
		return ch, nil
	}
	tasks := make([]model.TaskType, len(model.AllTasks))
	copy(tasks, model.AllTasks)
	rnd.Shuffle(len(tasks), func(i, j int) {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	})
	ch = model.DailyChallenge{
		ID:             uuid.NewString(),
		Day:            day,
		Tasks:          tasks[:challengeSize],
		CompletedTasks: []model.TaskType{},
	}
	if err := st.UpsertChallenge(ctx, ch); err != nil {
		return model.DailyChallenge{}, err
	}
	return ch, nil
}
