package progress

import (
	"context"
	"math"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mindgym.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestDefaultStats(t *testing.T) {
	now := time.Now()
	stats := DefaultStats(now)
	if stats.TotalScore != 0 || stats.Streak != 0 || stats.TasksCompleted != 0 {
		t.Fatalf("expected zero counters: %+v", stats)
	}
	if len(stats.Averages) != len(model.AllTasks) {
		t.Fatalf("expected one average per task, got %d", len(stats.Averages))
	}
	for task, avg := range stats.Averages {
		if avg != 0 {
			t.Fatalf("average for %s should default to 0, got %f", task, avg)
		}
	}
	if !stats.LastActivity.Equal(now) {
		t.Fatalf("last activity should be now")
	}
}

func TestRecordSessionFirstEver(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	perf, stats, err := RecordSession(ctx, st, model.TappingMetrics{Taps: 52, DurationMs: 10000}, now)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if perf.ID == "" {
		t.Fatal("performance needs an id")
	}
	if perf.Score != 72 {
		t.Fatalf("score: got %d, want 72", perf.Score)
	}
	if stats.Streak != 1 || stats.TasksCompleted != 1 || stats.TotalScore != 72 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Averages[model.TaskTapping] != 72 {
		t.Fatalf("average: got %f, want 72", stats.Averages[model.TaskTapping])
	}
}

func TestAverageTracksHistory(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	sessions := []model.TaskMetrics{
		model.ReactionMetrics{AvgReactionMs: 250}, // 75
		model.ReactionMetrics{AvgReactionMs: 400}, // 60
		model.ReactionMetrics{AvgReactionMs: 100}, // 90
	}
	var stats model.UserStats
	var err error
	for i, m := range sessions {
		_, stats, err = RecordSession(ctx, st, m, now.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	history, err := st.ListPerformancesByTask(ctx, model.TaskReaction)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sum := 0
	for _, p := range history {
		sum += p.Score
	}
	want := float64(sum) / float64(len(history))
	if math.Abs(stats.Averages[model.TaskReaction]-want) > 1e-9 {
		t.Fatalf("average %f does not match history mean %f", stats.Averages[model.TaskReaction], want)
	}
	if stats.TasksCompleted != 3 || stats.TotalScore != sum {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	// Other tasks stay at their default.
	if stats.Averages[model.TaskHanoi] != 0 {
		t.Fatalf("hanoi average should stay 0, got %f", stats.Averages[model.TaskHanoi])
	}
}

func TestStreakTransitions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	day1 := time.Date(2026, 8, 18, 20, 0, 0, 0, time.Local)

	metrics := model.ReactionMetrics{AvgReactionMs: 300}

	_, stats, err := RecordSession(ctx, st, metrics, day1)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.Streak != 1 {
		t.Fatalf("first session: streak %d, want 1", stats.Streak)
	}

	// Same day, streak unchanged.
	_, stats, err = RecordSession(ctx, st, metrics, day1.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.Streak != 1 {
		t.Fatalf("same day: streak %d, want 1", stats.Streak)
	}

	// Next calendar day, even across midnight hours, extends the streak.
	day2 := time.Date(2026, 8, 19, 0, 30, 0, 0, time.Local)
	_, stats, err = RecordSession(ctx, st, metrics, day2)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.Streak != 2 {
		t.Fatalf("next day: streak %d, want 2", stats.Streak)
	}

	// A gap of two days resets.
	day4 := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)
	_, stats, err = RecordSession(ctx, st, metrics, day4)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if stats.Streak != 1 {
		t.Fatalf("after gap: streak %d, want 1", stats.Streak)
	}
}

func TestChallengeLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)
	rnd := rand.New(rand.NewSource(7))

	ch, err := EnsureTodaysChallenge(ctx, st, rnd, now)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(ch.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(ch.Tasks))
	}
	seen := map[model.TaskType]bool{}
	for _, task := range ch.Tasks {
		if seen[task] {
			t.Fatalf("duplicate task %s in challenge", task)
		}
		seen[task] = true
	}

	// Second access the same day returns the stored challenge.
	again, err := EnsureTodaysChallenge(ctx, st, rnd, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.ID != ch.ID {
		t.Fatal("challenge must be created once per day")
	}

	// Completing each challenge task marks it; the last one completes the
	// challenge.
	for i, task := range ch.Tasks {
		_, _, err := RecordSession(ctx, st, metricsFor(task), now.Add(time.Duration(i+1)*time.Minute))
		if err != nil {
			t.Fatalf("record %s: %v", task, err)
		}
	}
	final, found, err := st.GetChallenge(ctx, ch.Day)
	if err != nil || !found {
		t.Fatalf("get challenge: found=%v err=%v", found, err)
	}
	if !final.Completed || len(final.CompletedTasks) != len(final.Tasks) {
		t.Fatalf("challenge should be complete: %+v", final)
	}

	// Repeating a task after completion leaves the challenge untouched.
	if _, _, err := RecordSession(ctx, st, metricsFor(ch.Tasks[0]), now.Add(time.Hour)); err != nil {
		t.Fatalf("record repeat: %v", err)
	}
	final, _, err = st.GetChallenge(ctx, ch.Day)
	if err != nil {
		t.Fatalf("get challenge: %v", err)
	}
	if len(final.CompletedTasks) != len(final.Tasks) {
		t.Fatalf("completed tasks changed after repeat: %+v", final)
	}
}

func TestSessionForUnlistedTaskDoesNotTouchChallenge(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	ch := model.DailyChallenge{
		ID:             "c1",
		Day:            now.Format(DayFormat),
		Tasks:          []model.TaskType{model.TaskStroop, model.TaskHanoi, model.TaskSound},
		CompletedTasks: []model.TaskType{},
	}
	if err := st.UpsertChallenge(ctx, ch); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, _, err := RecordSession(ctx, st, model.TappingMetrics{Taps: 60, DurationMs: 10000}, now); err != nil {
		t.Fatalf("record: %v", err)
	}
	loaded, _, err := st.GetChallenge(ctx, ch.Day)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.CompletedTasks) != 0 {
		t.Fatalf("unlisted task must not mark the challenge: %+v", loaded)
	}
}

func metricsFor(task model.TaskType) model.TaskMetrics {
	switch task {
	case model.TaskTapping:
		return model.TappingMetrics{Taps: 60, DurationMs: 10000}
	case model.TaskStroop:
		return model.StroopMetrics{Correct: 15, Incorrect: 5, AvgReactionMs: 1200}
	case model.TaskReaction:
		return model.ReactionMetrics{AvgReactionMs: 300}
	case model.TaskHanoi:
		return model.HanoiMetrics{MovesUsed: 10, MinMoves: 7, SolveTimeMs: 60000}
	case model.TaskSpatial:
		return model.SpatialMetrics{CorrectMatches: 8, TotalAttempts: 10, SequenceLength: 5}
	case model.TaskDecision:
		return model.DecisionMetrics{TotalReward: 250, AdaptationRate: 0.5, RiskTaking: 0.5, Learning: 0.4}
	case model.TaskSound:
		return model.SoundMetrics{Correct: 14, Incorrect: 6, AvgResponseMs: 1500}
	default:
		return nil
	}
}
