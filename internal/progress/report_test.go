package progress

import (
	"context"
	"testing"
	"time"

	"github.com/mindgym-app/mindgym/internal/model"
)

func TestBuildReportEmptyStore(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	report, err := BuildReport(context.Background(), st, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Performances) != 0 {
		t.Fatalf("expected no performances, got %d", len(report.Performances))
	}
	if report.Overall != 0 {
		t.Fatalf("overall should be 0 with no history, got %d", report.Overall)
	}
	if report.Challenge != nil {
		t.Fatal("no challenge should exist before first access")
	}
	if len(report.Stats.Averages) != len(model.AllTasks) {
		t.Fatalf("default stats should carry every task, got %d", len(report.Stats.Averages))
	}
}

func TestBuildReportAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	sessions := []model.TaskMetrics{
		model.TappingMetrics{Taps: 52, DurationMs: 10000},     // 72
		model.ReactionMetrics{AvgReactionMs: 250},             // 75
		model.ReactionMetrics{AvgReactionMs: 400},             // 60
		model.SpatialMetrics{CorrectMatches: 8, TotalAttempts: 10, SequenceLength: 6}, // 86
	}
	for i, m := range sessions {
		if _, _, err := RecordSession(ctx, st, m, now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	report, err := BuildReport(ctx, st, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Performances) != 4 {
		t.Fatalf("got %d performances, want 4", len(report.Performances))
	}
	// Averages: tapping 72, reaction 67.5 (rounds to 68), spatial 86.
	// Overall is the mean of the nonzero rounded averages: (72+68+86)/3.
	if report.Overall != 75 {
		t.Fatalf("overall: got %d, want 75", report.Overall)
	}

	series := ScoreSeries(report.Performances, model.TaskReaction)
	if len(series) != 2 || series[0] != 75 || series[1] != 60 {
		t.Fatalf("unexpected reaction series: %v", series)
	}
	if got := ScoreSeries(report.Performances, model.TaskHanoi); len(got) != 0 {
		t.Fatalf("expected empty hanoi series, got %v", got)
	}
}
