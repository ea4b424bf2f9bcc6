package model

import (
	"errors"
	"testing"
)

func TestParseTask(t *testing.T) {
	for _, task := range AllTasks {
		parsed, err := ParseTask(string(task))
		if err != nil || parsed != task {
			t.Errorf("ParseTask(%q) = %v, %v", task, parsed, err)
		}
	}
	if _, err := ParseTask("juggling"); err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func TestMetricsCodec(t *testing.T) {
	cases := []TaskMetrics{
		TappingMetrics{Taps: 52, DurationMs: 10000},
		StroopMetrics{Correct: 18, Incorrect: 2, AvgReactionMs: 1200},
		ReactionMetrics{AvgReactionMs: 250},
		HanoiMetrics{MovesUsed: 9, MinMoves: 7, SolveTimeMs: 45000},
		SpatialMetrics{CorrectMatches: 8, TotalAttempts: 10, SequenceLength: 6},
		DecisionMetrics{
			TotalReward:    250,
			LeftChoices:    30,
			RightChoices:   20,
			AdaptationRate: 0.4,
			RiskTaking:     0.6,
			Learning:       0.5,
			Trials: []DecisionTrial{
				{Trial: 1, Door: DoorLeft, Reward: 10, Tier: RewardHigh},
				{Trial: 2, Door: DoorRight, Reward: 0, Tier: RewardNone},
			},
		},
		SoundMetrics{Correct: 15, Incorrect: 5, AvgResponseMs: 1400},
	}
	for _, m := range cases {
		data, err := EncodeMetrics(m)
		if err != nil {
			t.Fatalf("%s: encode: %v", m.Task(), err)
		}
		decoded, err := DecodeMetrics(m.Task(), data)
		if err != nil {
			t.Fatalf("%s: decode: %v", m.Task(), err)
		}
		if decoded.Task() != m.Task() {
			t.Fatalf("%s: decoded task %s", m.Task(), decoded.Task())
		}
	}
	if _, err := DecodeMetrics("juggling", []byte("{}")); err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func validChallenge() DailyChallenge {
	return DailyChallenge{
		ID:             "c1",
		Day:            "2026-08-21",
		Tasks:          []TaskType{TaskTapping, TaskStroop, TaskHanoi},
		CompletedTasks: []TaskType{},
	}
}

func TestChallengeValidate(t *testing.T) {
	ch := validChallenge()
	if err := ch.Validate(); err != nil {
		t.Fatalf("valid challenge rejected: %v", err)
	}

	foreign := validChallenge()
	foreign.CompletedTasks = []TaskType{TaskSound}
	if err := foreign.Validate(); !errors.Is(err, ErrInvalidChallenge) {
		t.Fatalf("foreign completed task: got %v", err)
	}

	dup := validChallenge()
	dup.CompletedTasks = []TaskType{TaskTapping, TaskTapping}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidChallenge) {
		t.Fatalf("duplicate completed task: got %v", err)
	}

	flag := validChallenge()
	flag.Completed = true
	if err := flag.Validate(); !errors.Is(err, ErrInvalidChallenge) {
		t.Fatalf("inconsistent completed flag: got %v", err)
	}
}

func TestChallengeMarkTask(t *testing.T) {
	ch := validChallenge()
	for i, task := range ch.Tasks {
		if err := ch.MarkTask(task); err != nil {
			t.Fatalf("mark %s: %v", task, err)
		}
		wantDone := i == len(ch.Tasks)-1
		if ch.Completed != wantDone {
			t.Fatalf("after marking %s: completed=%v, want %v", task, ch.Completed, wantDone)
		}
	}
	if err := ch.Validate(); err != nil {
		t.Fatalf("completed challenge invalid: %v", err)
	}

	// Marking again or marking a foreign task changes nothing.
	before := len(ch.CompletedTasks)
	if err := ch.MarkTask(ch.Tasks[0]); err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if err := ch.MarkTask(TaskSound); err != nil {
		t.Fatalf("foreign mark: %v", err)
	}
	if len(ch.CompletedTasks) != before {
		t.Fatalf("completed tasks changed: %+v", ch)
	}
}
