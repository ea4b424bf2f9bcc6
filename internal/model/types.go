// Package model defines shared data structures.
package model

import "time"

// TaskType identifies one of the seven cognitive/motor tasks.
type TaskType string

// The seven supported tasks.
const (
	TaskTapping  TaskType = "tapping-speed"
	TaskStroop   TaskType = "stroop-test"
	TaskReaction TaskType = "reaction-time"
	TaskHanoi    TaskType = "tower-of-hanoi"
	TaskSpatial  TaskType = "spatial-memory"
	TaskDecision TaskType = "decision-task"
	TaskSound    TaskType = "sound-discrimination"
)

// AllTasks lists every task in display order.
var AllTasks = []TaskType{
	TaskTapping,
	TaskStroop,
	TaskReaction,
	TaskHanoi,
	TaskSpatial,
	TaskDecision,
	TaskSound,
}

var taskNames = map[TaskType]string{
	TaskTapping:  "Tapping Speed",
	TaskStroop:   "Stroop Test",
	TaskReaction: "Reaction Time",
	TaskHanoi:    "Tower of Hanoi",
	TaskSpatial:  "Spatial Memory",
	TaskDecision: "Decision Task",
	TaskSound:    "Sound Discrimination",
}

// Name returns the human-readable task name.
func (t TaskType) Name() string {
	if name, ok := taskNames[t]; ok {
		return name
	}
	return string(t)
}

// Valid reports whether t is one of the seven known tasks.
func (t TaskType) Valid() bool {
	_, ok := taskNames[t]
	return ok
}

// TaskMetrics is the per-task bag of raw measurements. Each task has its
// own payload type so required fields are explicit in the type system.
type TaskMetrics interface {
	Task() TaskType
}

// TappingMetrics captures a tapping-speed session.
type TappingMetrics struct {
	Taps       int   `json:"taps"`
	DurationMs int64 `json:"durationMs"`
}

// Task implements TaskMetrics.
func (TappingMetrics) Task() TaskType { return TaskTapping }

// StroopMetrics captures a Stroop session.
type StroopMetrics struct {
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	AvgReactionMs float64 `json:"avgReactionMs"`
}

// Task implements TaskMetrics.
func (StroopMetrics) Task() TaskType { return TaskStroop }

// ReactionMetrics captures a reaction-time session.
type ReactionMetrics struct {
	AvgReactionMs float64 `json:"avgReactionMs"`
}

// Task implements TaskMetrics.
func (ReactionMetrics) Task() TaskType { return TaskReaction }

// HanoiMetrics captures a Tower of Hanoi session.
type HanoiMetrics struct {
	MovesUsed   int   `json:"movesUsed"`
	MinMoves    int   `json:"minMoves"`
	SolveTimeMs int64 `json:"solveTimeMs"`
}

// Task implements TaskMetrics.
func (HanoiMetrics) Task() TaskType { return TaskHanoi }

// SpatialMetrics captures a spatial-memory session.
type SpatialMetrics struct {
	CorrectMatches int `json:"correctMatches"`
	TotalAttempts  int `json:"totalAttempts"`
	SequenceLength int `json:"sequenceLength"`
}

// Task implements TaskMetrics.
func (SpatialMetrics) Task() TaskType { return TaskSpatial }

// Door identifies a decision-task choice.
type Door string

// Decision-task doors.
const (
	DoorLeft  Door = "left"
	DoorRight Door = "right"
)

// RewardTier classifies a decision-task trial outcome.
type RewardTier string

// Decision-task reward tiers.
const (
	RewardHigh RewardTier = "high"
	RewardLow  RewardTier = "low"
	RewardNone RewardTier = "none"
)

// DecisionTrial records one decision-task trial.
type DecisionTrial struct {
	Trial  int        `json:"trial"`
	Door   Door       `json:"door"`
	Reward int        `json:"reward"`
	Tier   RewardTier `json:"tier"`
}

// DecisionMetrics captures a decision-task session, including the derived
// measures consumed by scoring.
type DecisionMetrics struct {
	TotalReward    int             `json:"totalReward"`
	LeftChoices    int             `json:"leftChoices"`
	RightChoices   int             `json:"rightChoices"`
	AdaptationRate float64         `json:"adaptationRate"`
	RiskTaking     float64         `json:"riskTaking"`
	Learning       float64         `json:"learning"`
	Trials         []DecisionTrial `json:"trials,omitempty"`
}

// Task implements TaskMetrics.
func (DecisionMetrics) Task() TaskType { return TaskDecision }

// SoundMetrics captures a sound-discrimination session.
type SoundMetrics struct {
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	AvgResponseMs float64 `json:"avgResponseMs"`
}

// Task implements TaskMetrics.
func (SoundMetrics) Task() TaskType { return TaskSound }

// UserPerformance is one completed session. Records are immutable once
// appended to history.
type UserPerformance struct {
	ID          string
	Task        TaskType
	Score       int
	CompletedAt time.Time
	Metrics     TaskMetrics
}

// UserStats is the running aggregate derived from the performance history.
type UserStats struct {
	TotalScore     int
	Streak         int
	TasksCompleted int
	Averages       map[TaskType]float64
	LastActivity   time.Time
}

// DailyChallenge is one calendar day's set of three tasks.
type DailyChallenge struct {
	ID             string
	Day            string // local calendar day, YYYY-MM-DD
	Tasks          []TaskType
	Completed      bool
	CompletedTasks []TaskType
}

// Config defines task-runner settings.
type Config struct {
	TappingSeconds int
	ReactionRounds int
	StroopTrials   int
	SpatialLength  int
	HanoiDisks     int
}
