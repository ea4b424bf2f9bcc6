package model

import (
	"errors"
	"fmt"
)

// ErrInvalidChallenge marks a daily challenge whose state violates its
// invariants (foreign or duplicate completed tasks, or a completed flag
// inconsistent with the task lists).
var ErrInvalidChallenge = errors.New("invalid challenge state")

// Validate checks the challenge invariants and fails fast on violations.
func (c DailyChallenge) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("%w: challenge %s has no tasks", ErrInvalidChallenge, c.ID)
	}
	inTasks := make(map[TaskType]struct{}, len(c.Tasks))
	for _, t := range c.Tasks {
		if !t.Valid() {
			return fmt.Errorf("%w: challenge %s has unknown task %q", ErrInvalidChallenge, c.ID, t)
		}
		inTasks[t] = struct{}{}
	}
	seen := make(map[TaskType]struct{}, len(c.CompletedTasks))
	for _, t := range c.CompletedTasks {
		if _, ok := inTasks[t]; !ok {
			return fmt.Errorf("%w: challenge %s completed task %q is not part of the challenge", ErrInvalidChallenge, c.ID, t)
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("%w: challenge %s completed task %q listed twice", ErrInvalidChallenge, c.ID, t)
		}
		seen[t] = struct{}{}
	}
	if c.Completed != (len(c.CompletedTasks) == len(c.Tasks)) {
		return fmt.Errorf("%w: challenge %s completed flag does not match completed tasks", ErrInvalidChallenge, c.ID)
	}
	return nil
}

// Contains reports whether the challenge includes the given task.
func (c DailyChallenge) Contains(task TaskType) bool {
	for _, t := range c.Tasks {
		if t == task {
			return true
		}
	}
	return false
}

// TaskDone reports whether the given task is already marked complete.
func (c DailyChallenge) TaskDone(task TaskType) bool {
	for _, t := range c.CompletedTasks {
		if t == task {
			return true
		}
	}
	return false
}

// MarkTask marks one challenge task complete. Marking a task that is not
// part of the challenge or is already complete is a no-op. The Completed
// flag is set once every task is done.
func (c *DailyChallenge) MarkTask(task TaskType) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.Contains(task) || c.TaskDone(task) {
		return nil
	}
	c.CompletedTasks = append(c.CompletedTasks, task)
	c.Completed = len(c.CompletedTasks) == len(c.Tasks)
	return nil
}
