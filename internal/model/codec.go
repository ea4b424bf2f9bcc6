package model

import (
	"encoding/json"
	"fmt"
)

// ParseTask converts a task id string to a TaskType.
func ParseTask(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown task %q", s)
	}
	return t, nil
}

// EncodeMetrics serializes a metrics payload for storage.
func EncodeMetrics(m TaskMetrics) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("metrics are nil")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s metrics: %w", m.Task(), err)
	}
	return data, nil
}

// DecodeMetrics deserializes a stored metrics payload for the given task.
func DecodeMetrics(task TaskType, data []byte) (TaskMetrics, error) {
	var (
		m   TaskMetrics
		err error
	)
	switch task {
	case TaskTapping:
		var v TappingMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskStroop:
		var v StroopMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskReaction:
		var v ReactionMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskHanoi:
		var v HanoiMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskSpatial:
		var v SpatialMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskDecision:
		var v DecisionMetrics
		err = json.Unmarshal(data, &v)
		m = v
	case TaskSound:
		var v SoundMetrics
		err = json.Unmarshal(data, &v)
		m = v
	default:
		return nil, fmt.Errorf("unknown task %q", task)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s metrics: %w", task, err)
	}
	return m, nil
}
