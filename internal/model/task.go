package model

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Priority is the urgency bucket of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps user input to a Priority, defaulting to medium for
// an empty string.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(raw), true
	case "":
		return PriorityMedium, true
	default:
		return "", false
	}
}

// Rank orders priorities for sorting: high > medium > low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Task represents a single item in the tracker.
type Task struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"createdAt"`
	Reminder   *time.Time `json:"reminder,omitempty"`
	Priority   Priority   `json:"priority"`
	Labels     []string   `json:"labels,omitempty"`
	NotifiedAt *time.Time `json:"notifiedAt,omitempty"`
}

// HasLabel reports whether the task carries the given label (case-sensitive).
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

var taskSeq atomic.Uint64

// NewTaskID derives an identifier from the creation time plus a process-local
// counter, so tasks created within the same clock tick still get distinct ids.
func NewTaskID(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.UnixNano(), taskSeq.Add(1))
}
