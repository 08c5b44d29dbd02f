package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/model"
)

var viewNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func viewTask(id, text string, prio model.Priority, createdAt time.Time, labels ...string) model.Task {
	return model.Task{
		ID:        id,
		Text:      text,
		Priority:  prio,
		CreatedAt: createdAt,
		Labels:    labels,
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestBuildViewSearchIsCaseInsensitive(t *testing.T) {
	tasks := []model.Task{
		viewTask("1", "Buy Milk", model.PriorityMedium, viewNow),
		viewTask("2", "walk dog", model.PriorityMedium, viewNow),
	}

	view := BuildView(tasks, ViewFilter{Search: "MILK"}, viewNow)
	assert.Equal(t, []string{"1"}, ids(view.Tasks))

	view = BuildView(tasks, ViewFilter{Search: ""}, viewNow)
	assert.Len(t, view.Tasks, 2, "empty search matches everything")
}

func TestBuildViewLabelSelectionIsAnd(t *testing.T) {
	tasks := []model.Task{
		viewTask("both", "x", model.PriorityMedium, viewNow, "a", "b"),
		viewTask("onlyA", "x", model.PriorityMedium, viewNow, "a"),
		viewTask("onlyB", "x", model.PriorityMedium, viewNow, "b"),
		viewTask("none", "x", model.PriorityMedium, viewNow),
	}

	view := BuildView(tasks, ViewFilter{Labels: []string{"a", "b"}}, viewNow)
	assert.Equal(t, []string{"both"}, ids(view.Tasks))

	view = BuildView(tasks, ViewFilter{}, viewNow)
	assert.Len(t, view.Tasks, 4, "empty selection matches everything")
}

func TestBuildViewStatusFilter(t *testing.T) {
	done := viewTask("done", "x", model.PriorityMedium, viewNow)
	done.Completed = true
	open := viewTask("open", "x", model.PriorityMedium, viewNow)
	tasks := []model.Task{done, open}

	view := BuildView(tasks, ViewFilter{Status: StatusActive}, viewNow)
	assert.Equal(t, []string{"open"}, ids(view.Tasks))

	view = BuildView(tasks, ViewFilter{Status: StatusCompleted}, viewNow)
	assert.Equal(t, []string{"done"}, ids(view.Tasks))

	view = BuildView(tasks, ViewFilter{Status: StatusAll}, viewNow)
	assert.Len(t, view.Tasks, 2)
}

func TestBuildViewPriorityFilter(t *testing.T) {
	tasks := []model.Task{
		viewTask("h", "x", model.PriorityHigh, viewNow),
		viewTask("m", "x", model.PriorityMedium, viewNow),
	}

	view := BuildView(tasks, ViewFilter{Priority: model.PriorityHigh}, viewNow)
	assert.Equal(t, []string{"h"}, ids(view.Tasks))

	view = BuildView(tasks, ViewFilter{}, viewNow)
	assert.Len(t, view.Tasks, 2, "zero priority means all")
}

func TestBuildViewSortModes(t *testing.T) {
	a := viewTask("A", "a", model.PriorityHigh, viewNow.Add(1*time.Second))
	b := viewTask("B", "b", model.PriorityLow, viewNow.Add(2*time.Second))
	tasks := []model.Task{a, b}

	view := BuildView(tasks, ViewFilter{Sort: SortByDate}, viewNow)
	assert.Equal(t, []string{"B", "A"}, ids(view.Tasks), "date mode is newest first")

	view = BuildView(tasks, ViewFilter{Sort: SortByPriority}, viewNow)
	assert.Equal(t, []string{"A", "B"}, ids(view.Tasks), "priority mode is high first")
}

func TestBuildViewPrioritySortIsStable(t *testing.T) {
	tasks := []model.Task{
		viewTask("m1", "x", model.PriorityMedium, viewNow.Add(3*time.Second)),
		viewTask("h1", "x", model.PriorityHigh, viewNow.Add(2*time.Second)),
		viewTask("m2", "x", model.PriorityMedium, viewNow.Add(1*time.Second)),
	}

	view := BuildView(tasks, ViewFilter{Sort: SortByPriority}, viewNow)
	assert.Equal(t, []string{"h1", "m1", "m2"}, ids(view.Tasks), "equal priorities keep their incoming order")
}

func TestBuildViewDoesNotMutateInput(t *testing.T) {
	tasks := []model.Task{
		viewTask("1", "x", model.PriorityLow, viewNow.Add(1*time.Second)),
		viewTask("2", "x", model.PriorityHigh, viewNow.Add(2*time.Second)),
	}

	_ = BuildView(tasks, ViewFilter{Sort: SortByPriority}, viewNow)
	assert.Equal(t, []string{"1", "2"}, ids(tasks))
}

func TestBuildViewStatsCoverUnfilteredList(t *testing.T) {
	past := viewNow.Add(-time.Hour)
	future := viewNow.Add(time.Hour)

	done := viewTask("done", "x", model.PriorityHigh, viewNow)
	done.Completed = true
	highOpen := viewTask("high", "x", model.PriorityHigh, viewNow)
	upcoming := viewTask("up", "x", model.PriorityLow, viewNow)
	upcoming.Reminder = &future
	overdue := viewTask("over", "x", model.PriorityLow, viewNow)
	overdue.Reminder = &past

	tasks := []model.Task{done, highOpen, upcoming, overdue}

	// A narrow filter must not change the counters.
	view := BuildView(tasks, ViewFilter{Search: "no-match"}, viewNow)
	require.Empty(t, view.Tasks)
	assert.Equal(t, 4, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Completed)
	assert.Equal(t, 1, view.Stats.HighPriority)
	assert.Equal(t, 1, view.Stats.Upcoming, "only strictly-future reminders count")
}

func TestBuildViewReminderAtNowIsNotUpcoming(t *testing.T) {
	at := viewNow
	task := viewTask("t", "x", model.PriorityLow, viewNow)
	task.Reminder = &at

	view := BuildView([]model.Task{task}, ViewFilter{}, viewNow)
	assert.Equal(t, 0, view.Stats.Upcoming)
}
