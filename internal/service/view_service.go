package service

import (
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
)

// SortMode selects how the view orders tasks.
type SortMode string

const (
	SortByDate     SortMode = "date"
	SortByPriority SortMode = "priority"
)

// StatusFilter narrows the view by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ViewFilter carries the five filter/sort parameters of the view pipeline.
// The zero value shows everything, newest first.
type ViewFilter struct {
	Search   string
	Priority model.Priority // zero value means "all"
	Status   StatusFilter
	Labels   []string // every selected label must be present (AND)
	Sort     SortMode
}

// ToggleLabel adds or removes a label from the selected set.
func (f *ViewFilter) ToggleLabel(label string) {
	for i, l := range f.Labels {
		if l == label {
			f.Labels = append(f.Labels[:i], f.Labels[i+1:]...)
			return
		}
	}
	f.Labels = append(f.Labels, label)
}

// Stats are aggregate counters over the unfiltered list.
type Stats struct {
	Total        int
	Completed    int
	HighPriority int // incomplete high-priority tasks
	Upcoming     int // reminders strictly in the future
}

// View is an ordered sequence of tasks to display plus the counters.
type View struct {
	Tasks []model.Task
	Stats Stats
}

// BuildView runs the pure filter/sort/aggregate pipeline. The input list is
// never mutated; counters are computed over the full list, not the filtered
// view.
func BuildView(tasks []model.Task, filter ViewFilter, now time.Time) View {
	view := View{Stats: buildStats(tasks, now)}

	for _, t := range tasks {
		if matches(t, filter) {
			view.Tasks = append(view.Tasks, t)
		}
	}

	switch filter.Sort {
	case SortByPriority:
		// Stable: ties keep the relative order the filter produced.
		sort.SliceStable(view.Tasks, func(i, j int) bool {
			return view.Tasks[i].Priority.Rank() > view.Tasks[j].Priority.Rank()
		})
	default:
		sort.SliceStable(view.Tasks, func(i, j int) bool {
			return view.Tasks[i].CreatedAt.After(view.Tasks[j].CreatedAt)
		})
	}

	return view
}

func matches(t model.Task, f ViewFilter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Text), strings.ToLower(f.Search)) {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	switch f.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	for _, label := range f.Labels {
		if !t.HasLabel(label) {
			return false
		}
	}
	return true
}

func buildStats(tasks []model.Task, now time.Time) Stats {
	stats := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
		if t.Priority == model.PriorityHigh && !t.Completed {
			stats.HighPriority++
		}
		if t.Reminder != nil && t.Reminder.After(now) {
			stats.Upcoming++
		}
	}
	return stats
}
