package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// Keys in the durable store. The full task list is rewritten under keyTodos
// on every mutation; the session identity lives under keyUser.
const (
	keyUser  = "user"
	keyTodos = "todos"
)

// TaskService owns the authoritative in-memory task list for the current
// session and mirrors it to the durable store. All mutations require an
// active session and fail with ErrNoSession otherwise.
type TaskService struct {
	store repository.KV
	log   *zap.Logger
	clock func() time.Time

	mu       sync.RWMutex
	active   bool
	tasks    []model.Task
	universe []string
	seen     map[string]struct{}
}

func NewTaskService(store repository.KV, logger *zap.Logger, clock func() time.Time) *TaskService {
	if clock == nil {
		clock = time.Now
	}
	return &TaskService{
		store: store,
		log:   logger,
		clock: clock,
		seen:  make(map[string]struct{}),
	}
}

// Add creates a task from raw input. #label tokens are extracted into the
// task's label set; the remaining trimmed text becomes the task text. Input
// that yields neither text nor labels is rejected with ErrEmptyInput;
// labels alone do justify a task.
func (s *TaskService) Add(ctx context.Context, rawInput string, reminder *time.Time, prio model.Priority) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return model.Task{}, ErrNoSession
	}

	text, labels := model.ExtractLabels(rawInput)
	if text == "" && len(labels) == 0 {
		return model.Task{}, ErrEmptyInput
	}
	if !prio.Valid() {
		prio = model.PriorityMedium
	}

	now := s.clock()
	task := model.Task{
		ID:        model.NewTaskID(now),
		Text:      text,
		CreatedAt: now,
		Reminder:  reminder,
		Priority:  prio,
		Labels:    labels,
	}

	// Most recent first, independent of CreatedAt, until the next sort.
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.accumulate(labels)
	s.persist(ctx)

	return task, nil
}

// Toggle flips the completion state of the task with the given id.
func (s *TaskService) Toggle(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Completed = !t.Completed
	})
}

// Delete removes the task with the given id.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoSession
	}

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return ErrTaskNotFound
}

// SetReminder sets or clears the due alert of the task with the given id.
// Updating the reminder re-arms the scanner's fired-once guard.
func (s *TaskService) SetReminder(ctx context.Context, id string, reminder *time.Time) error {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Reminder = reminder
		t.NotifiedAt = nil
	})
}

// Get returns a copy of the task with the given id.
func (s *TaskService) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Tasks returns a snapshot copy of the full list, most recent first.
func (s *TaskService) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Labels returns the label universe: every label seen during the session,
// kept even when no remaining task carries it. Sorted for stable display.
func (s *TaskService) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.universe))
	copy(out, s.universe)
	sort.Strings(out)
	return out
}

func (s *TaskService) mutate(ctx context.Context, id string, fn func(*model.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoSession
	}

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			fn(&s.tasks[i])
			s.persist(ctx)
			return nil
		}
	}
	return ErrTaskNotFound
}

// markNotified records that the scanner fired for the task's current reminder.
func (s *TaskService) markNotified(ctx context.Context, id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			at := now
			s.tasks[i].NotifiedAt = &at
			s.persist(ctx)
			return
		}
	}
}

// open marks the session active and loads the persisted list. Called by the
// auth gate on login and on startup restore.
func (s *TaskService) open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = true
	s.tasks = nil
	s.universe = nil
	s.seen = make(map[string]struct{})

	raw, ok, err := s.store.Get(ctx, keyTodos)
	if err != nil {
		s.log.Warn("load tasks", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.log.Warn("stored task list is corrupt, starting empty", zap.Error(err))
		return
	}
	s.tasks = tasks
	for _, t := range tasks {
		s.accumulate(t.Labels)
	}
}

// close empties the store and removes the persisted list. Called on logout.
func (s *TaskService) close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	s.tasks = nil
	s.universe = nil
	s.seen = make(map[string]struct{})

	if err := s.store.Delete(ctx, keyTodos); err != nil {
		s.log.Warn("remove persisted tasks", zap.Error(err))
	}
}

// accumulate grows the label universe. Callers hold s.mu.
func (s *TaskService) accumulate(labels []string) {
	for _, l := range labels {
		if _, ok := s.seen[l]; ok {
			continue
		}
		s.seen[l] = struct{}{}
		s.universe = append(s.universe, l)
	}
}

// persist rewrites the full list before the mutation returns. A write
// failure is a warning: in-memory state stays authoritative for the rest of
// the session. Callers hold s.mu.
func (s *TaskService) persist(ctx context.Context) {
	raw, err := json.Marshal(s.tasks)
	if err != nil {
		s.log.Warn("encode tasks", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, keyTodos, string(raw)); err != nil {
		s.log.Warn("persist tasks", zap.Error(err), zap.Int("count", len(s.tasks)))
	}
}

// DisplayText is what notifications and lists show for a task: its text, or
// its labels when the task was created from labels alone.
func DisplayText(t model.Task) string {
	if t.Text != "" {
		return t.Text
	}
	if len(t.Labels) == 0 {
		return ""
	}
	return "#" + strings.Join(t.Labels, " #")
}
