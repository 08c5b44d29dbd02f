package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"task-tracker/internal/notify"
)

// ReminderScanner is the recurring background check that compares task
// reminders against the clock and fires a notification once per due,
// incomplete task. It only reads the task list and calls the notifier; it
// never mutates task data beyond the fired-once marker.
type ReminderScanner struct {
	tasks     *TaskService
	notifier  notify.Notifier
	scheduler *SchedulerService
	log       *zap.Logger
	interval  time.Duration
	clock     func() time.Time

	mu      sync.Mutex
	entry   cron.EntryID
	running bool
}

func NewReminderScanner(tasks *TaskService, notifier notify.Notifier, scheduler *SchedulerService, logger *zap.Logger, interval time.Duration) *ReminderScanner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderScanner{
		tasks:     tasks,
		notifier:  notifier,
		scheduler: scheduler,
		log:       logger,
		interval:  interval,
		clock:     time.Now,
	}
}

// Start registers the recurring scan. Called when a session opens; starting
// an already running scanner is a no-op.
func (s *ReminderScanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	id, err := s.scheduler.ScheduleInterval(s.interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Scan(ctx, s.clock())
	})
	if err != nil {
		return err
	}

	s.entry = id
	s.running = true
	s.log.Info("reminder scanner started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the recurring scan so it cannot act on a cleared task store.
// Called on logout and on shutdown.
func (s *ReminderScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Remove(s.entry)
	s.running = false
	s.log.Info("reminder scanner stopped")
}

// Scan fires one notification per task whose reminder has come due while it
// is still incomplete. Each due event notifies at most once: the marker is
// set after a successful send and re-armed when the reminder changes, so a
// failed delivery is retried on the next tick.
func (s *ReminderScanner) Scan(ctx context.Context, now time.Time) {
	for _, task := range s.tasks.Tasks() {
		if task.Reminder == nil || task.Completed || task.NotifiedAt != nil {
			continue
		}
		if task.Reminder.After(now) {
			continue
		}

		title := "Reminder: " + DisplayText(task)
		if err := s.notifier.Notify(ctx, title, "This task is due now!"); err != nil {
			s.log.Warn("deliver reminder", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		s.tasks.markNotified(ctx, task.ID, now)
	}
}
