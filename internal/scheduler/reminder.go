package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal/mail"
	"github.com/taskflow/taskflow/internal/models"
)

const reminderSubject = "Deadline Reminder: Task Due Soon!"

// DueTaskSource lists tasks whose deadline falls in [from, to)
type DueTaskSource interface {
	ListByDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error)
}

// JobSubmitter accepts reminder jobs without blocking on their outcome
type JobSubmitter interface {
	Submit(job mail.Job)
}

// ReminderScheduler wakes at the top of every hour, queries tasks due
// within the reminder window, and submits one email job per task. A
// task is never marked as reminded: if it still falls inside the window
// on the next tick it is reminded again. Ticks are independent - a
// failed query skips that hour's reminders entirely and the next tick
// proceeds as normal.
type ReminderScheduler struct {
	tasks      DueTaskSource
	dispatcher JobSubmitter
	logger     *slog.Logger
	window     time.Duration
	timeout    time.Duration
	urlBase    string
	stopCh     chan struct{}
}

func NewReminderScheduler(tasks DueTaskSource, dispatcher JobSubmitter, logger *slog.Logger, window, queryTimeout time.Duration, taskURLBase string) *ReminderScheduler {
	return &ReminderScheduler{
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     logger,
		window:     window,
		timeout:    queryTimeout,
		urlBase:    taskURLBase,
		stopCh:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called or the context is
// cancelled. Call in a goroutine.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.logger.Info("reminder scheduler started",
		slog.Duration("window", s.window),
	)

	for {
		timer := time.NewTimer(time.Until(nextHour(time.Now())))
		select {
		case <-timer.C:
			s.RunOnce(ctx)
		case <-s.stopCh:
			timer.Stop()
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reminder scheduler stopped")
			return
		}
	}
}

// Stop terminates the tick loop. In-flight jobs already handed to the
// dispatcher are unaffected.
func (s *ReminderScheduler) Stop() {
	close(s.stopCh)
}

// RunOnce performs a single tick: query the due window and fan out one
// job per task. Exposed so a tick can be driven directly in tests.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now()
	tasks, err := s.tasks.ListByDeadlineBetween(queryCtx, now, now.Add(s.window))
	if err != nil {
		s.logger.Error("due task query failed, skipping tick", slog.Any("error", err))
		return
	}

	if len(tasks) == 0 {
		return
	}

	s.logger.Info("dispatching deadline reminders", slog.Int("count", len(tasks)))

	for _, task := range tasks {
		s.dispatcher.Submit(mail.Job{
			TaskID:    task.ID,
			Recipient: task.AssigneeEmail,
			Subject:   reminderSubject,
			Template:  mail.TemplateDeadlineReminder,
			Variables: map[string]any{
				"taskTitle": task.Title,
				"taskLink":  fmt.Sprintf("%s/%s", s.urlBase, task.ID),
				"email":     task.AssigneeEmail,
			},
		})
	}
}

func nextHour(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}
