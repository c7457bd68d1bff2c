package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow/internal/mail"
	"github.com/taskflow/taskflow/internal/models"
)

type MockTaskSource struct {
	ListByDeadlineBetweenFunc func(ctx context.Context, from, to time.Time) ([]*models.Task, error)
}

func (m *MockTaskSource) ListByDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	return m.ListByDeadlineBetweenFunc(ctx, from, to)
}

type MockSubmitter struct {
	mu   sync.Mutex
	Jobs []mail.Job
}

func (m *MockSubmitter) Submit(job mail.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Jobs = append(m.Jobs, job)
}

func (m *MockSubmitter) Submitted() []mail.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Job(nil), m.Jobs...)
}

func dueTask(id, title, email string, deadline time.Time) *models.Task {
	return &models.Task{
		ID:            id,
		Title:         title,
		AssigneeEmail: email,
		Deadline:      &deadline,
	}
}

func TestReminderScheduler_RunOnceSubmitsJobPerDueTask(t *testing.T) {
	now := time.Now()
	source := &MockTaskSource{
		ListByDeadlineBetweenFunc: func(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
			assert.WithinDuration(t, now, from, time.Second)
			assert.WithinDuration(t, now.Add(time.Hour), to, time.Second)
			return []*models.Task{
				dueTask("task-1", "Ship release", "alice@example.com", now.Add(10*time.Minute)),
				dueTask("task-2", "Review PR", "bob@example.com", now.Add(59*time.Minute)),
			}, nil
		},
	}
	submitter := &MockSubmitter{}
	s := NewReminderScheduler(source, submitter, testLogger(), time.Hour, time.Second, "https://taskflow.example.com/tasks")

	s.RunOnce(context.Background())

	jobs := submitter.Submitted()
	require.Len(t, jobs, 2)

	assert.Equal(t, "task-1", jobs[0].TaskID)
	assert.Equal(t, "alice@example.com", jobs[0].Recipient)
	assert.Equal(t, "Deadline Reminder: Task Due Soon!", jobs[0].Subject)
	assert.Equal(t, mail.TemplateDeadlineReminder, jobs[0].Template)
	assert.Equal(t, "Ship release", jobs[0].Variables["taskTitle"])
	assert.Equal(t, "https://taskflow.example.com/tasks/task-1", jobs[0].Variables["taskLink"])
	assert.Equal(t, "alice@example.com", jobs[0].Variables["email"])

	assert.Equal(t, "task-2", jobs[1].TaskID)
	assert.Equal(t, "bob@example.com", jobs[1].Recipient)
}

func TestReminderScheduler_RunOnceNoDueTasks(t *testing.T) {
	source := &MockTaskSource{
		ListByDeadlineBetweenFunc: func(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
			return nil, nil
		},
	}
	submitter := &MockSubmitter{}
	s := NewReminderScheduler(source, submitter, testLogger(), time.Hour, time.Second, "https://taskflow.example.com/tasks")

	s.RunOnce(context.Background())

	assert.Empty(t, submitter.Submitted())
}

func TestReminderScheduler_QueryFailureSkipsTick(t *testing.T) {
	source := &MockTaskSource{
		ListByDeadlineBetweenFunc: func(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
			return nil, errors.New("connection refused")
		},
	}
	submitter := &MockSubmitter{}
	s := NewReminderScheduler(source, submitter, testLogger(), time.Hour, time.Second, "https://taskflow.example.com/tasks")

	s.RunOnce(context.Background())

	assert.Empty(t, submitter.Submitted())
}

func TestReminderScheduler_StopTerminatesLoop(t *testing.T) {
	source := &MockTaskSource{
		ListByDeadlineBetweenFunc: func(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
			return nil, nil
		},
	}
	s := NewReminderScheduler(source, &MockSubmitter{}, testLogger(), time.Hour, time.Second, "https://taskflow.example.com/tasks")

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestNextHour(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), nextHour(now))

	onTheHour := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), nextHour(onTheHour))
}
