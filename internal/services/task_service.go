package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByAssigneeEmail(ctx context.Context, email string) ([]*models.Task, error)
	GetByIDAndAssigneeEmail(ctx context.Context, id, email string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// ProjectGetter resolves the project a task is filed under
type ProjectGetter interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
}

// CreateTask is the task creation input
type CreateTask struct {
	Title       string
	Description string
	Priority    string
	Status      string
	ProjectID   string
	Deadline    *time.Time
}

// UpdateTask is the task update input
type UpdateTask struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Deadline    *time.Time
}

// TaskService handles task CRUD scoped to the resolved caller identity.
// The email argument on every method is the identity the gate resolved;
// the service never re-validates tokens.
type TaskService struct {
	tasks    TaskRepository
	users    UserRepository
	projects ProjectGetter
	logger   *slog.Logger
}

func NewTaskService(tasks TaskRepository, users UserRepository, projects ProjectGetter, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		projects: projects,
		logger:   logger,
	}
}

// Create assigns a new task to the caller within an existing project.
func (s *TaskService) Create(ctx context.Context, email string, in CreateTask) (*models.Task, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if _, err := s.projects.GetByID(ctx, in.ProjectID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch project", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	task, err := s.tasks.Create(ctx, &models.Task{
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        in.Status,
		AssigneeID:    user.ID,
		AssigneeEmail: user.Email,
		ProjectID:     in.ProjectID,
		Deadline:      in.Deadline,
	})
	if err != nil {
		s.logger.Error("failed to create task", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return task, nil
}

// List returns all tasks assigned to the caller.
func (s *TaskService) List(ctx context.Context, email string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListByAssigneeEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tasks, nil
}

// Get returns one of the caller's tasks by id.
func (s *TaskService) Get(ctx context.Context, email, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByIDAndAssigneeEmail(ctx, taskID, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch task", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return task, nil
}

// Update modifies one of the caller's tasks.
func (s *TaskService) Update(ctx context.Context, email, taskID string, in UpdateTask) (*models.Task, error) {
	task, err := s.Get(ctx, email, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Priority = in.Priority
	task.Status = in.Status
	task.Deadline = in.Deadline

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		s.logger.Error("failed to update task", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

// Delete removes one of the caller's tasks.
func (s *TaskService) Delete(ctx context.Context, email, taskID string) error {
	task, err := s.Get(ctx, email, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete task", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}
