package services

import (
	"context"
	"log/slog"

	"github.com/taskflow/taskflow/internal/models"
)

// TaskAnalyticsRepository is the aggregate-query slice of the task repository
type TaskAnalyticsRepository interface {
	CountByStatusForProject(ctx context.Context, projectID string) (map[string]int64, error)
	CountByStatusForUser(ctx context.Context, userID string) (map[string]int64, error)
	AverageCompletionDaysForProject(ctx context.Context, projectID string) (*float64, error)
	AverageCompletionDaysForUser(ctx context.Context, userID string) (*float64, error)
}

// AnalyticsService exposes task aggregates per project and per user
type AnalyticsService struct {
	tasks  TaskAnalyticsRepository
	logger *slog.Logger
}

func NewAnalyticsService(tasks TaskAnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{tasks: tasks, logger: logger}
}

func (s *AnalyticsService) StatusCountForProject(ctx context.Context, projectID string) (map[string]int64, error) {
	counts, err := s.tasks.CountByStatusForProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to count tasks by status", slog.String("project_id", projectID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return counts, nil
}

func (s *AnalyticsService) StatusCountForUser(ctx context.Context, userID string) (map[string]int64, error) {
	counts, err := s.tasks.CountByStatusForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count tasks by status", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return counts, nil
}

// AverageCompletionForProject returns nil when the project has no tasks
// with deadlines.
func (s *AnalyticsService) AverageCompletionForProject(ctx context.Context, projectID string) (*float64, error) {
	avg, err := s.tasks.AverageCompletionDaysForProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to compute average completion time", slog.String("project_id", projectID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return avg, nil
}

func (s *AnalyticsService) AverageCompletionForUser(ctx context.Context, userID string) (*float64, error) {
	avg, err := s.tasks.AverageCompletionDaysForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to compute average completion time", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return avg, nil
}
