package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskflow/taskflow/internal/models"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	ListByOwnerEmail(ctx context.Context, email string) ([]*models.Project, error)
	GetByIDAndOwnerEmail(ctx context.Context, id, email string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// CreateProject is the project creation input
type CreateProject struct {
	Name        string
	Description string
}

// UpdateProject is the project update input
type UpdateProject struct {
	Name        string
	Description string
}

// ProjectService handles project CRUD scoped to the resolved caller identity
type ProjectService struct {
	projects ProjectRepository
	users    UserRepository
	logger   *slog.Logger
}

func NewProjectService(projects ProjectRepository, users UserRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, email string, in CreateProject) (*models.Project, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	project, err := s.projects.Create(ctx, &models.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		s.logger.Error("failed to create project", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return project, nil
}

func (s *ProjectService) List(ctx context.Context, email string) ([]*models.Project, error) {
	projects, err := s.projects.ListByOwnerEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to list projects", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, email, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByIDAndOwnerEmail(ctx, projectID, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch project", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, email, projectID string, in UpdateProject) (*models.Project, error) {
	project, err := s.Get(ctx, email, projectID)
	if err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.Description = in.Description

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		s.logger.Error("failed to update project", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, email, projectID string) error {
	project, err := s.Get(ctx, email, projectID)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete project", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}
