package services

import (
	"context"
	"time"

	"github.com/taskflow/taskflow/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

// MockTokenCache implements TokenCache for testing
type MockTokenCache struct {
	SaveFunc   func(ctx context.Context, token, email string) error
	DeleteFunc func(ctx context.Context, token string) error

	Saved   map[string]string
	Deleted []string
}

func (m *MockTokenCache) Save(ctx context.Context, token, email string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token, email)
	}
	if m.Saved == nil {
		m.Saved = make(map[string]string)
	}
	m.Saved[token] = email
	return nil
}

func (m *MockTokenCache) Delete(ctx context.Context, token string) error {
	m.Deleted = append(m.Deleted, token)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

// MockTaskRepository implements TaskRepository for testing
type MockTaskRepository struct {
	CreateFunc                  func(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByAssigneeEmailFunc     func(ctx context.Context, email string) ([]*models.Task, error)
	GetByIDAndAssigneeEmailFunc func(ctx context.Context, id, email string) (*models.Task, error)
	UpdateFunc                  func(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteFunc                  func(ctx context.Context, id string) error
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskRepository) ListByAssigneeEmail(ctx context.Context, email string) ([]*models.Task, error) {
	if m.ListByAssigneeEmailFunc != nil {
		return m.ListByAssigneeEmailFunc(ctx, email)
	}
	return []*models.Task{}, nil
}

func (m *MockTaskRepository) GetByIDAndAssigneeEmail(ctx context.Context, id, email string) (*models.Task, error) {
	if m.GetByIDAndAssigneeEmailFunc != nil {
		return m.GetByIDAndAssigneeEmailFunc(ctx, id, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockTaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockProjectRepository implements ProjectRepository for testing
type MockProjectRepository struct {
	CreateFunc               func(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByIDFunc              func(ctx context.Context, id string) (*models.Project, error)
	ListByOwnerEmailFunc     func(ctx context.Context, email string) ([]*models.Project, error)
	GetByIDAndOwnerEmailFunc func(ctx context.Context, id, email string) (*models.Project, error)
	UpdateFunc               func(ctx context.Context, project *models.Project) (*models.Project, error)
	DeleteFunc               func(ctx context.Context, id string) error
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProjectRepository) ListByOwnerEmail(ctx context.Context, email string) ([]*models.Project, error) {
	if m.ListByOwnerEmailFunc != nil {
		return m.ListByOwnerEmailFunc(ctx, email)
	}
	return []*models.Project{}, nil
}

func (m *MockProjectRepository) GetByIDAndOwnerEmail(ctx context.Context, id, email string) (*models.Project, error) {
	if m.GetByIDAndOwnerEmailFunc != nil {
		return m.GetByIDAndOwnerEmailFunc(ctx, id, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// NewTestUser builds a user with sensible defaults for tests
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
