package handlers

import (
	"context"
	"sync"

	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/services"
)

// MockSecurityService implements SecurityServiceInterface for testing
type MockSecurityService struct {
	RegisterFunc func(ctx context.Context, newUser services.NewUser) (*models.SessionInfo, error)
	LoginFunc    func(ctx context.Context, email, password string) (*models.SessionInfo, error)
	LogoutCalls  []string
}

func (m *MockSecurityService) Register(ctx context.Context, newUser services.NewUser) (*models.SessionInfo, error) {
	return m.RegisterFunc(ctx, newUser)
}

func (m *MockSecurityService) Login(ctx context.Context, email, password string) (*models.SessionInfo, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockSecurityService) Logout(ctx context.Context, bearerToken string) {
	m.LogoutCalls = append(m.LogoutCalls, bearerToken)
}

// MockTaskService implements TaskServiceInterface for testing
type MockTaskService struct {
	CreateFunc func(ctx context.Context, email string, in services.CreateTask) (*models.Task, error)
	ListFunc   func(ctx context.Context, email string) ([]*models.Task, error)
	GetFunc    func(ctx context.Context, email, taskID string) (*models.Task, error)
	UpdateFunc func(ctx context.Context, email, taskID string, in services.UpdateTask) (*models.Task, error)
	DeleteFunc func(ctx context.Context, email, taskID string) error
}

func (m *MockTaskService) Create(ctx context.Context, email string, in services.CreateTask) (*models.Task, error) {
	return m.CreateFunc(ctx, email, in)
}

func (m *MockTaskService) List(ctx context.Context, email string) ([]*models.Task, error) {
	return m.ListFunc(ctx, email)
}

func (m *MockTaskService) Get(ctx context.Context, email, taskID string) (*models.Task, error) {
	return m.GetFunc(ctx, email, taskID)
}

func (m *MockTaskService) Update(ctx context.Context, email, taskID string, in services.UpdateTask) (*models.Task, error) {
	return m.UpdateFunc(ctx, email, taskID, in)
}

func (m *MockTaskService) Delete(ctx context.Context, email, taskID string) error {
	return m.DeleteFunc(ctx, email, taskID)
}

// MockPublisher records published events for testing
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

type PublishedEvent struct {
	Topic   string
	Message string
}

func (m *MockPublisher) Publish(topic, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{Topic: topic, Message: message})
}

func (m *MockPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.Events...)
}
