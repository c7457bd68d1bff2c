package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/services"
)

func authedRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{
		Email:   "alice@example.com",
		Subject: "user-1",
		Scope:   "ROLE_USER",
	}))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("creates task for resolved identity and publishes event", func(t *testing.T) {
		service := &MockTaskService{
			CreateFunc: func(ctx context.Context, email string, in services.CreateTask) (*models.Task, error) {
				assert.Equal(t, "alice@example.com", email)
				assert.Equal(t, "Ship release", in.Title)
				return &models.Task{ID: "task-1", Title: in.Title, Status: in.Status}, nil
			},
		}
		publisher := &MockPublisher{}
		h := NewTaskHandler(service, publisher)

		req := authedRequest(t, http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
			Title:     "Ship release",
			Priority:  "HIGH",
			Status:    "OPEN",
			ProjectID: "0b26a1cf-45c3-4bc9-8c4b-51a6b25e44d7",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		events := publisher.Published()
		require.Len(t, events, 1)
		assert.Equal(t, "task-status/updates", events[0].Topic)
		assert.Equal(t, "Task created: task-1 - OPEN", events[0].Message)
	})

	t.Run("unknown project returns 404 and publishes nothing", func(t *testing.T) {
		service := &MockTaskService{
			CreateFunc: func(ctx context.Context, email string, in services.CreateTask) (*models.Task, error) {
				return nil, models.ErrNotFound
			},
		}
		publisher := &MockPublisher{}
		h := NewTaskHandler(service, publisher)

		req := authedRequest(t, http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
			Title:     "Ship release",
			Priority:  "HIGH",
			Status:    "OPEN",
			ProjectID: "0b26a1cf-45c3-4bc9-8c4b-51a6b25e44d7",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, publisher.Published())
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		h := NewTaskHandler(&MockTaskService{}, &MockPublisher{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(nil))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		h := NewTaskHandler(&MockTaskService{}, &MockPublisher{})

		req := authedRequest(t, http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
			Title:     "Ship release",
			Priority:  "URGENT",
			Status:    "OPEN",
			ProjectID: "0b26a1cf-45c3-4bc9-8c4b-51a6b25e44d7",
		})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	t.Run("empty result serializes as empty array", func(t *testing.T) {
		service := &MockTaskService{
			ListFunc: func(ctx context.Context, email string) ([]*models.Task, error) {
				return nil, nil
			},
		}
		h := NewTaskHandler(service, &MockPublisher{})

		req := authedRequest(t, http.MethodGet, "/api/v1/tasks", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Run("publishes deletion event", func(t *testing.T) {
		service := &MockTaskService{
			DeleteFunc: func(ctx context.Context, email, taskID string) error {
				assert.Equal(t, "task-1", taskID)
				return nil
			},
		}
		publisher := &MockPublisher{}
		h := NewTaskHandler(service, publisher)

		req := withURLParam(authedRequest(t, http.MethodDelete, "/api/v1/tasks/task-1", nil), "id", "task-1")
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)

		events := publisher.Published()
		require.Len(t, events, 1)
		assert.Equal(t, "Task deleted: task-1", events[0].Message)
	})

	t.Run("foreign task returns 404", func(t *testing.T) {
		service := &MockTaskService{
			DeleteFunc: func(ctx context.Context, email, taskID string) error {
				return models.ErrNotFound
			},
		}
		publisher := &MockPublisher{}
		h := NewTaskHandler(service, publisher)

		req := withURLParam(authedRequest(t, http.MethodDelete, "/api/v1/tasks/task-9", nil), "id", "task-9")
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, publisher.Published())
	})
}
