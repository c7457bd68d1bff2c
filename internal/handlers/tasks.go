package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/notify"
	"github.com/taskflow/taskflow/internal/services"
	pkghttp "github.com/taskflow/taskflow/pkg/http"
)

// topicTaskStatus is where task mutations are announced to subscribers
const topicTaskStatus = "task-status/updates"

// TaskServiceInterface defines the interface for task business logic
type TaskServiceInterface interface {
	Create(ctx context.Context, email string, in services.CreateTask) (*models.Task, error)
	List(ctx context.Context, email string) ([]*models.Task, error)
	Get(ctx context.Context, email, taskID string) (*models.Task, error)
	Update(ctx context.Context, email, taskID string, in services.UpdateTask) (*models.Task, error)
	Delete(ctx context.Context, email, taskID string) error
}

// TaskHandler handles task CRUD requests for the resolved caller
type TaskHandler struct {
	service   TaskServiceInterface
	publisher notify.Publisher
}

func NewTaskHandler(service TaskServiceInterface, publisher notify.Publisher) *TaskHandler {
	return &TaskHandler{service: service, publisher: publisher}
}

// CreateTaskRequest represents the request body for task creation
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    string     `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	Status      string     `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
	ProjectID   string     `json:"project_id" validate:"required,uuid"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateTaskRequest represents the request body for task updates
type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Priority    string     `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	Status      string     `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	task, err := h.service.Create(r.Context(), identity.Email, services.CreateTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	h.publisher.Publish(topicTaskStatus, fmt.Sprintf("Task created: %s - %s", task.ID, task.Status))
	pkghttp.WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tasks, err := h.service.List(r.Context(), identity.Email)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if tasks == nil {
		tasks = []*models.Task{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	task, err := h.service.Get(r.Context(), identity.Email, chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	task, err := h.service.Update(r.Context(), identity.Email, chi.URLParam(r, "id"), services.UpdateTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	h.publisher.Publish(topicTaskStatus, fmt.Sprintf("Task updated: %s - %s", task.ID, task.Status))
	pkghttp.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	taskID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), identity.Email, taskID); err != nil {
		writeTaskError(w, err)
		return
	}

	h.publisher.Publish(topicTaskStatus, fmt.Sprintf("Task deleted: %s", taskID))
	w.WriteHeader(http.StatusNoContent)
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
