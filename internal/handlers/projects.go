package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/services"
	pkghttp "github.com/taskflow/taskflow/pkg/http"
)

// ProjectServiceInterface defines the interface for project business logic
type ProjectServiceInterface interface {
	Create(ctx context.Context, email string, in services.CreateProject) (*models.Project, error)
	List(ctx context.Context, email string) ([]*models.Project, error)
	Get(ctx context.Context, email, projectID string) (*models.Project, error)
	Update(ctx context.Context, email, projectID string, in services.UpdateProject) (*models.Project, error)
	Delete(ctx context.Context, email, projectID string) error
}

// ProjectHandler handles project CRUD requests for the resolved caller
type ProjectHandler struct {
	service ProjectServiceInterface
}

func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ProjectRequest represents the request body for project creation and update
type ProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	project, err := h.service.Create(r.Context(), identity.Email, services.CreateProject{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	projects, err := h.service.List(r.Context(), identity.Email)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	if projects == nil {
		projects = []*models.Project{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	project, err := h.service.Get(r.Context(), identity.Email, chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	project, err := h.service.Update(r.Context(), identity.Email, chi.URLParam(r, "id"), services.UpdateProject{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeTaskError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), identity.Email, chi.URLParam(r, "id")); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
