package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow/internal/auth"
	pkghttp "github.com/taskflow/taskflow/pkg/http"
)

// AnalyticsServiceInterface defines the interface for task aggregates
type AnalyticsServiceInterface interface {
	StatusCountForProject(ctx context.Context, projectID string) (map[string]int64, error)
	StatusCountForUser(ctx context.Context, userID string) (map[string]int64, error)
	AverageCompletionForProject(ctx context.Context, projectID string) (*float64, error)
	AverageCompletionForUser(ctx context.Context, userID string) (*float64, error)
}

// AnalyticsHandler serves task aggregates per project and per user
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// AverageCompletionResponse wraps the nullable aggregate so "no tasks"
// serializes as null instead of 0.
type AverageCompletionResponse struct {
	AverageCompletionDays *float64 `json:"average_completion_days"`
}

func (h *AnalyticsHandler) ProjectStatusCounts(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	counts, err := h.service.StatusCountForProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, counts)
}

func (h *AnalyticsHandler) UserStatusCounts(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	counts, err := h.service.StatusCountForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, counts)
}

func (h *AnalyticsHandler) ProjectAverageCompletion(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	avg, err := h.service.AverageCompletionForProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, AverageCompletionResponse{AverageCompletionDays: avg})
}

func (h *AnalyticsHandler) UserAverageCompletion(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	avg, err := h.service.AverageCompletionForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, AverageCompletionResponse{AverageCompletionDays: avg})
}
