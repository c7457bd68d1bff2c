package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/services"
	pkghttp "github.com/taskflow/taskflow/pkg/http"
)

// SecurityServiceInterface defines the interface for auth business logic
type SecurityServiceInterface interface {
	Register(ctx context.Context, newUser services.NewUser) (*models.SessionInfo, error)
	Login(ctx context.Context, email, password string) (*models.SessionInfo, error)
	Logout(ctx context.Context, bearerToken string)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service SecurityServiceInterface
}

func NewAuthHandler(service SecurityServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries the bearer token for an opened session
type SessionResponse struct {
	Token string `json:"token"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	session, err := h.service.Register(r.Context(), services.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailOccupied):
			pkghttp.WriteConflict(w, "Email is already registered")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, SessionResponse{Token: session.Token})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Authentication failed")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{Token: session.Token})
}

// Logout revokes the caller's session token. Always succeeds: revocation
// of an unknown token is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		pkghttp.WriteBadRequest(w, "Missing Authorization header")
		return
	}

	h.service.Logout(r.Context(), authHeader)
	w.WriteHeader(http.StatusNoContent)
}
