package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalauth "github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/models"
	pkgauth "github.com/taskflow/taskflow/pkg/auth"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// TokenCache is the slice of the token store the security service uses
type TokenCache interface {
	Save(ctx context.Context, token, email string) error
	Delete(ctx context.Context, token string) error
}

// NewUser is the registration input
type NewUser struct {
	FullName string
	Email    string
	Password string
}

// SecurityService handles registration, login and logout
type SecurityService struct {
	users  UserRepository
	tokens TokenCache
	tm     *internalauth.TokenManager
	logger *slog.Logger
}

func NewSecurityService(users UserRepository, tokens TokenCache, tm *internalauth.TokenManager, logger *slog.Logger) *SecurityService {
	return &SecurityService{
		users:  users,
		tokens: tokens,
		tm:     tm,
		logger: logger,
	}
}

// Register creates a new account and opens a session for it.
func (s *SecurityService) Register(ctx context.Context, newUser NewUser) (*models.SessionInfo, error) {
	if err := pkgauth.ValidatePassword(newUser.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrBadRequest, err.Error())
	}

	exists, err := s.users.ExistsByEmail(ctx, newUser.Email)
	if err != nil {
		s.logger.Error("failed to check email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if exists {
		return nil, models.ErrEmailOccupied
	}

	passwordHash, err := pkgauth.HashPassword(newUser.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        newUser.Email,
		PasswordHash: passwordHash,
		Name:         newUser.FullName,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrEmailOccupied
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("email", user.Email))

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
func (s *SecurityService) Login(ctx context.Context, email, password string) (*models.SessionInfo, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to fetch user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, models.ErrUnauthorized
	}

	s.logger.Info("user logged in", slog.String("email", user.Email))

	return s.openSession(ctx, user)
}

// openSession mints a token and records it in the shared token cache.
// A cache failure fails the whole call: a session whose token the gate
// can never resolve is worse than a failed login.
func (s *SecurityService) openSession(ctx context.Context, user *models.User) (*models.SessionInfo, error) {
	token, err := s.tm.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to issue token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.tokens.Save(ctx, internalauth.BearerPrefix+token, user.Email); err != nil {
		s.logger.Error("failed to cache token", slog.String("email", user.Email), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &models.SessionInfo{Token: token}, nil
}

// Logout revokes the session by deleting the token mapping. Revocation is
// best-effort: a store outage is logged, not surfaced, since the token
// still dies with its embedded expiry.
func (s *SecurityService) Logout(ctx context.Context, bearerToken string) {
	if err := s.tokens.Delete(ctx, bearerToken); err != nil {
		s.logger.Warn("failed to delete token on logout", slog.Any("error", err))
	}
}
