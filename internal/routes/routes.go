package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/handlers"
	"github.com/taskflow/taskflow/internal/middleware"
	"github.com/taskflow/taskflow/internal/notify"
)

// RegisterRoutes registers all application routes under /api/v1, plus
// the websocket endpoint at /ws.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	projectHandler *handlers.ProjectHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	tokenHandler *handlers.TokenHandler,
	hub *notify.Hub,
	tokenStore auth.TokenResolver,
	tokenManager *auth.TokenManager,
	logger *slog.Logger,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	router.Route("/api/v1", func(r chi.Router) {
		// Public routes - no authentication required
		r.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
		r.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

		// Protected routes - gated on a cache-resolved identity
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireIdentity(tokenStore, tokenManager, logger))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.Create)
				r.Get("/", taskHandler.List)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.Create)
				r.Get("/", projectHandler.List)
				r.Get("/{id}", projectHandler.Get)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)

				r.Get("/{id}/analytics/status-counts", analyticsHandler.ProjectStatusCounts)
				r.Get("/{id}/analytics/average-completion", analyticsHandler.ProjectAverageCompletion)
			})

			r.Route("/users/{id}/analytics", func(r chi.Router) {
				r.Get("/status-counts", analyticsHandler.UserStatusCounts)
				r.Get("/average-completion", analyticsHandler.UserAverageCompletion)
			})

			r.Get("/tokens", tokenHandler.List)
		})
	})

	// Websocket subscribers authenticate via ?token= inside the handler;
	// the upgrade cannot carry an Authorization header from browsers.
	router.Get("/ws", hub.HandleWS)
}
