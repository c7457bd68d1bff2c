package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/cache"
	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/database"
	"github.com/taskflow/taskflow/internal/handlers"
	middlewareCustom "github.com/taskflow/taskflow/internal/middleware"
	"github.com/taskflow/taskflow/internal/mail"
	"github.com/taskflow/taskflow/internal/notify"
	"github.com/taskflow/taskflow/internal/repositories"
	"github.com/taskflow/taskflow/internal/routes"
	"github.com/taskflow/taskflow/internal/scheduler"
	"github.com/taskflow/taskflow/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize redis-backed token store
	redisClient, err := cache.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	tokenStore := cache.NewTokenStore(redisClient, logger)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// Initialize services
	securityService := services.NewSecurityService(userRepo, tokenStore, tokenManager, logger)
	taskService := services.NewTaskService(taskRepo, userRepo, projectRepo, logger)
	projectService := services.NewProjectService(projectRepo, userRepo, logger)
	analyticsService := services.NewAnalyticsService(taskRepo, logger)

	// Initialize mail pipeline and reminder scheduler
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mailer, err := mail.NewSESMailer(bootCtx, cfg.Mail.AWSRegion, cfg.Mail.FromAddress, logger)
	bootCancel()
	if err != nil {
		logger.Error("failed to initialize mailer", slog.Any("error", err))
		os.Exit(1)
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		logger.Error("failed to load mail templates", slog.Any("error", err))
		os.Exit(1)
	}

	dispatcher := scheduler.NewDispatcher(mailer, renderer, logger, cfg.Scheduler.SendTimeout)
	reminderScheduler := scheduler.NewReminderScheduler(
		taskRepo,
		dispatcher,
		logger,
		cfg.Scheduler.ReminderWindow,
		cfg.Scheduler.QueryTimeout,
		cfg.Mail.TaskURLBase,
	)

	// Initialize websocket hub
	hub := notify.NewHub(tokenStore, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(securityService)
	taskHandler := handlers.NewTaskHandler(taskService, hub)
	projectHandler := handlers.NewProjectHandler(projectService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	tokenHandler := handlers.NewTokenHandler(tokenStore)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, taskHandler, projectHandler, analyticsHandler, tokenHandler, hub, tokenStore, tokenManager, logger)

	// Health check with database and redis
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")

		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","redis":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start reminder scheduler
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()

	go reminderScheduler.Start(schedulerCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	reminderScheduler.Stop()
	schedulerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Let in-flight reminder emails finish before the process exits.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("dispatcher shutdown timed out", slog.Any("error", err))
	}

	if err := hub.Shutdown(shutdownCtx); err != nil {
		logger.Warn("hub shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
}
