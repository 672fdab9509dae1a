package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/echo/backend/internal/config"
	"github.com/echo/backend/internal/handlers"
	"github.com/echo/backend/internal/logger"
	appMiddleware "github.com/echo/backend/internal/middleware"
	"github.com/echo/backend/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Environment)

	ctx := context.Background()

	auditService, err := services.NewMongoAuditService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect audit service")
	}

	userService, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB, auditService)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect user service")
	}

	feedbackService, err := services.NewMongoFeedbackService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect feedback service")
	}

	reportService, err := services.NewMongoReportService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect report service")
	}

	moderation := services.NewModerationService(reportService, feedbackService, userService, auditService)

	if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("failed to seed admin account")
	}

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	reportHandler := handlers.NewReportHandler(moderation, reportService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(feedbackService, auditService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(appMiddleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appMiddleware.UserIdentifier)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/user", authHandler.CurrentUser)

		r.Get("/feedbacks", feedbackHandler.List)
		r.Get("/feedbacks/search", feedbackHandler.Search)
		r.Get("/feedbacks/{id}", feedbackHandler.GetByID)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Post("/feedbacks", feedbackHandler.Create)
			r.Put("/feedbacks/{id}/like", feedbackHandler.ToggleLike)
			r.Delete("/feedbacks/{id}", feedbackHandler.Delete)

			r.Post("/reports", reportHandler.Create)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			r.Use(appMiddleware.RequireAdmin)

			r.Get("/reports", reportHandler.List)
			r.Put("/reports/{reportId}/review", reportHandler.Review)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", adminHandler.Stats)
				r.Get("/feedbacks", adminHandler.FilteredFeedback)
				r.Get("/feedbacks/chart-data", adminHandler.ChartData)
				r.Put("/feedbacks/{id}/status", adminHandler.UpdateFeedbackStatus)
				r.Post("/feedbacks/bulk-delete", adminHandler.BulkDelete)
				r.Get("/audit-log", adminHandler.AuditLog)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", userHandler.Detail)
					r.Put("/status", userHandler.SetStatus)
					r.Put("/risk", userHandler.SetRiskLevel)
					r.Delete("/", userHandler.Delete)
				})
			})
		})
	})

	logger.Info().Str("address", cfg.ServerAddress).Msg("Echo API server starting")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal().Err(err).Msg("server failed to start")
	}
}
