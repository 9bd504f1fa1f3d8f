package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pardinian/studypath-api/internal/api"
	apiMiddleware "github.com/pardinian/studypath-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	goalHandler := api.NewGoalHandler(app.goalService)
	videoHandler := api.NewVideoHandler(app.videoService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Learning goal endpoints
			r.Post("/goals", goalHandler.CreateGoal)
			r.Get("/goals", goalHandler.ListGoals)
			r.Delete("/goals/{goalID}", goalHandler.DeleteGoal)
			r.Post("/goals/{goalID}/tasks", goalHandler.CreateTask)
			r.Get("/goals/{goalID}/tasks", goalHandler.ListTasks)
			r.Post("/goals/{goalID}/tasks/{taskID}/complete", goalHandler.CompleteTask)

			// Video processing endpoints
			r.Post("/videos/process", videoHandler.ProcessVideos)
			r.Get("/videos/jobs", videoHandler.ListJobs)
			r.Get("/videos/jobs/{jobID}", videoHandler.GetJob)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
