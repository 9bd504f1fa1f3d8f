package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pardinian/studypath-api/internal/config"
	"github.com/pardinian/studypath-api/internal/job"
	"github.com/pardinian/studypath-api/internal/platform/pipeline"
	"github.com/pardinian/studypath-api/internal/platform/postgres"
	"github.com/pardinian/studypath-api/internal/service"
	"github.com/pardinian/studypath-api/internal/service/auth"
	"github.com/pardinian/studypath-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	goalStore store.GoalStore
	taskStore store.TaskStore

	// Auth
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Services
	goalService  service.GoalService
	videoService service.VideoService

	// Job subsystem
	jobStore  *job.Store
	jobRunner *job.Runner
	janitor   *job.Janitor
}

// newApplication creates an application with all dependencies wired.
// The caller owns db until newApplication returns successfully; after
// that cleanup() closes it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, cfg.Auth.BcryptCost, logger)
	app.goalStore = postgres.NewGoalStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)

	app.goalService, err = service.NewGoalService(app.goalStore, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal service: %w", err)
	}

	processor, err := pipeline.NewGeminiProcessor(
		ctx,
		logger.With("component", "video_processor"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize video processor: %w", err)
	}
	logger.Info("video processor initialized", "model", cfg.LLM.ModelName)

	notifier := job.NewWebhookNotifier(
		time.Duration(cfg.Jobs.NotifyTimeoutSeconds)*time.Second,
		logger,
	)
	app.jobStore = job.NewStore(logger)
	app.jobRunner = job.NewRunner(app.jobStore, notifier, logger)
	fanout := job.NewFanOutWorker(processor, notifier, logger)

	app.janitor, err = job.NewJanitor(
		app.jobStore,
		time.Duration(cfg.Jobs.RetentionHours)*time.Hour,
		cfg.Jobs.JanitorSchedule,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job janitor: %w", err)
	}
	app.janitor.Start()

	app.videoService, err = service.NewVideoService(
		app.jobStore,
		app.jobRunner,
		fanout,
		cfg.Jobs,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. In-flight
// jobs are allowed to finish so their terminal webhooks still fire.
func (app *application) cleanup() {
	if app.janitor != nil {
		app.janitor.Stop()
	}

	if app.jobRunner != nil {
		app.logger.Info("waiting for in-flight jobs to finish")
		app.jobRunner.Wait()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
