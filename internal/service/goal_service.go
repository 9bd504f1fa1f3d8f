package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/domain"
	"github.com/pardinian/studypath-api/internal/store"
)

// GoalService provides goal and task operations with ownership checks and
// the goal auto-completion rule.
type GoalService interface {
	// CreateGoal creates a new goal for the user.
	CreateGoal(ctx context.Context, userID uuid.UUID, title string) (*domain.Goal, error)

	// ListGoals returns the user's goals, newest first.
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error)

	// DeleteGoal removes one of the user's goals together with its tasks.
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error

	// CreateTask creates a task under one of the user's goals. Adding a
	// task to a completed goal reopens the goal.
	CreateTask(ctx context.Context, userID, goalID uuid.UUID, title string, metadata map[string]string) (*domain.Task, error)

	// ListTasks returns the tasks under one of the user's goals.
	ListTasks(ctx context.Context, userID, goalID uuid.UUID) ([]*domain.Task, error)

	// CompleteTask marks a task completed and reports whether that
	// completed the whole goal.
	CompleteTask(ctx context.Context, userID, goalID, taskID uuid.UUID) (*domain.Task, bool, error)
}

type goalService struct {
	goals  store.GoalStore
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ GoalService = (*goalService)(nil)

// NewGoalService creates a GoalService over the given stores.
func NewGoalService(goals store.GoalStore, tasks store.TaskStore, logger *slog.Logger) (GoalService, error) {
	if goals == nil {
		return nil, errors.New("goal store cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &goalService{
		goals:  goals,
		tasks:  tasks,
		logger: logger.With("component", "goal_service"),
	}, nil
}

func (s *goalService) CreateGoal(ctx context.Context, userID uuid.UUID, title string) (*domain.Goal, error) {
	goal, err := domain.NewGoal(userID, title)
	if err != nil {
		return nil, err
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.Info("goal created", "goal_id", goal.ID, "user_id", userID)
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, goalID); err != nil {
		if store.IsNotFound(err) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	s.logger.Info("goal deleted", "goal_id", goalID, "user_id", userID)
	return nil
}

func (s *goalService) CreateTask(ctx context.Context, userID, goalID uuid.UUID, title string, metadata map[string]string) (*domain.Task, error) {
	goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(goalID, title, metadata)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// A completed goal gains an incomplete task, so it is open again.
	if goal.Completed {
		if err := s.goals.SetCompleted(ctx, goalID, false); err != nil {
			return nil, fmt.Errorf("failed to reopen goal: %w", err)
		}
	}

	s.logger.Info("task created", "task_id", task.ID, "goal_id", goalID)
	return task, nil
}

func (s *goalService) ListTasks(ctx context.Context, userID, goalID uuid.UUID) ([]*domain.Task, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *goalService) CompleteTask(ctx context.Context, userID, goalID, taskID uuid.UUID) (*domain.Task, bool, error) {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, false, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, ErrTaskNotFound
		}
		return nil, false, fmt.Errorf("failed to load task: %w", err)
	}
	if task.GoalID != goalID {
		return nil, false, ErrTaskNotFound
	}

	if err := s.tasks.SetCompleted(ctx, taskID, true); err != nil {
		return nil, false, fmt.Errorf("failed to complete task: %w", err)
	}
	task.Completed = true

	goalCompleted, err := s.reconcileGoalCompletion(ctx, goalID)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("task completed",
		"task_id", taskID,
		"goal_id", goalID,
		"goal_auto_completed", goalCompleted)
	return task, goalCompleted, nil
}

// reconcileGoalCompletion recomputes a goal's completed flag from its task
// counts. A goal with no tasks is never auto-completed.
func (s *goalService) reconcileGoalCompletion(ctx context.Context, goalID uuid.UUID) (bool, error) {
	total, completed, err := s.tasks.CountByGoal(ctx, goalID)
	if err != nil {
		return false, fmt.Errorf("failed to count tasks: %w", err)
	}

	done := total > 0 && total == completed
	if err := s.goals.SetCompleted(ctx, goalID, done); err != nil {
		return false, fmt.Errorf("failed to update goal completion: %w", err)
	}
	return done, nil
}

// ownedGoal loads a goal and checks it belongs to userID.
func (s *goalService) ownedGoal(ctx context.Context, userID, goalID uuid.UUID) (*domain.Goal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, ErrNotOwned
	}
	return goal, nil
}
