package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/domain"
)

// TaskStore defines the interface for goal task persistence.
type TaskStore interface {
	// Create saves a new task under its goal.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByGoal returns all tasks under the given goal in creation order.
	ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*domain.Task, error)

	// SetCompleted updates a task's completed flag.
	// Returns ErrTaskNotFound if it does not exist.
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error

	// CountByGoal returns the total and completed task counts for a goal.
	CountByGoal(ctx context.Context, goalID uuid.UUID) (total, completed int, err error)
}
