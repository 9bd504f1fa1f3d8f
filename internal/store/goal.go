package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/domain"
)

// GoalStore defines the interface for learning goal persistence.
type GoalStore interface {
	// Create saves a new goal.
	Create(ctx context.Context, goal *domain.Goal) error

	// GetByID retrieves a goal by its ID.
	// Returns ErrGoalNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)

	// ListByUser returns all goals owned by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error)

	// SetCompleted updates a goal's completed flag.
	// Returns ErrGoalNotFound if it does not exist.
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error

	// Delete removes a goal and, via the schema's cascade, its tasks.
	// Returns ErrGoalNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
