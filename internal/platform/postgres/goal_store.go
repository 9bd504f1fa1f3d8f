package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/domain"
	"github.com/pardinian/studypath-api/internal/platform/logger"
	"github.com/pardinian/studypath-api/internal/store"
)

// GoalStore implements store.GoalStore backed by PostgreSQL.
type GoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GoalStore = (*GoalStore)(nil)

// NewGoalStore creates a PostgreSQL GoalStore.
func NewGoalStore(db store.DBTX, log *slog.Logger) *GoalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &GoalStore{
		db:     db,
		logger: log.With(slog.String("component", "goal_store")),
	}
}

// Create implements store.GoalStore.Create.
func (s *GoalStore) Create(ctx context.Context, goal *domain.Goal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO goals (id, user_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Completed, goal.CreatedAt, goal.UpdatedAt,
	); err != nil {
		log.Error("failed to create goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return mapError(err)
	}
	return nil
}

// GetByID implements store.GoalStore.GetByID.
func (s *GoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM goals
		WHERE id = $1
	`
	var goal domain.Goal
	if err := s.db.QueryRowContext(ctx, query, id).Scan(
		&goal.ID, &goal.UserID, &goal.Title, &goal.Completed, &goal.CreatedAt, &goal.UpdatedAt,
	); err != nil {
		mapped := mapError(err)
		if store.IsNotFound(mapped) {
			return nil, store.ErrGoalNotFound
		}
		return nil, mapped
	}
	return &goal, nil
}

// ListByUser implements store.GoalStore.ListByUser.
func (s *GoalStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	goals := []*domain.Goal{}
	for rows.Next() {
		var goal domain.Goal
		if err := rows.Scan(
			&goal.ID, &goal.UserID, &goal.Title, &goal.Completed, &goal.CreatedAt, &goal.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		goals = append(goals, &goal)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return goals, nil
}

// SetCompleted implements store.GoalStore.SetCompleted.
func (s *GoalStore) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `
		UPDATE goals
		SET completed = $2, updated_at = $3
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, id, completed, time.Now().UTC())
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrGoalNotFound
	}
	return nil
}

// Delete implements store.GoalStore.Delete. Tasks under the goal are
// removed by the schema's ON DELETE CASCADE.
func (s *GoalStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrGoalNotFound
	}
	return nil
}
