package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/domain"
	"github.com/pardinian/studypath-api/internal/platform/logger"
	"github.com/pardinian/studypath-api/internal/store"
)

// TaskStore implements store.TaskStore backed by PostgreSQL. Task metadata
// is stored as JSONB.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a PostgreSQL TaskStore.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	metadata, err := json.Marshal(task.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode task metadata: %w", err)
	}

	query := `
		INSERT INTO tasks (id, goal_id, title, completed, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.ExecContext(ctx, query,
		task.ID, task.GoalID, task.Title, task.Completed, metadata, task.CreatedAt, task.UpdatedAt,
	); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("goal_id", task.GoalID.String()))
		return mapError(err)
	}
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, goal_id, title, completed, metadata, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ListByGoal implements store.TaskStore.ListByGoal.
func (s *TaskStore) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, goal_id, title, completed, metadata, created_at, updated_at
		FROM tasks
		WHERE goal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return tasks, nil
}

// SetCompleted implements store.TaskStore.SetCompleted.
func (s *TaskStore) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `
		UPDATE tasks
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
		return store.ErrTaskNotFound
	}
	return nil
}

// CountByGoal implements store.TaskStore.CountByGoal.
func (s *TaskStore) CountByGoal(ctx context.Context, goalID uuid.UUID) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM tasks
		WHERE goal_id = $1
	`
	var total, completed int
	if err := s.db.QueryRowContext(ctx, query, goalID).Scan(&total, &completed); err != nil {
		return 0, 0, mapError(err)
	}
	return total, completed, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var metadata []byte
	if err := row.Scan(
		&task.ID, &task.GoalID, &task.Title, &task.Completed, &metadata,
		&task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &task.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode task metadata: %w", err)
		}
	}
	return &task, nil
}
