package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskGoalID = errors.New("task goal ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
)

// Task represents a single actionable step under a learning goal.
type Task struct {
	ID        uuid.UUID         `json:"id"`
	GoalID    uuid.UUID         `json:"goal_id"`
	Title     string            `json:"title"`
	Completed bool              `json:"completed"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewTask creates a new, incomplete Task under the given goal.
// Returns an error if validation fails.
func NewTask(goalID uuid.UUID, title string, metadata map[string]string) (*Task, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	task := &Task{
		ID:        uuid.New(),
		GoalID:    goalID,
		Title:     title,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.GoalID == uuid.Nil {
		return ErrEmptyTaskGoalID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}
