package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Goal
var (
	ErrEmptyGoalID     = errors.New("goal ID cannot be empty")
	ErrEmptyGoalUserID = errors.New("goal user ID cannot be empty")
	ErrEmptyGoalTitle  = errors.New("goal title cannot be empty")
)

// Goal represents a learning goal owned by a user. A goal is completed
// automatically once every one of its tasks is completed.
type Goal struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGoal creates a new, incomplete Goal for the given user.
// Returns an error if validation fails.
func NewGoal(userID uuid.UUID, title string) (*Goal, error) {
	goal := &Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Validate checks if the Goal has valid data.
func (g *Goal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGoalID
	}
	if g.UserID == uuid.Nil {
		return ErrEmptyGoalUserID
	}
	if g.Title == "" {
		return ErrEmptyGoalTitle
	}
	return nil
}
