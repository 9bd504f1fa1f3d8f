package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/job"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse is the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// UserResponse is the sanitized user representation for /auth/me.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGoalRequest is the payload for creating a learning goal.
type CreateGoalRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// CreateTaskRequest is the payload for adding a task under a goal.
type CreateTaskRequest struct {
	Title    string            `json:"title"    validate:"required,min=1,max=255"`
	Metadata map[string]string `json:"metadata" validate:"omitempty"`
}

// CompleteTaskResponse reports the completed task and whether completing
// it finished the whole goal.
type CompleteTaskResponse struct {
	Task          interface{} `json:"task"`
	GoalCompleted bool        `json:"goal_completed"`
}

// ProcessVideosRequest is the payload for starting a video batch.
type ProcessVideosRequest struct {
	VideoURLs  []string `json:"video_urls"  validate:"required,min=1,dive,required,url"`
	WebhookURL string   `json:"webhook_url" validate:"omitempty,url"`
}

// ProcessVideosResponse acknowledges an accepted batch.
type ProcessVideosResponse struct {
	JobID                    uuid.UUID `json:"job_id"`
	Status                   string    `json:"status"`
	TotalItems               int       `json:"total_items"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
}

// JobResponse is the client-facing snapshot of a processing job.
type JobResponse struct {
	ID        uuid.UUID        `json:"id"`
	Type      string           `json:"type"`
	Status    string           `json:"status"`
	Progress  job.Progress     `json:"progress"`
	Results   []job.ItemResult `json:"results,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// EstimatedRemainingMinutes is reported for in-flight jobs only.
	EstimatedRemainingMinutes int `json:"estimated_remaining_minutes,omitempty"`
}

// JobListResponse wraps the owner's jobs.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Count int           `json:"count"`
}

// NewJobResponse converts a job snapshot to its API representation.
// Results reflect whatever has finished so far: in-flight polls see the
// compacted partial view, which grows until the job reaches a terminal
// state.
func NewJobResponse(j *job.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    string(j.Status),
		Progress:  j.Progress,
		Results:   j.Results,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
